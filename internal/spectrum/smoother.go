package spectrum

import "fmt"

// Config controls the Smoother.
type Config struct {
	// Bands is the number of frequency bands F each row carries.
	Bands int
	// Rows is the number of weight bands W. Zero means Bands.
	Rows int
	// Resolution limits grouping to the lowest Resolution*log2(Bands) bins.
	Resolution int
	// Rate divides the per-second velocity; larger is slower.
	Rate float64
}

// Smoother integrates raw frequency samples into a banded spectrum. Each row
// approaches the current grouped sample at a rate weighted by (row+1)^2, so
// higher rows trail behind the signal.
type Smoother struct {
	cfg      Config
	state    Spectrum
	velocity Velocity
	current  []float64
}

// New validates cfg and returns an uninitialized Smoother.
func New(cfg Config) (*Smoother, error) {
	if cfg.Bands <= 0 {
		return nil, fmt.Errorf("bands must be positive (got %d)", cfg.Bands)
	}
	if cfg.Rows <= 0 {
		cfg.Rows = cfg.Bands
	}
	if cfg.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive (got %f)", cfg.Rate)
	}

	velocity := make(Velocity, cfg.Rows)
	for w := range velocity {
		velocity[w] = make([]float64, cfg.Bands)
	}
	return &Smoother{
		cfg:      cfg,
		velocity: velocity,
		current:  make([]float64, cfg.Bands),
	}, nil
}

// Initialized reports whether a first sample has been absorbed.
func (s *Smoother) Initialized() bool { return s.state != nil }

// Spectrum returns the live smoothing state. Callers must not mutate it.
func (s *Smoother) Spectrum() Spectrum { return s.state }

// Smooth folds raw into the spectrum and returns the velocity applied this
// frame. The first call replicates the grouped sample into every row and
// applies no velocity. A non-positive dt leaves the state untouched.
// Each row's step is capped at the full gap to the sample: when
// dt*Rate*(w+1)^2 < 1 the velocity is raw-state, not (raw-state)/dt/Rate/(w+1)^2.
// The returned Velocity is reused by the next call.
func (s *Smoother) Smooth(raw []uint8, dt float64) Velocity {
	groupAverageInto(s.current, raw, s.cfg.Resolution)

	if s.state == nil {
		s.state = make(Spectrum, s.cfg.Rows)
		for w := range s.state {
			s.state[w] = append([]float64(nil), s.current...)
		}
		s.clearVelocity()
		return s.velocity
	}

	if dt <= 0 {
		s.clearVelocity()
		return s.velocity
	}

	for w, row := range s.state {
		gain := 1.0 / dt / s.cfg.Rate / weigh(w)
		// per-frame gain above 1 would overshoot the raw value
		if gain > 1 {
			gain = 1
		}
		vel := s.velocity[w]
		for i := range row {
			vel[i] = (s.current[i] - row[i]) * gain
			row[i] += vel[i]
		}
	}
	return s.velocity
}

func (s *Smoother) clearVelocity() {
	for _, row := range s.velocity {
		for i := range row {
			row[i] = 0
		}
	}
}

func weigh(row int) float64 {
	w := float64(row + 1)
	return w * w
}
