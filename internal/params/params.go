package params

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guidoenr/spectrafield/internal/camera"
	"github.com/guidoenr/spectrafield/internal/field"
	"github.com/guidoenr/spectrafield/internal/spectrum"
)

// Parameters holds every tunable of the pipeline. Presets differ only in
// these values.
type Parameters struct {
	Name string

	// analysis
	Bands      int
	Resolution int
	Rows       int
	Rate       float64

	// geometry
	RowLimit    int
	Size        [3]float64
	FogExponent float64
	Fog         bool
	Mirror      bool
	PointSize   float64

	// projection
	FOV   float64
	ZNear float64
	ZFar  float64

	// camera
	Drag         float64
	Distance0    float64
	DistanceMin  float64
	DistanceMax  float64
	TargetY      float64
	Theta0       float64
	Phi0         float64
	Spin0        float64
	AudioShake   bool
	PointerScale float64

	// post-processing
	PostProcess bool
	PostRow     int
	PostBand    int
}

// Defaults returns the inertial preset: mirrored 32-band field, drag camera
// with audio shake, post pass available.
func Defaults() Parameters {
	return Parameters{
		Name:         "inertial",
		Bands:        32,
		Resolution:   64,
		Rows:         32,
		Rate:         300,
		RowLimit:     16,
		Size:         [3]float64{16, 6, 16},
		FogExponent:  1.5,
		Fog:          true,
		Mirror:       true,
		PointSize:    8,
		FOV:          55 * math.Pi / 180,
		ZNear:        0.1,
		ZFar:         100,
		Drag:         0.96,
		Distance0:    6,
		DistanceMin:  1,
		DistanceMax:  16,
		TargetY:      1,
		Theta0:       -math.Pi / 7,
		Phi0:         -math.Pi / 2,
		Spin0:        -0.001,
		AudioShake:   true,
		PointerScale: 1.0 / 200,
		PostProcess:  false,
		PostRow:      1,
		PostBand:     16,
	}
}

var presets = map[string]func() Parameters{
	"inertial": Defaults,
	"trail": func() Parameters {
		p := Defaults()
		p.Name = "trail"
		p.FogExponent = 1.0
		p.AudioShake = false
		return p
	},
	"classic": func() Parameters {
		p := Defaults()
		p.Name = "classic"
		p.Bands = 16
		p.Rows = 16
		p.RowLimit = 16
		p.Size = [3]float64{4, 1, 4}
		p.Fog = false
		p.FogExponent = 1
		p.Mirror = false
		p.PointSize = 6
		p.FOV = 45 * math.Pi / 180
		p.Distance0 = math.Hypot(10, 3)
		p.TargetY = 0
		p.Theta0 = math.Pi / 2
		p.Phi0 = math.Atan2(10, 3)
		p.Spin0 = 0.01
		p.AudioShake = false
		p.PostBand = 8
		return p
	},
}

// Preset returns the named parameter set.
func Preset(name string) (Parameters, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Defaults(), nil
	}
	fn, ok := presets[key]
	if !ok {
		return Parameters{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames returns the available preset identifiers.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FFTSize is the analyzer window length: bands x resolution.
func (p Parameters) FFTSize() int {
	return p.Bands * p.Resolution
}

// Validate reports the first inconsistent value.
func (p Parameters) Validate() error {
	switch {
	case p.Bands <= 0:
		return fmt.Errorf("bands must be positive (got %d)", p.Bands)
	case p.Rows < 0:
		return fmt.Errorf("rows must not be negative (got %d)", p.Rows)
	case p.Rate <= 0:
		return fmt.Errorf("rate must be positive (got %f)", p.Rate)
	case p.RowLimit < 0:
		return fmt.Errorf("row limit must not be negative (got %d)", p.RowLimit)
	case !(p.Drag > 0 && p.Drag < 1):
		return fmt.Errorf("drag must be in (0,1) (got %f)", p.Drag)
	case p.DistanceMin <= 0 || p.DistanceMax < p.DistanceMin:
		return fmt.Errorf("invalid distance range [%f, %f]", p.DistanceMin, p.DistanceMax)
	case p.FOV <= 0 || p.FOV >= math.Pi:
		return fmt.Errorf("fov must be in (0, pi) (got %f)", p.FOV)
	case p.ZNear <= 0 || p.ZFar <= p.ZNear:
		return fmt.Errorf("invalid clip range [%f, %f]", p.ZNear, p.ZFar)
	}
	return nil
}

// SmootherConfig derives the spectrum smoother configuration.
func (p Parameters) SmootherConfig() spectrum.Config {
	return spectrum.Config{
		Bands:      p.Bands,
		Rows:       p.Rows,
		Resolution: p.Resolution,
		Rate:       p.Rate,
	}
}

// CameraConfig derives the camera configuration.
func (p Parameters) CameraConfig() camera.Config {
	return camera.Config{
		Drag:         p.Drag,
		DistanceMin:  p.DistanceMin,
		DistanceMax:  p.DistanceMax,
		TargetY:      p.TargetY,
		PointerScale: p.PointerScale,
		Initial: camera.State{
			Theta:   p.Theta0,
			Phi:     p.Phi0,
			Radius:  p.Distance0,
			D2Theta: p.Spin0,
		},
	}
}

// FieldConfig derives the point field geometry.
func (p Parameters) FieldConfig() field.Config {
	return field.Config{
		Size:        p.Size,
		FogExponent: p.FogExponent,
		Fog:         p.Fog,
		Mirror:      p.Mirror,
	}
}
