package spectrum

import "math"

// Spectrum is the banded smoothing state: Rows() weight bands of Bands() values
// each, on the raw 0-255 magnitude scale. Row 0 tracks the signal fastest.
type Spectrum [][]float64

// Velocity holds the per-row deltas applied during a single Smooth call.
type Velocity [][]float64

// Rows returns the number of weight bands.
func (s Spectrum) Rows() int { return len(s) }

// Bands returns the number of frequency bands per row.
func (s Spectrum) Bands() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// At returns the value at (row, band), or 0 when out of range.
func (s Spectrum) At(row, band int) float64 {
	if row < 0 || row >= len(s) || band < 0 || band >= len(s[row]) {
		return 0
	}
	return s[row][band]
}

// Clone returns a deep copy.
func (s Spectrum) Clone() Spectrum {
	if s == nil {
		return nil
	}
	out := make(Spectrum, len(s))
	for i, row := range s {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// At returns the delta at (row, band), or 0 when out of range.
func (v Velocity) At(row, band int) float64 {
	if row < 0 || row >= len(v) || band < 0 || band >= len(v[row]) {
		return 0
	}
	return v[row][band]
}

// Bands returns the row width of v.
func (v Velocity) Bands() int {
	if len(v) == 0 {
		return 0
	}
	return len(v[0])
}

// UsableBins returns how many of the lowest bins feed the bands: resolution*log2(bands),
// capped at total. A non-positive resolution uses every bin.
func UsableBins(total, bands, resolution int) int {
	if resolution <= 0 || bands <= 1 {
		return total
	}
	limit := int(float64(resolution) * math.Log2(float64(bands)))
	if limit > total {
		return total
	}
	return limit
}

// GroupAverage partitions the usable prefix of raw into bands contiguous groups
// and returns the mean of each.
func GroupAverage(raw []uint8, bands, resolution int) []float64 {
	out := make([]float64, bands)
	groupAverageInto(out, raw, resolution)
	return out
}

func groupAverageInto(out []float64, raw []uint8, resolution int) {
	bands := len(out)
	if bands == 0 {
		return
	}
	used := UsableBins(len(raw), bands, resolution)
	group := used / bands
	if group < 1 {
		group = 1
	}
	for b := range out {
		start := b * group
		sum := 0.0
		for i := start; i < start+group; i++ {
			if i < used {
				sum += float64(raw[i])
			}
		}
		out[b] = sum / float64(group)
	}
}
