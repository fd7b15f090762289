// Package field turns a banded spectrum into a flat point-cloud vertex buffer.
//
// Columns of a row spread along x, magnitudes lift points along y and rows
// recede along z. Rows past the first are mirrored across the z=0 plane, so a
// half-depth spectrum fills the whole field.
package field

import (
	"math"

	"github.com/guidoenr/spectrafield/internal/spectrum"
)

// MaxMagnitude is the full-scale value of a spectrum band.
const MaxMagnitude = 255.0

// Config controls the geometry of the field.
type Config struct {
	// Size is the extent of the field along x, y and z.
	Size [3]float64
	// FogExponent shapes the per-row fog weight (z/F*2)^FogExponent.
	FogExponent float64
	// Fog adds the fog weight attribute; without it the stride is 4.
	Fog bool
	// Mirror emits a second copy of every row z > 0 at -z.
	Mirror bool
}

// Stride returns the number of floats per vertex.
func (c Config) Stride() int {
	if c.Fog {
		return 5
	}
	return 4
}

// VertexCount returns how many vertices Build emits for rowLimit rows of bands values.
func VertexCount(rowLimit, bands int, mirror bool) int {
	if rowLimit <= 0 || bands <= 0 {
		return 0
	}
	if !mirror {
		return rowLimit * bands
	}
	return bands + (rowLimit-1)*2*bands
}

// Build appends the vertices for rows [0, rowLimit) of s to dst[:0] and
// returns the extended slice. rowLimit is clamped to the number of rows.
func Build(dst []float32, s spectrum.Spectrum, rowLimit int, cfg Config) []float32 {
	dst = dst[:0]
	if rowLimit > s.Rows() {
		rowLimit = s.Rows()
	}
	bands := s.Bands()
	if rowLimit <= 0 || bands == 0 {
		return dst
	}

	need := VertexCount(rowLimit, bands, cfg.Mirror) * cfg.Stride()
	if cap(dst) < need {
		dst = make([]float32, 0, need)
	}

	fb := float64(bands)
	for z := 0; z < rowLimit; z++ {
		depth := float64(z) / fb
		zz := float32(depth * cfg.Size[2])
		w := float32(math.Pow(depth*2, cfg.FogExponent))
		for x, value := range s[z] {
			f := value / MaxMagnitude
			xx := float32((float64(x)/fb - 0.5) * cfg.Size[0])
			yy := float32(f * cfg.Size[1])

			dst = appendVertex(dst, cfg.Fog, xx, yy, zz, float32(f), w)
			if cfg.Mirror && z != 0 {
				dst = appendVertex(dst, cfg.Fog, xx, yy, -zz, float32(f), w)
			}
		}
	}
	return dst
}

func appendVertex(dst []float32, fog bool, x, y, z, force, weight float32) []float32 {
	if fog {
		return append(dst, x, y, z, force, weight)
	}
	return append(dst, x, y, z, force)
}
