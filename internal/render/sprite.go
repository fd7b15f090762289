package render

import "math"

type rgb [3]float64

var (
	white   = rgb{1, 1, 1}
	magenta = rgb{1, 0.184, 0.573}
	cyan    = rgb{0, 0.588, 1}
	yellow  = rgb{1, 0.831, 0.475}
)

const (
	spriteLift = 0.35
	spriteEdge = 0.75
)

var spriteInks = [3]struct {
	color  rgb
	offset float64
}{
	{magenta, -math.Pi / 6},
	{cyan, -5 * math.Pi / 6},
	{yellow, -9 * math.Pi / 6},
}

// spriteColor shades one fragment of a point sprite at sprite coordinates
// (u, v) in [0,1]^2. Three tinted discs orbit the center by force and are
// multiplied over white; fog pulls each tint toward white.
func spriteColor(force, fog, pointSize, u, v float64) rgb {
	radius := (1 - spriteLift) / 2
	lift := force * spriteLift
	spin := force * 2 * math.Pi
	edge := spriteEdge / math.Max(pointSize, 1e-6)

	c := white
	for _, ink := range spriteInks {
		a := ink.offset + spin
		cx := 0.5 + math.Cos(a)*lift/2
		cy := 0.5 + math.Sin(a)*lift/2
		d := math.Hypot(u-cx, v-cy)
		alpha := 1 - smoothstep(radius-edge, radius, d)
		if alpha <= 0 {
			continue
		}
		tint := mix(ink.color, white, fog)
		for k := range c {
			c[k] = c[k]*tint[k]*alpha + c[k]*(1-alpha)
		}
	}
	return c
}

func smoothstep(e0, e1, x float64) float64 {
	if e1 <= e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

func mix(a, b rgb, t float64) rgb {
	t = clamp01(t)
	return rgb{
		a[0]*(1-t) + b[0]*t,
		a[1]*(1-t) + b[1]*t,
		a[2]*(1-t) + b[2]*t,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
