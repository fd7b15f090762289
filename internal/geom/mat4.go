package geom

import "math"

// Vec3 is a 3-component vector.
type Vec3 [3]float64

// Mat4 is a 4x4 matrix stored column-major, the layout shader uniforms expect.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective builds a right-handed projection matrix mapping the view
// frustum onto clip space with depth in [-1, 1].
func Perspective(fovy, aspect, near, far float64) Mat4 {
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		aspect = 1
	}
	f := 1.0 / math.Tan(fovy/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[11] = -1
	if far > near && !math.IsInf(far, 1) {
		nf := 1 / (near - far)
		m[10] = (far + near) * nf
		m[14] = 2 * far * near * nf
	} else {
		m[10] = -1
		m[14] = -2 * near
	}
	return m
}

// LookAt builds a view matrix for an eye looking at center with the given up vector.
// A degenerate eye == center returns the identity.
func LookAt(eye, center, up Vec3) Mat4 {
	z := eye.Sub(center)
	if z.Length() < 1e-9 {
		return Identity()
	}
	z = z.Normalize()
	x := up.Cross(z)
	if x.Length() < 1e-9 {
		x = Vec3{}
	} else {
		x = x.Normalize()
	}
	y := z.Cross(x)
	if y.Length() > 1e-9 {
		y = y.Normalize()
	}

	return Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * n[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Transform multiplies the column vector (x, y, z, w) by m.
func (m Mat4) Transform(x, y, z, w float64) (float64, float64, float64, float64) {
	return m[0]*x + m[4]*y + m[8]*z + m[12]*w,
		m[1]*x + m[5]*y + m[9]*z + m[13]*w,
		m[2]*x + m[6]*y + m[10]*z + m[14]*w,
		m[3]*x + m[7]*y + m[11]*z + m[15]*w
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length; the zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}
