package scene

import (
	"github.com/chewxy/math32"
)

// Vector3 is a 3D vector of float32 components
type Vector3 struct {
	X, Y, Z float32
}

func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v Vector3) MulScalar(s float32) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vector3) Dot(other Vector3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vector3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normal returns v scaled to unit length, or the zero vector if v has no length
func (v Vector3) Normal() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return v.MulScalar(1 / length)
}

// Matrix4 is a row-major 4x4 matrix that transforms row vectors (v * M)
type Matrix4 [4][4]float32

func Identity4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation4 returns a matrix that moves points by offset
func Translation4(offset Vector3) Matrix4 {
	m := Identity4()
	m[3][0] = offset.X
	m[3][1] = offset.Y
	m[3][2] = offset.Z
	return m
}

func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var result Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[row][k] * other[k][col]
			}
			result[row][col] = sum
		}
	}
	return result
}

func (m Matrix4) Transpose() Matrix4 {
	var result Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[row][col] = m[col][row]
		}
	}
	return result
}

// TransformPoint transforms p as a row vector with w = 1
func (m Matrix4) TransformPoint(p Vector3) Vector3 {
	x := p.X*m[0][0] + p.Y*m[1][0] + p.Z*m[2][0] + m[3][0]
	y := p.X*m[0][1] + p.Y*m[1][1] + p.Z*m[2][1] + m[3][1]
	z := p.X*m[0][2] + p.Y*m[1][2] + p.Z*m[2][2] + m[3][2]
	w := p.X*m[0][3] + p.Y*m[1][3] + p.Z*m[2][3] + m[3][3]
	if w != 0 && w != 1 {
		return Vector3{X: x / w, Y: y / w, Z: z / w}
	}
	return Vector3{X: x, Y: y, Z: z}
}

// Inverse returns the inverse of m. ok is false when m is singular.
func (m Matrix4) Inverse() (inverse Matrix4, ok bool) {
	a := m
	s0 := a[0][0]*a[1][1] - a[1][0]*a[0][1]
	s1 := a[0][0]*a[1][2] - a[1][0]*a[0][2]
	s2 := a[0][0]*a[1][3] - a[1][0]*a[0][3]
	s3 := a[0][1]*a[1][2] - a[1][1]*a[0][2]
	s4 := a[0][1]*a[1][3] - a[1][1]*a[0][3]
	s5 := a[0][2]*a[1][3] - a[1][2]*a[0][3]

	c5 := a[2][2]*a[3][3] - a[3][2]*a[2][3]
	c4 := a[2][1]*a[3][3] - a[3][1]*a[2][3]
	c3 := a[2][1]*a[3][2] - a[3][1]*a[2][2]
	c2 := a[2][0]*a[3][3] - a[3][0]*a[2][3]
	c1 := a[2][0]*a[3][2] - a[3][0]*a[2][2]
	c0 := a[2][0]*a[3][1] - a[3][0]*a[2][1]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if math32.Abs(det) < 1e-12 {
		return Matrix4{}, false
	}
	invDet := 1 / det

	inverse[0][0] = (a[1][1]*c5 - a[1][2]*c4 + a[1][3]*c3) * invDet
	inverse[0][1] = (-a[0][1]*c5 + a[0][2]*c4 - a[0][3]*c3) * invDet
	inverse[0][2] = (a[3][1]*s5 - a[3][2]*s4 + a[3][3]*s3) * invDet
	inverse[0][3] = (-a[2][1]*s5 + a[2][2]*s4 - a[2][3]*s3) * invDet

	inverse[1][0] = (-a[1][0]*c5 + a[1][2]*c2 - a[1][3]*c1) * invDet
	inverse[1][1] = (a[0][0]*c5 - a[0][2]*c2 + a[0][3]*c1) * invDet
	inverse[1][2] = (-a[3][0]*s5 + a[3][2]*s2 - a[3][3]*s1) * invDet
	inverse[1][3] = (a[2][0]*s5 - a[2][2]*s2 + a[2][3]*s1) * invDet

	inverse[2][0] = (a[1][0]*c4 - a[1][1]*c2 + a[1][3]*c0) * invDet
	inverse[2][1] = (-a[0][0]*c4 + a[0][1]*c2 - a[0][3]*c0) * invDet
	inverse[2][2] = (a[3][0]*s4 - a[3][1]*s2 + a[3][3]*s0) * invDet
	inverse[2][3] = (-a[2][0]*s4 + a[2][1]*s2 - a[2][3]*s0) * invDet

	inverse[3][0] = (-a[1][0]*c3 + a[1][1]*c1 - a[1][2]*c0) * invDet
	inverse[3][1] = (a[0][0]*c3 - a[0][1]*c1 + a[0][2]*c0) * invDet
	inverse[3][2] = (-a[3][0]*s3 + a[3][1]*s1 - a[3][2]*s0) * invDet
	inverse[3][3] = (a[2][0]*s3 - a[2][1]*s1 + a[2][2]*s0) * invDet

	return inverse, true
}

// To3x4 returns the affine part of m in the row-major 3x4 layout used by instance and geometry
// transforms
func (m Matrix4) To3x4() [3][4]float32 {
	var result [3][4]float32
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			result[row][col] = m[col][row]
		}
	}
	return result
}

// LookAtLH builds a left-handed view matrix
func LookAtLH(eye, target, up Vector3) Matrix4 {
	forward := target.Sub(eye).Normal()
	right := up.Cross(forward).Normal()
	newUp := forward.Cross(right)

	return Matrix4{
		{right.X, newUp.X, forward.X, 0},
		{right.Y, newUp.Y, forward.Y, 0},
		{right.Z, newUp.Z, forward.Z, 0},
		{-right.Dot(eye), -newUp.Dot(eye), -forward.Dot(eye), 1},
	}
}

// PerspectiveFovLH builds a left-handed projection mapping depth into [0, 1]. fovY is in radians.
func PerspectiveFovLH(fovY, aspect, near, far float32) Matrix4 {
	yScale := 1 / math32.Tan(fovY/2)
	xScale := yScale / aspect
	zRange := far / (far - near)

	return Matrix4{
		{xScale, 0, 0, 0},
		{0, yScale, 0, 0},
		{0, 0, zRange, 1},
		{0, 0, -near * zRange, 0},
	}
}
