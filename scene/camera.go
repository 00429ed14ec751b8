package scene

import (
	"github.com/chewxy/math32"
)

// Camera is a left-handed perspective camera. Fov is the vertical field of view in radians.
type Camera struct {
	Eye       Vector3
	LookAt    Vector3
	Up        Vector3
	Fov       float32
	NearPlane float32
	FarPlane  float32
}

func NewCamera() *Camera {
	return &Camera{
		Eye:       Vec3(0, 0, -1),
		Up:        Vec3(0, 1, 0),
		Fov:       math32.Pi / 4,
		NearPlane: 0.1,
		FarPlane:  100,
	}
}

func (c *Camera) Clone() *Camera {
	clone := *c
	return &clone
}

func (c *Camera) View() Matrix4 {
	return LookAtLH(c.Eye, c.LookAt, c.Up)
}

func (c *Camera) Projection(aspectRatio float32) Matrix4 {
	return PerspectiveFovLH(c.Fov, aspectRatio, c.NearPlane, c.FarPlane)
}

// InverseViewProjection maps clip space back to world space. ok is false when the camera is
// degenerate, such as when Eye equals LookAt.
func (c *Camera) InverseViewProjection(aspectRatio float32) (Matrix4, bool) {
	return c.View().Mul(c.Projection(aspectRatio)).Inverse()
}
