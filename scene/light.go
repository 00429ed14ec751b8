package scene

import (
	"fmt"

	"github.com/goldensun/engine/gpu"
)

// PointLight is an omnidirectional light. Falloff holds the constant, linear, and quadratic
// attenuation terms.
type PointLight struct {
	Position  Vector3
	Color     Vector3
	Falloff   Vector3
	Shadowing bool
}

func NewPointLight() *PointLight {
	return &PointLight{
		Color:     Vec3(1, 1, 1),
		Falloff:   Vec3(1, 0, 0),
		Shadowing: true,
	}
}

func (l *PointLight) Clone() *PointLight {
	clone := *l
	return &clone
}

// LightBufferSize is the encoded size of a PointLight in shader memory
const LightBufferSize = 64

// LightEncoder writes PointLight values in the layout the hit shaders read
type LightEncoder struct{}

func (LightEncoder) Size() int {
	return LightBufferSize
}

func (LightEncoder) Encode(dst []byte, l *PointLight) {
	if len(dst) < LightBufferSize {
		panic(fmt.Sprintf("light needs %d bytes but the destination holds %d", LightBufferSize, len(dst)))
	}

	offset := putVector3(dst, 0, l.Position)
	offset = putVector3(dst, offset, l.Color)
	offset = putVector3(dst, offset, l.Falloff)
	offset = putBool(dst, offset, l.Shadowing)
	clear(dst[offset:LightBufferSize])
}

var _ gpu.Encoder[*PointLight] = LightEncoder{}
