package scene

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/goldensun/engine/gpu"
)

// MaxGlossiness is the largest glossiness a material can hold
const MaxGlossiness float32 = 8192

// TextureSlot identifies one of the textures a PbrMaterial samples
type TextureSlot int

const (
	TextureSlotAlbedo TextureSlot = iota
	TextureSlotMetallicGlossiness
	TextureSlotEmissive
	TextureSlotNormal
	TextureSlotOcclusion

	TextureSlotCount
)

var textureSlotNames = [TextureSlotCount]string{
	"Albedo",
	"MetallicGlossiness",
	"Emissive",
	"Normal",
	"Occlusion",
}

func (s TextureSlot) String() string {
	if s < 0 || s >= TextureSlotCount {
		return fmt.Sprintf("TextureSlot(%d)", int(s))
	}
	return textureSlotNames[s]
}

// PbrMaterial describes the surface of a primitive. Textures are borrowed: the material never
// releases them, and a nil texture samples the engine's default for the slot.
type PbrMaterial struct {
	Albedo            Vector3
	Opacity           float32
	Emissive          Vector3
	Metallic          float32
	Glossiness        float32
	AlphaCutoff       float32
	NormalScale       float32
	OcclusionStrength float32
	Transparent       bool
	TwoSided          bool

	textures [TextureSlotCount]*gpu.Texture2D
}

// NewPbrMaterial returns an opaque black dielectric with no textures
func NewPbrMaterial() *PbrMaterial {
	return &PbrMaterial{
		Opacity:           1,
		Glossiness:        1,
		NormalScale:       1,
		OcclusionStrength: 1,
	}
}

func (m *PbrMaterial) Clone() *PbrMaterial {
	clone := *m
	return &clone
}

func (m *PbrMaterial) Texture(slot TextureSlot) *gpu.Texture2D {
	return m.textures[slot]
}

func (m *PbrMaterial) SetTexture(slot TextureSlot, texture *gpu.Texture2D) {
	m.textures[slot] = texture
}

// MaterialBufferSize is the encoded size of a PbrMaterial in shader memory
const MaterialBufferSize = 64

// MaterialEncoder writes PbrMaterial values in the layout the hit shaders read
type MaterialEncoder struct{}

func (MaterialEncoder) Size() int {
	return MaterialBufferSize
}

func (MaterialEncoder) Encode(dst []byte, m *PbrMaterial) {
	if len(dst) < MaterialBufferSize {
		panic(fmt.Sprintf("material needs %d bytes but the destination holds %d", MaterialBufferSize, len(dst)))
	}

	offset := putVector3(dst, 0, m.Albedo)
	offset = putFloat(dst, offset, m.Opacity)
	offset = putVector3(dst, offset, m.Emissive)
	offset = putFloat(dst, offset, m.Metallic)
	offset = putFloat(dst, offset, min(m.Glossiness, MaxGlossiness))
	offset = putFloat(dst, offset, m.AlphaCutoff)
	offset = putFloat(dst, offset, m.NormalScale)
	offset = putFloat(dst, offset, m.OcclusionStrength)
	offset = putBool(dst, offset, m.Transparent)
	offset = putBool(dst, offset, m.TwoSided)
	clear(dst[offset:MaterialBufferSize])
}

var _ gpu.Encoder[*PbrMaterial] = MaterialEncoder{}

func putFloat(dst []byte, offset int, value float32) int {
	binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(value))
	return offset + 4
}

func putVector3(dst []byte, offset int, value Vector3) int {
	offset = putFloat(dst, offset, value.X)
	offset = putFloat(dst, offset, value.Y)
	return putFloat(dst, offset, value.Z)
}

func putBool(dst []byte, offset int, value bool) int {
	var word uint32
	if value {
		word = 1
	}
	binary.LittleEndian.PutUint32(dst[offset:], word)
	return offset + 4
}
