package engine

import (
	"encoding/binary"
	"math"

	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/scene"
)

// RayType indexes the hit groups and miss shaders of the pipeline
type RayType int

const (
	RayTypeRadiance RayType = iota
	RayTypeShadow

	RayTypeCount
)

// Global root signature parameter slots
const (
	SlotOutputView = iota
	SlotAccelerationStructure
	SlotSceneConstant
	SlotMaterialBuffer
	SlotLightBuffer
)

// Export names the shader library must define
const (
	RayGenShaderName     = "RayGenShader"
	ClosestHitShaderName = "ClosestHitShader"
	AnyHitShaderName     = "AnyHitShader"
)

var (
	HitGroupNames   = [RayTypeCount]string{"HitGroupRadianceRay", "HitGroupShadowRay"}
	MissShaderNames = [RayTypeCount]string{"MissShaderRadianceRay", "MissShaderShadowRay"}
)

const (
	// MaxRayRecursionDepth covers the primary ray, its shadow rays, and one reflection bounce
	MaxRayRecursionDepth = 3
	// radiance payload: float4 color + uint recursion depth
	maxPayloadSize = 20
	// barycentrics
	maxAttributeSize = 8
)

// sceneConstants is the per-frame constant buffer read by the ray generation shader
type sceneConstants struct {
	InvViewProj scene.Matrix4
	CameraPos   [4]float32
}

type sceneConstantsEncoder struct{}

func (sceneConstantsEncoder) Size() int {
	return 80
}

func (sceneConstantsEncoder) Encode(dst []byte, value sceneConstants) {
	offset := 0
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(value.InvViewProj[row][col]))
			offset += 4
		}
	}
	for _, component := range value.CameraPos {
		binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(component))
		offset += 4
	}
}

var _ gpu.Encoder[sceneConstants] = sceneConstantsEncoder{}

// localRootArgumentsSize is the size of the arguments following each hit group identifier: the
// primitive's material id padded to 16 bytes, then the descriptor tables of its vertex/index
// buffers and its material textures
const localRootArgumentsSize = 32

func encodeLocalRootArguments(materialID int, buffers native.GPUDescriptorHandle, textures native.GPUDescriptorHandle) []byte {
	arguments := make([]byte, localRootArgumentsSize)
	binary.LittleEndian.PutUint32(arguments[0:], uint32(materialID))
	binary.LittleEndian.PutUint64(arguments[16:], buffers.Ptr)
	binary.LittleEndian.PutUint64(arguments[24:], textures.Ptr)
	return arguments
}

// defaultTextureColors are the RGBA8 texels sampled for material slots with no texture
var defaultTextureColors = [scene.TextureSlotCount]uint32{
	scene.TextureSlotAlbedo:             0xFFFFFFFF,
	scene.TextureSlotMetallicGlossiness: 0x00000000,
	scene.TextureSlotEmissive:           0x00000000,
	scene.TextureSlotNormal:             0x00FF8080,
	scene.TextureSlotOcclusion:          0xFFFFFFFF,
}
