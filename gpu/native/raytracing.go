package native

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
)

type RaytracingAccelerationStructureType int32

const (
	AccelerationStructureTypeTopLevel RaytracingAccelerationStructureType = iota
	AccelerationStructureTypeBottomLevel
)

var accelerationStructureTypeMapping = map[RaytracingAccelerationStructureType]string{
	AccelerationStructureTypeTopLevel:    "AccelerationStructureTypeTopLevel",
	AccelerationStructureTypeBottomLevel: "AccelerationStructureTypeBottomLevel",
}

func (t RaytracingAccelerationStructureType) String() string {
	return accelerationStructureTypeMapping[t]
}

type RaytracingGeometryType int32

const (
	GeometryTypeTriangles RaytracingGeometryType = iota
	GeometryTypeProceduralPrimitiveAABBs
)

// RaytracingAccelerationStructureByteAlignment is the required alignment of acceleration
// structure buffers and their scratch memory
const RaytracingAccelerationStructureByteAlignment = 256

// RaytracingInstanceDescByteAlignment is the required alignment of a top-level build's instance array
const RaytracingInstanceDescByteAlignment = 16

// TransformByteSize is the size of one row-major 3x4 float transform in GPU memory
const TransformByteSize = 48

type GPUVirtualAddressAndStride struct {
	StartAddress  GPUVirtualAddress
	StrideInBytes int
}

type RaytracingGeometryTrianglesDesc struct {
	// Transform3x4 optionally points to a 3x4 transform applied to the vertices before the build
	Transform3x4 GPUVirtualAddress
	IndexFormat  gputypes.IndexFormat
	VertexFormat gputypes.VertexFormat
	IndexCount   int
	VertexCount  int
	IndexBuffer  GPUVirtualAddress
	VertexBuffer GPUVirtualAddressAndStride
}

type RaytracingGeometryDesc struct {
	Type      RaytracingGeometryType
	Flags     RaytracingGeometryFlags
	Triangles RaytracingGeometryTrianglesDesc
}

// BuildRaytracingAccelerationStructureInputs describes the contents of an acceleration structure.
// Bottom-level inputs carry GeometryDescs; top-level inputs carry NumDescs instances at InstanceDescs.
type BuildRaytracingAccelerationStructureInputs struct {
	Type          RaytracingAccelerationStructureType
	Flags         RaytracingAccelerationStructureBuildFlags
	NumDescs      int
	InstanceDescs GPUVirtualAddress
	GeometryDescs []RaytracingGeometryDesc
}

type RaytracingAccelerationStructurePrebuildInfo struct {
	ResultDataMaxSizeInBytes     int
	ScratchDataSizeInBytes       int
	UpdateScratchDataSizeInBytes int
}

type BuildRaytracingAccelerationStructureDesc struct {
	DestAccelerationStructureData    GPUVirtualAddress
	Inputs                           BuildRaytracingAccelerationStructureInputs
	SourceAccelerationStructureData  GPUVirtualAddress
	ScratchAccelerationStructureData GPUVirtualAddress
}

// RaytracingInstanceDesc places one bottom-level structure into a top-level structure
type RaytracingInstanceDesc struct {
	Transform [3][4]float32
	// InstanceID is a 24-bit value exposed to shaders as InstanceID()
	InstanceID   uint32
	InstanceMask uint8
	// InstanceContributionToHitGroupIndex is a 24-bit offset into the hit group table
	InstanceContributionToHitGroupIndex uint32
	Flags                               RaytracingInstanceFlags
	AccelerationStructure               GPUVirtualAddress
}

// RaytracingInstanceDescSize is the encoded size of a RaytracingInstanceDesc
const RaytracingInstanceDescSize = 64

const maxInstance24 = 1<<24 - 1

// Encode writes the GPU layout of the instance into dst, which must hold at least
// RaytracingInstanceDescSize bytes
func (d RaytracingInstanceDesc) Encode(dst []byte) {
	if len(dst) < RaytracingInstanceDescSize {
		panic(fmt.Sprintf("instance desc needs %d bytes but the destination holds %d", RaytracingInstanceDescSize, len(dst)))
	}
	if d.InstanceID > maxInstance24 || d.InstanceContributionToHitGroupIndex > maxInstance24 {
		panic(fmt.Sprintf("instance id %d or hit group index %d does not fit in 24 bits", d.InstanceID, d.InstanceContributionToHitGroupIndex))
	}

	offset := 0
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			binary.LittleEndian.PutUint32(dst[offset:], math.Float32bits(d.Transform[row][col]))
			offset += 4
		}
	}

	binary.LittleEndian.PutUint32(dst[48:], d.InstanceID|uint32(d.InstanceMask)<<24)
	binary.LittleEndian.PutUint32(dst[52:], d.InstanceContributionToHitGroupIndex|uint32(uint8(d.Flags))<<24)
	binary.LittleEndian.PutUint64(dst[56:], uint64(d.AccelerationStructure))
}

// DecodeRaytracingInstanceDesc reads an instance previously written by Encode
func DecodeRaytracingInstanceDesc(src []byte) RaytracingInstanceDesc {
	var d RaytracingInstanceDesc

	offset := 0
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			d.Transform[row][col] = math.Float32frombits(binary.LittleEndian.Uint32(src[offset:]))
			offset += 4
		}
	}

	idAndMask := binary.LittleEndian.Uint32(src[48:])
	d.InstanceID = idAndMask & maxInstance24
	d.InstanceMask = uint8(idAndMask >> 24)

	hitGroupAndFlags := binary.LittleEndian.Uint32(src[52:])
	d.InstanceContributionToHitGroupIndex = hitGroupAndFlags & maxInstance24
	d.Flags = RaytracingInstanceFlags(hitGroupAndFlags >> 24)

	d.AccelerationStructure = GPUVirtualAddress(binary.LittleEndian.Uint64(src[56:]))
	return d
}

// InstanceDescEncoder encodes RaytracingInstanceDesc values into GPU-visible memory
type InstanceDescEncoder struct{}

func (InstanceDescEncoder) Size() int {
	return RaytracingInstanceDescSize
}

func (InstanceDescEncoder) Encode(dst []byte, desc RaytracingInstanceDesc) {
	desc.Encode(dst)
}

// IdentityTransform is the 3x4 transform that leaves an instance in place
var IdentityTransform = [3][4]float32{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
}
