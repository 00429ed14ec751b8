package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// GPUVirtualAddress is an address in the GPU's virtual address space. Zero is never a valid address.
type GPUVirtualAddress uint64

// CPUDescriptorHandle identifies a descriptor slot for CPU-side writes
type CPUDescriptorHandle struct {
	Ptr uint64
}

// Offset returns the handle index slots after h, for a heap with the given increment size
func (h CPUDescriptorHandle) Offset(index int, incrementSize int) CPUDescriptorHandle {
	return CPUDescriptorHandle{Ptr: h.Ptr + uint64(index*incrementSize)}
}

// GPUDescriptorHandle identifies a descriptor slot in a shader-visible heap. The zero value means
// the heap is not shader-visible.
type GPUDescriptorHandle struct {
	Ptr uint64
}

func (h GPUDescriptorHandle) Offset(index int, incrementSize int) GPUDescriptorHandle {
	return GPUDescriptorHandle{Ptr: h.Ptr + uint64(index*incrementSize)}
}

func (h GPUDescriptorHandle) IsNull() bool {
	return h.Ptr == 0
}

// HeapType is the memory pool a committed resource lives in
type HeapType int32

const (
	HeapTypeDefault HeapType = iota + 1
	HeapTypeUpload
	HeapTypeReadback
)

var heapTypeMapping = map[HeapType]string{
	HeapTypeDefault:  "HeapTypeDefault",
	HeapTypeUpload:   "HeapTypeUpload",
	HeapTypeReadback: "HeapTypeReadback",
}

func (t HeapType) String() string {
	return heapTypeMapping[t]
}

// DescriptorHeapType is the kind of descriptor a heap holds
type DescriptorHeapType int32

const (
	DescriptorHeapTypeCbvSrvUav DescriptorHeapType = iota
	DescriptorHeapTypeSampler
	DescriptorHeapTypeRtv
	DescriptorHeapTypeDsv

	DescriptorHeapTypeCount = 4
)

var descriptorHeapTypeMapping = map[DescriptorHeapType]string{
	DescriptorHeapTypeCbvSrvUav: "DescriptorHeapTypeCbvSrvUav",
	DescriptorHeapTypeSampler:   "DescriptorHeapTypeSampler",
	DescriptorHeapTypeRtv:       "DescriptorHeapTypeRtv",
	DescriptorHeapTypeDsv:       "DescriptorHeapTypeDsv",
}

func (t DescriptorHeapType) String() string {
	return descriptorHeapTypeMapping[t]
}

// IsShaderVisible reports whether heaps of this type can be bound to a command list
func (t DescriptorHeapType) IsShaderVisible() bool {
	return t == DescriptorHeapTypeCbvSrvUav || t == DescriptorHeapTypeSampler
}

type DescriptorHeapDesc struct {
	Type           DescriptorHeapType
	NumDescriptors int
	Flags          DescriptorHeapFlags
}

type ResourceDimension int32

const (
	ResourceDimensionBuffer ResourceDimension = iota + 1
	ResourceDimensionTexture2D
)

var resourceDimensionMapping = map[ResourceDimension]string{
	ResourceDimensionBuffer:    "ResourceDimensionBuffer",
	ResourceDimensionTexture2D: "ResourceDimensionTexture2D",
}

func (d ResourceDimension) String() string {
	return resourceDimensionMapping[d]
}

// ResourceDesc describes a committed resource. Buffers use only Width; textures use Width, Height,
// MipLevels and Format.
type ResourceDesc struct {
	Dimension ResourceDimension
	Width     int
	Height    int
	MipLevels int
	Format    gputypes.TextureFormat
	Flags     ResourceFlags
}

// BufferDesc is a convenience constructor for buffer resource descriptions
func BufferDesc(size int, flags ResourceFlags) ResourceDesc {
	return ResourceDesc{
		Dimension: ResourceDimensionBuffer,
		Width:     size,
		Height:    1,
		MipLevels: 1,
		Format:    gputypes.TextureFormatUndefined,
		Flags:     flags,
	}
}

func Texture2DDesc(width, height, mipLevels int, format gputypes.TextureFormat, flags ResourceFlags) ResourceDesc {
	return ResourceDesc{
		Dimension: ResourceDimensionTexture2D,
		Width:     width,
		Height:    height,
		MipLevels: mipLevels,
		Format:    format,
		Flags:     flags,
	}
}

// FormatBytesPerPixel returns the size of one texel for the uncompressed formats a Texture2D
// can hold
func FormatBytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatDepth24PlusStencil8:
		return 4
	default:
		panic(fmt.Sprintf("unsupported texture format %v", format))
	}
}

// AllSubresources targets every subresource of a resource in a transition barrier
const AllSubresources = -1

type BarrierType int32

const (
	BarrierTypeTransition BarrierType = iota
	BarrierTypeUAV
)

var barrierTypeMapping = map[BarrierType]string{
	BarrierTypeTransition: "BarrierTypeTransition",
	BarrierTypeUAV:        "BarrierTypeUAV",
}

func (t BarrierType) String() string {
	return barrierTypeMapping[t]
}

// ResourceBarrier is either a state transition of one subresource (or AllSubresources) or a UAV
// barrier ordering two unordered-access passes over the same resource
type ResourceBarrier struct {
	Type        BarrierType
	Resource    Resource
	Subresource int
	StateBefore ResourceStates
	StateAfter  ResourceStates
}

func TransitionBarrier(resource Resource, subresource int, before, after ResourceStates) ResourceBarrier {
	return ResourceBarrier{
		Type:        BarrierTypeTransition,
		Resource:    resource,
		Subresource: subresource,
		StateBefore: before,
		StateAfter:  after,
	}
}

func UAVBarrier(resource Resource) ResourceBarrier {
	return ResourceBarrier{
		Type:     BarrierTypeUAV,
		Resource: resource,
	}
}

type TextureCopyType int32

const (
	TextureCopyTypeSubresourceIndex TextureCopyType = iota
	TextureCopyTypePlacedFootprint
)

// PlacedSubresourceFootprint describes a texture's layout inside a linear buffer
type PlacedSubresourceFootprint struct {
	Offset   int
	Format   gputypes.TextureFormat
	Width    int
	Height   int
	RowPitch int
}

type TextureCopyLocation struct {
	Resource         Resource
	Type             TextureCopyType
	SubresourceIndex int
	Footprint        PlacedSubresourceFootprint
}

// TextureDataPitchAlignment is the row pitch alignment for buffer-texture copies
const TextureDataPitchAlignment = 256

// TextureDataPlacementAlignment is the alignment of a texture footprint inside a buffer
const TextureDataPlacementAlignment = 512

// ConstantBufferDataPlacementAlignment is the alignment of a constant buffer view's address
const ConstantBufferDataPlacementAlignment = 256

type SRVDimension int32

const (
	SRVDimensionBuffer SRVDimension = iota + 1
	SRVDimensionTexture2D
	SRVDimensionRaytracingAccelerationStructure
)

type UAVDimension int32

const (
	UAVDimensionBuffer UAVDimension = iota + 1
	UAVDimensionTexture2D
)

type ShaderResourceViewDesc struct {
	Dimension           SRVDimension
	Format              gputypes.TextureFormat
	FirstElement        int
	NumElements         int
	StructureByteStride int
	Raw                 bool
	MipLevels           int
	// Location is the acceleration structure address for SRVDimensionRaytracingAccelerationStructure,
	// which is created without a resource
	Location GPUVirtualAddress
}

type UnorderedAccessViewDesc struct {
	Dimension           UAVDimension
	Format              gputypes.TextureFormat
	FirstElement        int
	NumElements         int
	StructureByteStride int
	Raw                 bool
	MipSlice            int
}

type RenderTargetViewDesc struct {
	Format   gputypes.TextureFormat
	MipSlice int
}

type SwapChainDesc struct {
	BufferCount int
	Width       int
	Height      int
	Format      gputypes.TextureFormat
}

type GPUVirtualAddressRange struct {
	StartAddress GPUVirtualAddress
	SizeInBytes  int
}

type GPUVirtualAddressRangeAndStride struct {
	StartAddress  GPUVirtualAddress
	SizeInBytes   int
	StrideInBytes int
}

type DispatchRaysDesc struct {
	RayGenerationShaderRecord GPUVirtualAddressRange
	MissShaderTable           GPUVirtualAddressRangeAndStride
	HitGroupTable             GPUVirtualAddressRangeAndStride
	Width                     int
	Height                    int
	Depth                     int
}

// ShaderIdentifierSize is the size of the opaque identifier that prefixes every shader record
const ShaderIdentifierSize = 32

// ShaderRecordAlignment is the alignment of each record in a shader table
const ShaderRecordAlignment = 32

// ShaderTableAlignment is the alignment of a shader table's start address
const ShaderTableAlignment = 64

type HitGroupDesc struct {
	Name       string
	ClosestHit string
	AnyHit     string
}

// RaytracingPipelineDesc describes a ray tracing state object built from one DXIL library
type RaytracingPipelineDesc struct {
	Library             []byte
	Exports             []string
	HitGroups           []HitGroupDesc
	GlobalRootSignature RootSignature
	LocalRootSignature  RootSignature
	// LocalRootExports are the exports the local root signature is associated with
	LocalRootExports  []string
	MaxPayloadSize    int
	MaxAttributeSize  int
	MaxRecursionDepth int
}
