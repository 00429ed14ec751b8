// Package native is the capability surface of the GPU API the engine drives. Every type that
// touches the hardware is expressed as an interface here so that the allocators, resource wrappers
// and acceleration structure code can run against a real driver binding, the CPU implementation in
// gpu/software, or gomock mocks.
package native

import "github.com/gogpu/gputypes"

//go:generate mockgen -source device.go -destination ./mocks/mocks.go -package mocks

type Device interface {
	CreateCommittedResource(heapType HeapType, desc ResourceDesc, initialState ResourceStates) (Resource, error)
	CreateDescriptorHeap(desc DescriptorHeapDesc) (DescriptorHeap, error)
	DescriptorHandleIncrementSize(heapType DescriptorHeapType) int

	CreateCommandQueue() (CommandQueue, error)
	CreateCommandAllocator() (CommandAllocator, error)
	CreateCommandList(allocator CommandAllocator) (CommandList, error)
	CreateFence(initialValue uint64) (Fence, error)

	RaytracingAccelerationStructurePrebuildInfo(inputs BuildRaytracingAccelerationStructureInputs) RaytracingAccelerationStructurePrebuildInfo

	// CreateShaderResourceView writes a view into dest. resource is nil for acceleration structure views.
	CreateShaderResourceView(resource Resource, desc ShaderResourceViewDesc, dest CPUDescriptorHandle)
	CreateUnorderedAccessView(resource Resource, desc UnorderedAccessViewDesc, dest CPUDescriptorHandle)
	CreateRenderTargetView(resource Resource, desc RenderTargetViewDesc, dest CPUDescriptorHandle)

	CreateRootSignature(blob []byte) (RootSignature, error)
	CreateRaytracingPipeline(desc RaytracingPipelineDesc) (RaytracingPipeline, error)
	CreateSwapChain(queue CommandQueue, desc SwapChainDesc) (SwapChain, error)

	Release()
}

type Resource interface {
	Desc() ResourceDesc
	GPUVirtualAddress() GPUVirtualAddress
	// Map returns the CPU view of an upload or readback buffer. It fails for default heap resources.
	Map() ([]byte, error)
	Unmap()
	SetName(name string)
	Release()
}

type DescriptorHeap interface {
	Desc() DescriptorHeapDesc
	CPUDescriptorHandleForHeapStart() CPUDescriptorHandle
	GPUDescriptorHandleForHeapStart() GPUDescriptorHandle
	Release()
}

type CommandAllocator interface {
	Reset() error
	Release()
}

type CommandList interface {
	Close() error
	Reset(allocator CommandAllocator) error

	ResourceBarrier(barriers []ResourceBarrier)
	CopyResource(dst Resource, src Resource)
	CopyBufferRegion(dst Resource, dstOffset int, src Resource, srcOffset int, size int)
	CopyTextureRegion(dst TextureCopyLocation, src TextureCopyLocation)

	BuildRaytracingAccelerationStructure(desc BuildRaytracingAccelerationStructureDesc)

	SetDescriptorHeaps(heaps []DescriptorHeap)
	SetComputeRootSignature(rootSignature RootSignature)
	SetComputeRootDescriptorTable(rootParameterIndex int, baseDescriptor GPUDescriptorHandle)
	SetComputeRootShaderResourceView(rootParameterIndex int, location GPUVirtualAddress)
	SetComputeRootConstantBufferView(rootParameterIndex int, location GPUVirtualAddress)
	SetPipelineState(pipeline RaytracingPipeline)
	DispatchRays(desc DispatchRaysDesc)

	Release()
}

type CommandQueue interface {
	ExecuteCommandLists(lists []CommandList)
	Signal(fence Fence, value uint64) error
	Release()
}

type Fence interface {
	CompletedValue() uint64
	// Wait blocks until CompletedValue reaches value. There is no timeout.
	Wait(value uint64) error
	Release()
}

type SwapChain interface {
	Present(syncInterval int) error
	ResizeBuffers(bufferCount, width, height int, format gputypes.TextureFormat) error
	Buffer(index int) (Resource, error)
	Release()
}

type RootSignature interface {
	Release()
}

type RaytracingPipeline interface {
	// ShaderIdentifier returns the ShaderIdentifierSize-byte identifier of an export or hit group,
	// or nil if the pipeline has no such export
	ShaderIdentifier(export string) []byte
	Release()
}
