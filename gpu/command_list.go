package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memory"
	"github.com/goldensun/engine/memutils"
)

// CommandList wraps a native command list handed out by System.CreateCommandList. After Execute
// the wrapper belongs to the System's pool and must not be recorded into again.
type CommandList struct {
	native native.CommandList
}

// WrapCommandList wraps a native command list that was created outside of a System
func WrapCommandList(list native.CommandList) *CommandList {
	return &CommandList{native: list}
}

func (c *CommandList) Native() native.CommandList {
	return c.native
}

func (c *CommandList) IsEmpty() bool {
	return c == nil || c.native == nil
}

// ResourceBarrier records barriers. An empty set records nothing.
func (c *CommandList) ResourceBarrier(barriers ...native.ResourceBarrier) {
	if len(barriers) == 0 {
		return
	}
	c.native.ResourceBarrier(barriers)
}

// Copy copies the whole of src into dst. Both must have the same size and, for textures, layout.
func (c *CommandList) Copy(dst, src Resource) {
	c.native.CopyResource(dst.Native(), src.Native())
}

func (c *CommandList) CopyBufferRegion(dst *Buffer, dstOffset int, src *Buffer, srcOffset int, size int) {
	c.native.CopyBufferRegion(dst.Native(), dstOffset, src.Native(), srcOffset, size)
}

// CopyFromMemBlock copies the contents of an upload block into dst at dstOffset
func (c *CommandList) CopyFromMemBlock(dst *Buffer, dstOffset int, src memory.Block) error {
	if src.IsEmpty() {
		return errors.Wrap(memutils.EmptyBlockError, "cannot copy from an upload block")
	}
	c.native.CopyBufferRegion(dst.Native(), dstOffset, src.Resource(), src.Offset(), src.Size())
	return nil
}

func (c *CommandList) BuildRaytracingAccelerationStructure(desc native.BuildRaytracingAccelerationStructureDesc) {
	c.native.BuildRaytracingAccelerationStructure(desc)
}

// SetDescriptorHeaps binds shader-visible heaps. At most one heap of each type may be bound.
func (c *CommandList) SetDescriptorHeaps(heaps ...native.DescriptorHeap) {
	c.native.SetDescriptorHeaps(heaps)
}

func (c *CommandList) SetComputeRootSignature(rootSignature native.RootSignature) {
	c.native.SetComputeRootSignature(rootSignature)
}

func (c *CommandList) SetComputeRootDescriptorTable(rootParameterIndex int, baseDescriptor native.GPUDescriptorHandle) {
	c.native.SetComputeRootDescriptorTable(rootParameterIndex, baseDescriptor)
}

func (c *CommandList) SetComputeRootShaderResourceView(rootParameterIndex int, location native.GPUVirtualAddress) {
	c.native.SetComputeRootShaderResourceView(rootParameterIndex, location)
}

func (c *CommandList) SetComputeRootConstantBufferView(rootParameterIndex int, location native.GPUVirtualAddress) {
	c.native.SetComputeRootConstantBufferView(rootParameterIndex, location)
}

func (c *CommandList) SetPipelineState(pipeline native.RaytracingPipeline) {
	c.native.SetPipelineState(pipeline)
}

func (c *CommandList) DispatchRays(desc native.DispatchRaysDesc) {
	c.native.DispatchRays(desc)
}

func (c *CommandList) close() error {
	return c.native.Close()
}

func (c *CommandList) reset(allocator native.CommandAllocator) error {
	return c.native.Reset(allocator)
}

func (c *CommandList) release() {
	if c.native != nil {
		c.native.Release()
		c.native = nil
	}
}
