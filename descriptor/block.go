package descriptor

import (
	"fmt"

	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memutils/freelist"
)

// Block is a contiguous run of descriptors in one heap. The zero value is an empty block.
type Block struct {
	allocation    freelist.Allocation[*heapPage]
	incrementSize int
}

func (b Block) IsEmpty() bool {
	return b.allocation.IsEmpty()
}

func (b *Block) Reset() {
	*b = Block{}
}

// Heap is the descriptor heap the block lives in. Blocks that must be bound together in one
// dispatch need to share a heap.
func (b Block) Heap() native.DescriptorHeap {
	if b.IsEmpty() {
		return nil
	}
	return b.allocation.Page.heap
}

// Offset is the index of the block's first descriptor within Heap
func (b Block) Offset() int {
	return b.allocation.Offset
}

// Size is the number of descriptors in the block
func (b Block) Size() int {
	return b.allocation.Size
}

func (b Block) DescriptorSize() int {
	return b.incrementSize
}

func (b Block) CPUHandle() native.CPUDescriptorHandle {
	return b.CPUHandleAt(0)
}

func (b Block) GPUHandle() native.GPUDescriptorHandle {
	return b.GPUHandleAt(0)
}

// CPUHandleAt is the handle of the index-th descriptor of the block
func (b Block) CPUHandleAt(index int) native.CPUDescriptorHandle {
	b.checkIndex(index)
	return b.allocation.Page.cpuStart.Offset(b.allocation.Offset+index, b.incrementSize)
}

// GPUHandleAt is the shader-visible handle of the index-th descriptor of the block. It is null
// for blocks from RTV and DSV heaps.
func (b Block) GPUHandleAt(index int) native.GPUDescriptorHandle {
	b.checkIndex(index)
	if b.allocation.Page.gpuStart.IsNull() {
		return native.GPUDescriptorHandle{}
	}
	return b.allocation.Page.gpuStart.Offset(b.allocation.Offset+index, b.incrementSize)
}

func (b Block) checkIndex(index int) {
	if b.IsEmpty() {
		panic("attempted to take a descriptor handle from an empty block")
	}
	if index < 0 || index >= b.allocation.Size {
		panic(fmt.Sprintf("descriptor index %d is outside of a block of %d descriptors", index, b.allocation.Size))
	}
}
