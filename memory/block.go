package memory

import (
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memutils/freelist"
)

// Block is a lease of a range of one of an Allocator's mapped buffers. The zero value is an empty
// block. Blocks are values: copying a block does not copy the lease, and only one copy should ever
// be passed back to the allocator.
type Block struct {
	allocation freelist.Allocation[*page]
	size       int
}

func (b Block) IsEmpty() bool {
	return b.allocation.IsEmpty()
}

// Reset empties the block without returning it to its allocator
func (b *Block) Reset() {
	*b = Block{}
}

// Resource is the buffer the block was carved from
func (b Block) Resource() native.Resource {
	if b.IsEmpty() {
		return nil
	}
	return b.allocation.Page.resource
}

// Offset is the block's byte offset within Resource
func (b Block) Offset() int {
	return b.allocation.Offset
}

// Size is the number of bytes requested for this block. The lease itself may be larger
// because it is rounded up to the allocation's alignment.
func (b Block) Size() int {
	return b.size
}

// CPUAddress is the mapped view of the block's bytes
func (b Block) CPUAddress() []byte {
	if b.IsEmpty() {
		return nil
	}
	offset := b.allocation.Offset
	return b.allocation.Page.data[offset : offset+b.size : offset+b.size]
}

func (b Block) GPUAddress() native.GPUVirtualAddress {
	if b.IsEmpty() {
		return 0
	}
	return b.allocation.Page.address + native.GPUVirtualAddress(b.allocation.Offset)
}
