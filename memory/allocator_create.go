package memory

import "github.com/goldensun/engine/gpu/native"

const (
	// DefaultPageSize is the PageSize used when none is provided via CreateOptions. It is equal to 2Mb.
	DefaultPageSize int = 2 * 1024 * 1024
	// DefaultAlignment is the alignment used when Allocate is called with an alignment of 0. It is the
	// placement alignment of texture data in a buffer, so any block can be used as a copy footprint.
	DefaultAlignment int = native.TextureDataPlacementAlignment
)

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// PageSize is the size of each pooled upload or readback buffer. Requests larger than this
	// are given their own buffer.
	PageSize int

	// ExternallySynchronized ensures that this allocator will not be synchronized internally. The
	// consumer must guarantee it is used from only one goroutine at a time.
	ExternallySynchronized bool

	// HeapSizeLimit is the maximum number of bytes of committed buffers this allocator may hold at
	// once. Zero or a negative value means no limit. Allocations beyond the limit fail with
	// native.ResultOutOfMemory.
	HeapSizeLimit int

	// MemoryCallbackOptions is an optional set of callbacks that are executed when the allocator
	// creates or destroys one of its buffers
	MemoryCallbackOptions *MemoryCallbackOptions
}

// initialState returns the state buffers of the given heap type are created in. Upload buffers
// must stay in GenericRead and readback buffers in CopyDest for their whole lifetime.
func initialState(heapType native.HeapType) (native.ResourceStates, bool) {
	switch heapType {
	case native.HeapTypeUpload:
		return native.ResourceStateGenericRead, true
	case native.HeapTypeReadback:
		return native.ResourceStateCopyDest, true
	default:
		return 0, false
	}
}
