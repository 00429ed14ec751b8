package descriptor

import "github.com/goldensun/engine/gpu/native"

var defaultPageSizes = [native.DescriptorHeapTypeCount]int{
	native.DescriptorHeapTypeCbvSrvUav: 32 * 1024,
	native.DescriptorHeapTypeSampler:   1024,
	native.DescriptorHeapTypeRtv:       8 * 1024,
	native.DescriptorHeapTypeDsv:       4 * 1024,
}

// DefaultPageSize is the number of descriptors in each pooled heap of the given type when
// CreateOptions.PageSize is 0
func DefaultPageSize(heapType native.DescriptorHeapType) int {
	return defaultPageSizes[heapType]
}

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// PageSize is the number of descriptors in each pooled heap. Requests for more descriptors than
	// this are given their own heap.
	PageSize int

	// ExternallySynchronized ensures that this allocator will not be synchronized internally. The
	// consumer must guarantee it is used from only one goroutine at a time.
	ExternallySynchronized bool
}
