package descriptor_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/goldensun/engine/descriptor"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/gpu/software"
	"github.com/goldensun/engine/memutils/freelist"
	"github.com/stretchr/testify/require"
)

func readyAllocator(t *testing.T, heapType native.DescriptorHeapType, pageSize int) (*software.Device, *descriptor.Allocator) {
	device := software.NewDevice()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	allocator, err := descriptor.New(logger, device, heapType, descriptor.CreateOptions{PageSize: pageSize})
	require.NoError(t, err)

	return device, allocator
}

func TestDescriptorLifecycle(t *testing.T) {
	_, allocator := readyAllocator(t, native.DescriptorHeapTypeCbvSrvUav, 1024)

	first, err := allocator.Allocate(100)
	require.NoError(t, err)
	middle, err := allocator.Allocate(200)
	require.NoError(t, err)
	last, err := allocator.Allocate(50)
	require.NoError(t, err)

	require.Equal(t, 0, first.Offset())
	require.Equal(t, 100, middle.Offset())
	require.Equal(t, 300, last.Offset())
	require.Same(t, first.Heap(), middle.Heap())
	require.Same(t, first.Heap(), last.Heap())
	require.Equal(t, 1, allocator.PageCount())

	allocator.Deallocate(&middle, 5)
	require.True(t, middle.IsEmpty())

	allocator.ClearStallPages(4)
	require.Equal(t, []freelist.Range{{First: 350, Last: 1024}}, allocator.FreeRanges(0))

	allocator.ClearStallPages(5)
	require.Equal(t, []freelist.Range{{First: 100, Last: 300}, {First: 350, Last: 1024}}, allocator.FreeRanges(0))

	allocator.Deallocate(&first, 6)
	allocator.Deallocate(&last, 6)
	allocator.ClearStallPages(6)
	require.Equal(t, []freelist.Range{{First: 0, Last: 1024}}, allocator.FreeRanges(0))
	require.NoError(t, allocator.Validate())
}

func TestDescriptorHandles(t *testing.T) {
	_, allocator := readyAllocator(t, native.DescriptorHeapTypeCbvSrvUav, 64)

	_, err := allocator.Allocate(3)
	require.NoError(t, err)
	block, err := allocator.Allocate(4)
	require.NoError(t, err)

	heap := block.Heap()
	increment := allocator.DescriptorSize()
	require.Equal(t, increment, block.DescriptorSize())
	require.Equal(t, heap.CPUDescriptorHandleForHeapStart().Ptr+uint64(3*increment), block.CPUHandle().Ptr)
	require.Equal(t, heap.GPUDescriptorHandleForHeapStart().Ptr+uint64(5*increment), block.GPUHandleAt(2).Ptr)

	require.Panics(t, func() {
		block.CPUHandleAt(4)
	})
	require.Panics(t, func() {
		var empty descriptor.Block
		empty.CPUHandle()
	})
}

func TestRenderTargetHeapsAreNotShaderVisible(t *testing.T) {
	_, allocator := readyAllocator(t, native.DescriptorHeapTypeRtv, 16)

	block, err := allocator.Allocate(2)
	require.NoError(t, err)

	require.Equal(t, native.DescriptorHeapFlagNone, block.Heap().Desc().Flags)
	require.True(t, block.GPUHandleAt(1).IsNull())
	require.False(t, block.CPUHandleAt(1).Ptr == 0)
}

func TestDefaultPageSizes(t *testing.T) {
	require.Equal(t, 32768, descriptor.DefaultPageSize(native.DescriptorHeapTypeCbvSrvUav))
	require.Equal(t, 1024, descriptor.DefaultPageSize(native.DescriptorHeapTypeSampler))
	require.Equal(t, 8192, descriptor.DefaultPageSize(native.DescriptorHeapTypeRtv))
	require.Equal(t, 4096, descriptor.DefaultPageSize(native.DescriptorHeapTypeDsv))

	_, allocator := readyAllocator(t, native.DescriptorHeapTypeSampler, 0)
	require.Equal(t, 1024, allocator.PageSize())
}

func TestOversizedRequestGetsDedicatedHeap(t *testing.T) {
	device, allocator := readyAllocator(t, native.DescriptorHeapTypeCbvSrvUav, 16)

	small, err := allocator.Allocate(8)
	require.NoError(t, err)
	large, err := allocator.Allocate(40)
	require.NoError(t, err)

	require.Equal(t, 1, allocator.PageCount())
	require.Equal(t, 1, allocator.LargePageCount())
	require.NotSame(t, small.Heap(), large.Heap())
	require.Equal(t, 40, large.Heap().Desc().NumDescriptors)
	require.Equal(t, 2, device.LiveDescriptorHeaps())

	allocator.Deallocate(&large, 2)
	allocator.ClearStallPages(2)
	require.Equal(t, 0, allocator.LargePageCount())
	require.Equal(t, 1, device.LiveDescriptorHeaps())

	allocator.Deallocate(&small, 2)
	require.NoError(t, allocator.Destroy())
	require.Equal(t, 0, device.LiveDescriptorHeaps())
}

func TestReallocateKeepsOldRangeStalled(t *testing.T) {
	_, allocator := readyAllocator(t, native.DescriptorHeapTypeCbvSrvUav, 64)

	var block descriptor.Block
	require.NoError(t, allocator.Reallocate(&block, 1, 10))
	require.Equal(t, 0, block.Offset())

	require.NoError(t, allocator.Reallocate(&block, 1, 20))
	require.Equal(t, 10, block.Offset())
	require.Equal(t, 20, block.Size())

	allocator.ClearStallPages(1)
	require.Equal(t, []freelist.Range{{First: 0, Last: 10}, {First: 30, Last: 64}}, allocator.FreeRanges(0))
}

func TestDestroyWithLiveBlocks(t *testing.T) {
	device, allocator := readyAllocator(t, native.DescriptorHeapTypeDsv, 8)

	_, err := allocator.Allocate(1)
	require.NoError(t, err)

	require.Error(t, allocator.Destroy())
	require.Equal(t, 0, device.LiveDescriptorHeaps())
}

func TestDescriptorStats(t *testing.T) {
	_, allocator := readyAllocator(t, native.DescriptorHeapTypeSampler, 32)

	_, err := allocator.Allocate(4)
	require.NoError(t, err)

	var parsed struct {
		HeapType       string
		DescriptorSize int
		Total          struct {
			BlockCount      int
			AllocationCount int
			AllocationBytes int
		}
	}
	require.NoError(t, json.Unmarshal([]byte(allocator.BuildStatsString(false)), &parsed))

	require.Equal(t, "DescriptorHeapTypeSampler", parsed.HeapType)
	require.Equal(t, 16, parsed.DescriptorSize)
	require.Equal(t, 1, parsed.Total.BlockCount)
	require.Equal(t, 1, parsed.Total.AllocationCount)
	require.Equal(t, 4, parsed.Total.AllocationBytes)
}
