package memory_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/gpu/software"
	"github.com/goldensun/engine/memory"
	"github.com/stretchr/testify/require"
)

func readyAllocator(t *testing.T, heapType native.HeapType, options memory.CreateOptions) (*software.Device, *memory.Allocator) {
	device := software.NewDevice()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	allocator, err := memory.New(logger, device, heapType, options)
	require.NoError(t, err)

	return device, allocator
}

func TestPagesAreCreatedInHeapState(t *testing.T) {
	_, upload := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{})
	_, readback := readyAllocator(t, native.HeapTypeReadback, memory.CreateOptions{})

	uploadBlock, err := upload.Allocate(64, 0)
	require.NoError(t, err)
	readbackBlock, err := readback.Allocate(64, 0)
	require.NoError(t, err)

	uploadResource := uploadBlock.Resource().(*software.Resource)
	readbackResource := readbackBlock.Resource().(*software.Resource)

	require.Equal(t, native.ResourceStateGenericRead, uploadResource.InitialState())
	require.Equal(t, native.ResourceStateCopyDest, readbackResource.InitialState())
	require.Equal(t, memory.DefaultPageSize, uploadResource.Desc().Width)
	require.Equal(t, native.HeapTypeReadback, readbackResource.HeapType())
}

func TestDefaultHeapIsRejected(t *testing.T) {
	device := software.NewDevice()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	_, err := memory.New(logger, device, native.HeapTypeDefault, memory.CreateOptions{})
	require.Error(t, err)
}

func TestBlockAddressing(t *testing.T) {
	_, allocator := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{PageSize: 4096})

	first, err := allocator.Allocate(100, 0)
	require.NoError(t, err)
	second, err := allocator.Allocate(100, 0)
	require.NoError(t, err)

	require.Equal(t, 0, first.Offset())
	require.Equal(t, memory.DefaultAlignment, second.Offset())
	require.Equal(t, 100, second.Size())
	require.Len(t, second.CPUAddress(), 100)
	require.Same(t, first.Resource(), second.Resource())
	require.Equal(t, first.GPUAddress()+native.GPUVirtualAddress(memory.DefaultAlignment), second.GPUAddress())

	copy(second.CPUAddress(), []byte{1, 2, 3})
	data := second.Resource().(*software.Resource).Data()
	require.Equal(t, []byte{1, 2, 3}, data[512:515])

	third, err := allocator.Allocate(16, 256)
	require.NoError(t, err)
	require.Equal(t, 1024, third.Offset())
}

func TestDeallocateIsFenceGated(t *testing.T) {
	_, allocator := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{PageSize: 4096})

	block, err := allocator.Allocate(4096, 0)
	require.NoError(t, err)

	allocator.Deallocate(&block, 3)
	require.True(t, block.IsEmpty())
	require.Nil(t, block.CPUAddress())

	// The only page is stalled, so a new page is needed
	next, err := allocator.Allocate(512, 0)
	require.NoError(t, err)
	require.Equal(t, 2, allocator.PageCount())
	allocator.Deallocate(&next, 3)

	allocator.ClearStallPages(3)
	reused, err := allocator.Allocate(4096, 0)
	require.NoError(t, err)
	require.Equal(t, 0, reused.Offset())
	require.Equal(t, 2, allocator.PageCount())
}

func TestLargeBlocksGetDedicatedBuffers(t *testing.T) {
	device, allocator := readyAllocator(t, native.HeapTypeReadback, memory.CreateOptions{PageSize: 4096})

	block, err := allocator.Allocate(10000, 0)
	require.NoError(t, err)
	require.Equal(t, 0, allocator.PageCount())
	require.Equal(t, 1, allocator.LargePageCount())
	require.Equal(t, 10000, block.Resource().Desc().Width)
	require.Equal(t, 1, device.LiveResources())

	allocator.Deallocate(&block, 8)
	allocator.ClearStallPages(7)
	require.Equal(t, 1, device.LiveResources())

	allocator.ClearStallPages(8)
	require.Equal(t, 0, allocator.LargePageCount())
	require.Equal(t, 0, device.LiveResources())
}

func TestReallocate(t *testing.T) {
	_, allocator := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{PageSize: 4096})

	var block memory.Block
	require.NoError(t, allocator.Reallocate(&block, 1, 100, 0))
	require.Equal(t, 0, block.Offset())

	require.NoError(t, allocator.Reallocate(&block, 2, 700, 0))
	require.Equal(t, 512, block.Offset())
	require.Equal(t, 700, block.Size())
	require.Equal(t, 1, allocator.AllocationCount())
}

func TestHeapSizeLimit(t *testing.T) {
	_, allocator := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{PageSize: 4096, HeapSizeLimit: 8192})

	_, err := allocator.Allocate(4096, 0)
	require.NoError(t, err)
	_, err = allocator.Allocate(4096, 0)
	require.NoError(t, err)
	require.Equal(t, 8192, allocator.BlockBytes())

	_, err = allocator.Allocate(4096, 0)
	require.Error(t, err)

	var resultErr *native.ResultError
	require.True(t, errors.As(err, &resultErr))
	require.Equal(t, native.ResultOutOfMemory, resultErr.Code)
	require.Equal(t, 8192, allocator.BlockBytes())
}

func TestMemoryCallbacks(t *testing.T) {
	var allocated, freed []int

	_, allocator := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{
		PageSize: 4096,
		MemoryCallbackOptions: &memory.MemoryCallbackOptions{
			Allocate: func(allocator *memory.Allocator, heapType native.HeapType, resource native.Resource, size int, userData interface{}) {
				require.Equal(t, "upload", userData)
				allocated = append(allocated, size)
			},
			Free: func(allocator *memory.Allocator, heapType native.HeapType, resource native.Resource, size int, userData interface{}) {
				freed = append(freed, size)
			},
			UserData: "upload",
		},
	})

	_, err := allocator.Allocate(100, 0)
	require.NoError(t, err)
	large, err := allocator.Allocate(5000, 0)
	require.NoError(t, err)
	require.Equal(t, []int{4096, 5000}, allocated)

	allocator.Deallocate(&large, 1)
	allocator.ClearStallPages(1)
	require.Equal(t, []int{5000}, freed)

	allocator.Clear()
	require.Equal(t, []int{5000, 4096}, freed)
}

func TestDestroyReportsLeaks(t *testing.T) {
	device, allocator := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{PageSize: 4096})

	block, err := allocator.Allocate(100, 0)
	require.NoError(t, err)
	_ = block

	err = allocator.Destroy()
	require.Error(t, err)
	require.Equal(t, 0, device.LiveResources())

	_, clean := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{PageSize: 4096})
	block, err = clean.Allocate(100, 0)
	require.NoError(t, err)
	clean.Deallocate(&block, 0)
	require.NoError(t, clean.Destroy())
}

func TestBuildStatsString(t *testing.T) {
	_, allocator := readyAllocator(t, native.HeapTypeUpload, memory.CreateOptions{PageSize: 4096})

	block, err := allocator.Allocate(100, 0)
	require.NoError(t, err)
	_, err = allocator.Allocate(200, 0)
	require.NoError(t, err)
	allocator.Deallocate(&block, 4)

	var parsed struct {
		HeapType string
		Total    struct {
			BlockCount      int
			AllocationCount int
			StalledRanges   int
		}
		DetailedMap struct {
			PageSize int
			Pages    []struct {
				Allocations int
			}
		}
	}
	require.NoError(t, json.Unmarshal([]byte(allocator.BuildStatsString(true)), &parsed))

	require.Equal(t, "HeapTypeUpload", parsed.HeapType)
	require.Equal(t, 1, parsed.Total.BlockCount)
	require.Equal(t, 1, parsed.Total.AllocationCount)
	require.Equal(t, 1, parsed.Total.StalledRanges)
	require.Equal(t, 4096, parsed.DetailedMap.PageSize)
	require.Len(t, parsed.DetailedMap.Pages, 1)
}
