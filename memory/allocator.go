package memory

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memutils"
	"github.com/goldensun/engine/memutils/freelist"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Allocator suballocates persistently-mapped upload or readback buffers. Freed blocks are held
// until the GPU has passed the fence value they were freed with; ClearStallPages returns them to
// the free lists.
type Allocator struct {
	logger   *slog.Logger
	heapType native.HeapType
	backing  *pageBacking
	pages    *freelist.Allocator[*page]
}

func New(logger *slog.Logger, device native.Device, heapType native.HeapType, options CreateOptions) (*Allocator, error) {
	if logger == nil {
		return nil, errors.New("attempted to create a memory allocator without a logger")
	}
	if device == nil {
		return nil, errors.New("attempted to create a memory allocator without a device")
	}

	state, ok := initialState(heapType)
	if !ok {
		return nil, errors.Newf("memory allocators can only be created for upload and readback heaps, not %s", heapType)
	}

	pageSize := options.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	err := memutils.CheckPow2(pageSize, "memory.CreateOptions.PageSize")
	if err != nil {
		return nil, err
	}

	allocator := &Allocator{
		logger:   logger,
		heapType: heapType,
	}
	allocator.backing = &pageBacking{
		logger:        logger,
		device:        device,
		heapType:      heapType,
		state:         state,
		heapSizeLimit: options.HeapSizeLimit,
		callbacks: memoryCallbacks{
			Callbacks: options.MemoryCallbackOptions,
			Allocator: allocator,
		},
	}

	allocator.pages, err = freelist.New[*page](allocator.backing, freelist.CreateOptions{
		PageSize:               pageSize,
		ExternallySynchronized: options.ExternallySynchronized,
	})
	if err != nil {
		return nil, err
	}

	return allocator, nil
}

func (a *Allocator) HeapType() native.HeapType {
	return a.heapType
}

func (a *Allocator) PageSize() int {
	return a.pages.PageSize()
}

// Allocate leases size bytes at the requested alignment. An alignment of 0 uses DefaultAlignment.
func (a *Allocator) Allocate(size int, alignment int) (Block, error) {
	a.logger.Debug("Allocator::Allocate", slog.Int("size", size), slog.Int("alignment", alignment))

	if alignment == 0 {
		alignment = DefaultAlignment
	}

	allocation, err := a.pages.Allocate(size, alignment)
	if err != nil {
		return Block{}, errors.Wrapf(err, "failed to allocate %d bytes of %s memory", size, a.heapType)
	}

	return Block{allocation: allocation, size: size}, nil
}

// Deallocate returns block to the allocator once the GPU passes fence and empties it. Empty blocks
// are ignored.
func (a *Allocator) Deallocate(block *Block, fence uint64) {
	a.logger.Debug("Allocator::Deallocate", slog.Int("size", block.size), slog.Uint64("fence", fence))

	a.pages.Deallocate(block.allocation, fence)
	block.Reset()
}

// Reallocate replaces block with a fresh lease of size bytes. The old lease is freed with fence.
func (a *Allocator) Reallocate(block *Block, fence uint64, size int, alignment int) error {
	a.logger.Debug("Allocator::Reallocate", slog.Int("size", size), slog.Int("alignment", alignment), slog.Uint64("fence", fence))

	if alignment == 0 {
		alignment = DefaultAlignment
	}

	allocation, err := a.pages.Reallocate(block.allocation, fence, size, alignment)
	if err != nil {
		block.Reset()
		return errors.Wrapf(err, "failed to reallocate %d bytes of %s memory", size, a.heapType)
	}

	*block = Block{allocation: allocation, size: size}
	return nil
}

// ClearStallPages returns every block freed with a fence value <= completedFence to the free lists
func (a *Allocator) ClearStallPages(completedFence uint64) {
	a.pages.ClearStallPages(completedFence)
}

// Clear destroys every buffer without checking for outstanding blocks. It is used when the device
// has been lost and every lease is already invalid.
func (a *Allocator) Clear() {
	a.logger.Debug("Allocator::Clear", slog.String("heapType", a.heapType.String()))
	a.pages.Clear()
}

// Destroy destroys every buffer. If any block is still leased it is logged and an error is returned,
// but the buffers are destroyed anyway.
func (a *Allocator) Destroy() error {
	a.logger.Debug("Allocator::Destroy", slog.String("heapType", a.heapType.String()))

	var stats memutils.DetailedStatistics
	stats.Clear()
	a.pages.AddDetailedStatistics(&stats)

	var err error
	if stats.AllocationCount > 0 {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] allocator destroyed with live blocks",
			slog.String("heapType", a.heapType.String()),
			slog.Int("allocations", stats.AllocationCount),
			slog.Int("bytes", stats.AllocationBytes),
		)
		err = errors.Newf("%d %s blocks were not freed before the destruction of this allocator", stats.AllocationCount, a.heapType)
	}

	a.pages.Clear()
	return err
}

func (a *Allocator) AllocationCount() int {
	return a.pages.AllocationCount()
}

// PageCount is the number of pooled buffers. Dedicated buffers for oversized requests are counted
// by LargePageCount.
func (a *Allocator) PageCount() int {
	return a.pages.PageCount()
}

func (a *Allocator) LargePageCount() int {
	return a.pages.LargePageCount()
}

// BlockBytes is the total size of every buffer the allocator currently holds
func (a *Allocator) BlockBytes() int {
	return a.backing.BlockBytes()
}

func (a *Allocator) AddStatistics(stats *memutils.Statistics) {
	a.pages.AddStatistics(stats)
}

func (a *Allocator) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	a.pages.AddDetailedStatistics(stats)
}

func (a *Allocator) Validate() error {
	return a.pages.Validate()
}

// BuildStatsString returns a JSON document describing the allocator's usage. If detailedMap is
// true, every page's free and stalled ranges are included.
func (a *Allocator) BuildStatsString(detailedMap bool) string {
	writer := jwriter.NewWriter()
	a.WriteStats(&writer, detailedMap)
	return string(writer.Bytes())
}

// WriteStats writes the allocator's statistics as a JSON object
func (a *Allocator) WriteStats(writer *jwriter.Writer, detailedMap bool) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	a.pages.AddDetailedStatistics(&stats)

	objState := writer.Object()
	defer objState.End()

	objState.Name("HeapType").String(a.heapType.String())

	totalObj := objState.Name("Total").Object()
	stats.WriteJSON(&totalObj)
	totalObj.End()

	if detailedMap {
		a.pages.PrintDetailedMap(objState.Name("DetailedMap"))
	}
}
