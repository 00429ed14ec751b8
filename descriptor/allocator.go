package descriptor

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memutils"
	"github.com/goldensun/engine/memutils/freelist"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Allocator hands out runs of descriptors from pooled heaps of a single type. Descriptors freed
// while a frame may still read them are held until that frame's fence completes.
type Allocator struct {
	logger        *slog.Logger
	heapType      native.DescriptorHeapType
	incrementSize int
	heaps         *freelist.Allocator[*heapPage]
}

func New(logger *slog.Logger, device native.Device, heapType native.DescriptorHeapType, options CreateOptions) (*Allocator, error) {
	if logger == nil {
		return nil, errors.New("attempted to create a descriptor allocator without a logger")
	}
	if device == nil {
		return nil, errors.New("attempted to create a descriptor allocator without a device")
	}
	if heapType < 0 || heapType >= native.DescriptorHeapTypeCount {
		return nil, errors.Newf("unknown descriptor heap type %d", heapType)
	}

	pageSize := options.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize(heapType)
	}

	flags := native.DescriptorHeapFlagNone
	if heapType.IsShaderVisible() {
		flags = native.DescriptorHeapFlagShaderVisible
	}

	backing := &heapBacking{
		logger:        logger,
		device:        device,
		heapType:      heapType,
		flags:         flags,
		incrementSize: device.DescriptorHandleIncrementSize(heapType),
	}

	heaps, err := freelist.New[*heapPage](backing, freelist.CreateOptions{
		PageSize:               pageSize,
		ExternallySynchronized: options.ExternallySynchronized,
	})
	if err != nil {
		return nil, err
	}

	return &Allocator{
		logger:        logger,
		heapType:      heapType,
		incrementSize: backing.incrementSize,
		heaps:         heaps,
	}, nil
}

func (a *Allocator) HeapType() native.DescriptorHeapType {
	return a.heapType
}

func (a *Allocator) PageSize() int {
	return a.heaps.PageSize()
}

// DescriptorSize is the distance in bytes between two adjacent descriptor handles
func (a *Allocator) DescriptorSize() int {
	return a.incrementSize
}

// Allocate leases count contiguous descriptors
func (a *Allocator) Allocate(count int) (Block, error) {
	a.logger.Debug("Allocator::Allocate", slog.String("heapType", a.heapType.String()), slog.Int("count", count))

	allocation, err := a.heaps.Allocate(count, 1)
	if err != nil {
		return Block{}, errors.Wrapf(err, "failed to allocate %d %s descriptors", count, a.heapType)
	}

	return Block{allocation: allocation, incrementSize: a.incrementSize}, nil
}

// Deallocate returns block to the allocator once the GPU passes fence and empties it
func (a *Allocator) Deallocate(block *Block, fence uint64) {
	a.logger.Debug("Allocator::Deallocate", slog.String("heapType", a.heapType.String()), slog.Int("count", block.Size()), slog.Uint64("fence", fence))

	a.heaps.Deallocate(block.allocation, fence)
	block.Reset()
}

// Reallocate replaces block with a fresh run of count descriptors. The old run is freed with fence.
func (a *Allocator) Reallocate(block *Block, fence uint64, count int) error {
	a.logger.Debug("Allocator::Reallocate", slog.String("heapType", a.heapType.String()), slog.Int("count", count), slog.Uint64("fence", fence))

	allocation, err := a.heaps.Reallocate(block.allocation, fence, count, 1)
	if err != nil {
		block.Reset()
		return errors.Wrapf(err, "failed to reallocate %d %s descriptors", count, a.heapType)
	}

	*block = Block{allocation: allocation, incrementSize: a.incrementSize}
	return nil
}

func (a *Allocator) ClearStallPages(completedFence uint64) {
	a.heaps.ClearStallPages(completedFence)
}

// Clear destroys every heap without checking for outstanding blocks
func (a *Allocator) Clear() {
	a.logger.Debug("Allocator::Clear", slog.String("heapType", a.heapType.String()))
	a.heaps.Clear()
}

// Destroy destroys every heap, returning an error if any block was still leased
func (a *Allocator) Destroy() error {
	a.logger.Debug("Allocator::Destroy", slog.String("heapType", a.heapType.String()))

	var err error
	count := a.heaps.AllocationCount()
	if count > 0 {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] descriptor allocator destroyed with live blocks",
			slog.String("heapType", a.heapType.String()),
			slog.Int("allocations", count),
		)
		err = errors.Newf("%d %s descriptor blocks were not freed before the destruction of this allocator", count, a.heapType)
	}

	a.heaps.Clear()
	return err
}

func (a *Allocator) AllocationCount() int {
	return a.heaps.AllocationCount()
}

func (a *Allocator) PageCount() int {
	return a.heaps.PageCount()
}

func (a *Allocator) LargePageCount() int {
	return a.heaps.LargePageCount()
}

// FreeRanges returns the free list of the index-th pooled heap
func (a *Allocator) FreeRanges(index int) []freelist.Range {
	page, ok := a.heaps.Page(a.heaps.PageHandles()[index])
	if !ok {
		return nil
	}
	return page.FreeRanges()
}

func (a *Allocator) AddStatistics(stats *memutils.Statistics) {
	a.heaps.AddStatistics(stats)
}

func (a *Allocator) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	a.heaps.AddDetailedStatistics(stats)
}

func (a *Allocator) Validate() error {
	return a.heaps.Validate()
}

func (a *Allocator) BuildStatsString(detailedMap bool) string {
	writer := jwriter.NewWriter()
	a.WriteStats(&writer, detailedMap)
	return string(writer.Bytes())
}

func (a *Allocator) WriteStats(writer *jwriter.Writer, detailedMap bool) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	a.heaps.AddDetailedStatistics(&stats)

	objState := writer.Object()
	defer objState.End()

	objState.Name("HeapType").String(a.heapType.String())
	objState.Name("DescriptorSize").Int(a.incrementSize)

	totalObj := objState.Name("Total").Object()
	stats.WriteJSON(&totalObj)
	totalObj.End()

	if detailedMap {
		a.heaps.PrintDetailedMap(objState.Name("DetailedMap"))
	}
}
