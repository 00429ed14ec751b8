package descriptor

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
)

// heapPage is one native descriptor heap owned by an Allocator
type heapPage struct {
	heap     native.DescriptorHeap
	cpuStart native.CPUDescriptorHandle
	gpuStart native.GPUDescriptorHandle
	size     int
}

type heapBacking struct {
	logger        *slog.Logger
	device        native.Device
	heapType      native.DescriptorHeapType
	flags         native.DescriptorHeapFlags
	incrementSize int
}

func (b *heapBacking) NewPage(size int) (*heapPage, error) {
	heap, err := b.device.CreateDescriptorHeap(native.DescriptorHeapDesc{
		Type:           b.heapType,
		NumDescriptors: size,
		Flags:          b.flags,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create a %s heap of %d descriptors", b.heapType, size)
	}

	b.logger.Debug("heapBacking::NewPage", slog.String("heapType", b.heapType.String()), slog.Int("size", size))

	page := &heapPage{
		heap:     heap,
		cpuStart: heap.CPUDescriptorHandleForHeapStart(),
		size:     size,
	}
	if b.flags&native.DescriptorHeapFlagShaderVisible != 0 {
		page.gpuStart = heap.GPUDescriptorHandleForHeapStart()
	}

	return page, nil
}

func (b *heapBacking) ReleasePage(page *heapPage) {
	b.logger.Debug("heapBacking::ReleasePage", slog.String("heapType", b.heapType.String()), slog.Int("size", page.size))
	page.heap.Release()
}
