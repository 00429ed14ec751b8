package memory

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
)

// page is one committed upload or readback buffer, mapped for its whole lifetime
type page struct {
	id       int
	resource native.Resource
	data     []byte
	address  native.GPUVirtualAddress
	size     int
}

// pageBacking creates and destroys the committed buffers behind an Allocator's pages and keeps
// a running count of them so the heap size limit can be enforced without taking the allocator lock
type pageBacking struct {
	logger    *slog.Logger
	device    native.Device
	heapType  native.HeapType
	state     native.ResourceStates
	callbacks memoryCallbacks

	heapSizeLimit int
	nextID        int32
	blockCount    int32
	blockBytes    int64
}

func (b *pageBacking) reserve(size int) error {
	if b.heapSizeLimit <= 0 {
		atomic.AddInt64(&b.blockBytes, int64(size))
		atomic.AddInt32(&b.blockCount, 1)
		return nil
	}

	for {
		currentVal := atomic.LoadInt64(&b.blockBytes)
		targetVal := currentVal + int64(size)

		if targetVal > int64(b.heapSizeLimit) {
			return errors.Wrapf(native.NewResultError("CreateCommittedResource", native.ResultOutOfMemory),
				"%s page of %d bytes would exceed the heap size limit of %d bytes (%d in use)",
				b.heapType, size, b.heapSizeLimit, currentVal)
		}

		if atomic.CompareAndSwapInt64(&b.blockBytes, currentVal, targetVal) {
			break
		}
	}

	atomic.AddInt32(&b.blockCount, 1)
	return nil
}

func (b *pageBacking) unreserve(size int) {
	newVal := atomic.AddInt64(&b.blockBytes, int64(-size))
	if newVal < 0 {
		panic(fmt.Sprintf("block bytes for %s went negative", b.heapType))
	}

	newCountVal := atomic.AddInt32(&b.blockCount, -1)
	if newCountVal < 0 {
		panic(fmt.Sprintf("block count for %s went negative", b.heapType))
	}
}

func (b *pageBacking) NewPage(size int) (p *page, err error) {
	err = b.reserve(size)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			b.unreserve(size)
		}
	}()

	resource, err := b.device.CreateCommittedResource(b.heapType, native.BufferDesc(size, native.ResourceFlagNone), b.state)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create a %s page of %d bytes", b.heapType, size)
	}

	data, err := resource.Map()
	if err != nil {
		resource.Release()
		return nil, errors.Wrapf(err, "failed to map a %s page of %d bytes", b.heapType, size)
	}

	id := int(atomic.AddInt32(&b.nextID, 1))
	resource.SetName(fmt.Sprintf("%s page %d", b.heapType, id))

	b.logger.Debug("pageBacking::NewPage", slog.String("heapType", b.heapType.String()), slog.Int("size", size), slog.Int("id", id))
	b.callbacks.Allocate(b.heapType, resource, size)

	return &page{
		id:       id,
		resource: resource,
		data:     data[:size],
		address:  resource.GPUVirtualAddress(),
		size:     size,
	}, nil
}

func (b *pageBacking) ReleasePage(p *page) {
	b.logger.Debug("pageBacking::ReleasePage", slog.String("heapType", b.heapType.String()), slog.Int("size", p.size), slog.Int("id", p.id))
	b.callbacks.Free(b.heapType, p.resource, p.size)

	p.resource.Unmap()
	p.resource.Release()
	p.data = nil
	b.unreserve(p.size)
}

func (b *pageBacking) BlockCount() int {
	return int(atomic.LoadInt32(&b.blockCount))
}

func (b *pageBacking) BlockBytes() int {
	return int(atomic.LoadInt64(&b.blockBytes))
}
