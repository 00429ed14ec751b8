package gpu

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/descriptor"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memory"
)

// FrameCount is the number of frames that may be in flight at once
const FrameCount = 3

// DeviceFactory creates a replacement device after the current one is lost
type DeviceFactory func() (native.Device, error)

// CreateOptions contains optional settings when creating a System
type CreateOptions struct {
	// ExternallySynchronized creates the allocators without internal locking. The consumer must
	// guarantee the System is only used from one goroutine at a time.
	ExternallySynchronized bool

	// UploadPageSize and ReadbackPageSize are the memory allocators' page sizes in bytes. 0 selects
	// memory.DefaultPageSize.
	UploadPageSize   int
	ReadbackPageSize int
	// UploadHeapSizeLimit caps the bytes of upload pages. 0 means unlimited.
	UploadHeapSizeLimit int

	// DescriptorPageSizes is indexed by native.DescriptorHeapType. 0 selects that heap type's
	// descriptor.DefaultPageSize.
	DescriptorPageSizes [native.DescriptorHeapTypeCount]int

	// MemoryCallbackOptions is passed on to both memory allocators
	MemoryCallbackOptions *memory.MemoryCallbackOptions

	// DeviceFactory is used by HandleDeviceLost to create a replacement device. When it is nil the
	// System stays torn down after a device loss.
	DeviceFactory DeviceFactory
}

// New creates a System around device. If device is nil, options.DeviceFactory is used to create one.
func New(logger *slog.Logger, device native.Device, options CreateOptions) (*System, error) {
	if logger == nil {
		return nil, errors.New("attempted to create a gpu system without a logger")
	}

	if device == nil {
		if options.DeviceFactory == nil {
			return nil, errors.New("attempted to create a gpu system without a device or a device factory")
		}

		var err error
		device, err = options.DeviceFactory()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create a device")
		}
	}

	system := &System{
		logger:  logger,
		options: options,
	}

	err := system.createComponents(device)
	if err != nil {
		system.releaseComponents()
		return nil, err
	}

	return system, nil
}

func (s *System) createComponents(device native.Device) error {
	s.logger.Debug("System::createComponents")

	s.device = device

	queue, err := device.CreateCommandQueue()
	if err != nil {
		return errors.Wrap(err, "failed to create the command queue")
	}
	s.queue = queue

	for i := range s.commandAllocators {
		allocator, err := device.CreateCommandAllocator()
		if err != nil {
			return errors.Wrapf(err, "failed to create command allocator %d", i)
		}
		s.commandAllocators[i] = allocator
	}

	fence, err := device.CreateFence(s.fenceValues[s.frameIndex])
	if err != nil {
		return errors.Wrap(err, "failed to create the frame fence")
	}
	s.fence = fence
	s.fenceValues[s.frameIndex]++

	s.uploadMemory, err = memory.New(s.logger, device, native.HeapTypeUpload, memory.CreateOptions{
		PageSize:               s.options.UploadPageSize,
		ExternallySynchronized: s.options.ExternallySynchronized,
		HeapSizeLimit:          s.options.UploadHeapSizeLimit,
		MemoryCallbackOptions:  s.options.MemoryCallbackOptions,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create the upload memory allocator")
	}

	s.readbackMemory, err = memory.New(s.logger, device, native.HeapTypeReadback, memory.CreateOptions{
		PageSize:               s.options.ReadbackPageSize,
		ExternallySynchronized: s.options.ExternallySynchronized,
		MemoryCallbackOptions:  s.options.MemoryCallbackOptions,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create the readback memory allocator")
	}

	for heapType := range s.descriptors {
		s.descriptors[heapType], err = descriptor.New(s.logger, device, native.DescriptorHeapType(heapType), descriptor.CreateOptions{
			PageSize:               s.options.DescriptorPageSizes[heapType],
			ExternallySynchronized: s.options.ExternallySynchronized,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to create the %s descriptor allocator", native.DescriptorHeapType(heapType))
		}
	}

	return nil
}
