package gpu

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/descriptor"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memory"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// System owns the device, the command queue and its fence, the ring of per-frame command
// allocators, and every memory and descriptor allocator. It is driven from a single goroutine.
type System struct {
	logger  *slog.Logger
	options CreateOptions

	device            native.Device
	queue             native.CommandQueue
	commandAllocators [FrameCount]native.CommandAllocator
	commandListPool   []*CommandList

	fence       native.Fence
	fenceValues [FrameCount]uint64
	frameIndex  int

	uploadMemory   *memory.Allocator
	readbackMemory *memory.Allocator
	descriptors    [native.DescriptorHeapTypeCount]*descriptor.Allocator
}

func (s *System) NativeDevice() native.Device {
	return s.device
}

func (s *System) NativeCommandQueue() native.CommandQueue {
	return s.queue
}

func (s *System) NativeFence() native.Fence {
	return s.fence
}

func (s *System) FrameIndex() int {
	return s.frameIndex
}

// CurrentFenceValue is the value the current frame's work will be signalled with. Blocks freed now
// are tagged with it.
func (s *System) CurrentFenceValue() uint64 {
	return s.fenceValues[s.frameIndex]
}

// CompletedFenceValue is the last fence value the GPU has finished
func (s *System) CompletedFenceValue() uint64 {
	if s.fence == nil {
		return 0
	}
	return s.fence.CompletedValue()
}

func (s *System) DescriptorSize(heapType native.DescriptorHeapType) int {
	return s.descriptors[heapType].DescriptorSize()
}

// MoveToNextFrame signals the end of the current frame and advances the frame ring. If the GPU has
// not yet finished the frame that last used the new slot, it blocks until it has.
func (s *System) MoveToNextFrame() error {
	s.logger.Debug("System::MoveToNextFrame", slog.Int("frameIndex", s.frameIndex))

	currentValue := s.fenceValues[s.frameIndex]
	err := s.queue.Signal(s.fence, currentValue)
	if err != nil {
		return errors.Wrapf(err, "failed to signal fence value %d", currentValue)
	}

	s.frameIndex = (s.frameIndex + 1) % FrameCount

	if s.fence.CompletedValue() < s.fenceValues[s.frameIndex] {
		err = s.fence.Wait(s.fenceValues[s.frameIndex])
		if err != nil {
			return errors.Wrapf(err, "failed to wait for fence value %d", s.fenceValues[s.frameIndex])
		}
	}

	s.fenceValues[s.frameIndex] = currentValue + 1

	err = s.commandAllocators[s.frameIndex].Reset()
	if err != nil {
		return errors.Wrapf(err, "failed to reset command allocator %d", s.frameIndex)
	}

	s.ClearStallPages()
	return nil
}

// ClearStallPages returns every block freed at or before the completed fence value to its allocator
func (s *System) ClearStallPages() {
	completed := s.fence.CompletedValue()

	s.uploadMemory.ClearStallPages(completed)
	s.readbackMemory.ClearStallPages(completed)
	for _, allocator := range s.descriptors {
		allocator.ClearStallPages(completed)
	}
}

func (s *System) RaytracingAccelerationStructurePrebuildInfo(inputs native.BuildRaytracingAccelerationStructureInputs) native.RaytracingAccelerationStructurePrebuildInfo {
	return s.device.RaytracingAccelerationStructurePrebuildInfo(inputs)
}

// CreateBuffer creates a committed buffer. Upload and readback buffers are mapped persistently.
func (s *System) CreateBuffer(heapType native.HeapType, size int, flags native.ResourceFlags, initialState native.ResourceStates, name string) (*Buffer, error) {
	s.logger.Debug("System::CreateBuffer", slog.String("heapType", heapType.String()), slog.Int("size", size), slog.String("name", name))

	if heapType != native.HeapTypeDefault && heapType != native.HeapTypeUpload && heapType != native.HeapTypeReadback {
		panic(errors.Newf("attempted to create buffer %q in unknown heap type %d", name, heapType).Error())
	}

	resource, err := s.device.CreateCommittedResource(heapType, native.BufferDesc(size, flags), initialState)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create buffer %q of %d bytes", name, size)
	}

	buffer, err := WrapBuffer(resource, heapType, initialState, name)
	if err != nil {
		resource.Release()
		return nil, err
	}
	return buffer, nil
}

func (s *System) CreateDefaultBuffer(size int, flags native.ResourceFlags, initialState native.ResourceStates, name string) (*Buffer, error) {
	return s.CreateBuffer(native.HeapTypeDefault, size, flags, initialState, name)
}

func (s *System) CreateUploadBuffer(size int, name string) (*Buffer, error) {
	return s.CreateBuffer(native.HeapTypeUpload, size, native.ResourceFlagNone, native.ResourceStateGenericRead, name)
}

// CreateUploadBufferWithData creates an upload buffer holding a copy of data
func (s *System) CreateUploadBufferWithData(data []byte, name string) (*Buffer, error) {
	buffer, err := s.CreateUploadBuffer(len(data), name)
	if err != nil {
		return nil, err
	}
	copy(buffer.MappedData(), data)
	return buffer, nil
}

func (s *System) CreateReadbackBuffer(size int, name string) (*Buffer, error) {
	return s.CreateBuffer(native.HeapTypeReadback, size, native.ResourceFlagNone, native.ResourceStateCopyDest, name)
}

func (s *System) CreateTexture2D(width, height, mipLevels int, format gputypes.TextureFormat, flags native.ResourceFlags, initialState native.ResourceStates, name string) (*Texture2D, error) {
	s.logger.Debug("System::CreateTexture2D", slog.Int("width", width), slog.Int("height", height), slog.Int("mipLevels", mipLevels), slog.String("name", name))

	resource, err := s.device.CreateCommittedResource(native.HeapTypeDefault, native.Texture2DDesc(width, height, mipLevels, format, flags), initialState)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create texture %q of %dx%d", name, width, height)
	}

	texture, err := WrapTexture2D(resource, initialState, name)
	if err != nil {
		resource.Release()
		return nil, err
	}
	return texture, nil
}

func (s *System) CreateDescriptorHeap(size int, heapType native.DescriptorHeapType, flags native.DescriptorHeapFlags) (*DescriptorHeap, error) {
	desc := native.DescriptorHeapDesc{Type: heapType, NumDescriptors: size, Flags: flags}
	heap, err := s.device.CreateDescriptorHeap(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create a %s heap of %d descriptors", heapType, size)
	}

	return &DescriptorHeap{
		heap:          heap,
		desc:          desc,
		incrementSize: s.device.DescriptorHandleIncrementSize(heapType),
	}, nil
}

func (s *System) CreateSwapChain(bufferCount, width, height int, format gputypes.TextureFormat) (*SwapChain, error) {
	swapChain, err := s.device.CreateSwapChain(s.queue, native.SwapChainDesc{
		BufferCount: bufferCount,
		Width:       width,
		Height:      height,
		Format:      format,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the swap chain")
	}

	wrapper := &SwapChain{
		logger:      s.logger,
		native:      swapChain,
		bufferCount: bufferCount,
		width:       width,
		height:      height,
		format:      format,
	}
	err = wrapper.wrapBuffers()
	if err != nil {
		wrapper.Release()
		return nil, err
	}
	return wrapper, nil
}

func (s *System) CreateRootSignature(blob []byte) (native.RootSignature, error) {
	rootSignature, err := s.device.CreateRootSignature(blob)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a root signature")
	}
	return rootSignature, nil
}

func (s *System) CreateRaytracingPipeline(desc native.RaytracingPipelineDesc) (native.RaytracingPipeline, error) {
	pipeline, err := s.device.CreateRaytracingPipeline(desc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the ray tracing pipeline")
	}
	return pipeline, nil
}

// CreateCommandList returns a command list ready for recording against the current frame's
// command allocator. Lists returned by Execute are reused before new ones are created.
func (s *System) CreateCommandList() (*CommandList, error) {
	allocator := s.commandAllocators[s.frameIndex]

	if len(s.commandListPool) == 0 {
		list, err := s.device.CreateCommandList(allocator)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create a command list")
		}
		return &CommandList{native: list}, nil
	}

	cmdList := s.commandListPool[0]
	s.commandListPool = s.commandListPool[1:]

	err := cmdList.reset(allocator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reset a pooled command list")
	}
	return cmdList, nil
}

// Execute submits cmdList and returns it to the pool. The caller must not use it afterward.
func (s *System) Execute(cmdList *CommandList) error {
	err := s.executeOnly(cmdList)
	if err != nil {
		return err
	}

	s.commandListPool = append(s.commandListPool, cmdList)
	return nil
}

// Discard closes cmdList without submitting it and returns it to the pool, for lists whose
// recording failed part way
func (s *System) Discard(cmdList *CommandList) error {
	err := cmdList.close()
	if err != nil {
		return errors.Wrap(err, "failed to close the discarded command list")
	}

	s.commandListPool = append(s.commandListPool, cmdList)
	return nil
}

// ExecuteAndReset submits cmdList and reopens it against the current command allocator
func (s *System) ExecuteAndReset(cmdList *CommandList) error {
	err := s.executeOnly(cmdList)
	if err != nil {
		return err
	}

	err = cmdList.reset(s.commandAllocators[s.frameIndex])
	if err != nil {
		return errors.Wrap(err, "failed to reset the executed command list")
	}
	return nil
}

func (s *System) executeOnly(cmdList *CommandList) error {
	err := cmdList.close()
	if err != nil {
		return errors.Wrap(err, "failed to close the command list")
	}

	s.queue.ExecuteCommandLists([]native.CommandList{cmdList.native})

	currentValue := s.fenceValues[s.frameIndex]
	err = s.queue.Signal(s.fence, currentValue)
	if err != nil {
		return errors.Wrapf(err, "failed to signal fence value %d", currentValue)
	}
	s.fenceValues[s.frameIndex] = currentValue + 1

	return nil
}

// WaitForGpu blocks until the GPU has finished all submitted work
func (s *System) WaitForGpu() error {
	if s.queue == nil || s.fence == nil {
		return nil
	}

	s.logger.Debug("System::WaitForGpu", slog.Int("frameIndex", s.frameIndex))

	value := s.fenceValues[s.frameIndex]
	err := s.queue.Signal(s.fence, value)
	if err != nil {
		return errors.Wrapf(err, "failed to signal fence value %d", value)
	}

	err = s.fence.Wait(value)
	if err != nil {
		return errors.Wrapf(err, "failed to wait for fence value %d", value)
	}

	s.fenceValues[s.frameIndex]++
	return nil
}

// ResetFenceValues gives every frame slot the current frame's fence value and restarts the ring at 0
func (s *System) ResetFenceValues() {
	current := s.fenceValues[s.frameIndex]
	for i := range s.fenceValues {
		s.fenceValues[i] = current
	}
	s.frameIndex = 0
}

// HandleDeviceLost tears down every component and resets the fence bookkeeping. If a DeviceFactory
// was provided the System is then rebuilt on a new device. Every resource created from the old
// device must be discarded by its owner.
func (s *System) HandleDeviceLost() error {
	s.logger.LogAttrs(context.Background(), slog.LevelWarn, "System::HandleDeviceLost",
		slog.Int("frameIndex", s.frameIndex),
		slog.Uint64("fenceValue", s.fenceValues[s.frameIndex]),
	)

	s.releaseComponents()

	s.fenceValues = [FrameCount]uint64{}
	s.frameIndex = 0

	if s.options.DeviceFactory == nil {
		return nil
	}

	device, err := s.options.DeviceFactory()
	if err != nil {
		return errors.Wrap(err, "failed to recreate the device")
	}

	err = s.createComponents(device)
	if err != nil {
		s.releaseComponents()
		return err
	}
	return nil
}

func (s *System) releaseComponents() {
	if s.uploadMemory != nil {
		s.uploadMemory.Clear()
		s.uploadMemory = nil
	}
	if s.readbackMemory != nil {
		s.readbackMemory.Clear()
		s.readbackMemory = nil
	}
	for heapType, allocator := range s.descriptors {
		if allocator != nil {
			allocator.Clear()
			s.descriptors[heapType] = nil
		}
	}

	for _, cmdList := range s.commandListPool {
		cmdList.release()
	}
	s.commandListPool = nil

	for i, allocator := range s.commandAllocators {
		if allocator != nil {
			allocator.Release()
			s.commandAllocators[i] = nil
		}
	}

	if s.fence != nil {
		s.fence.Release()
		s.fence = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.device != nil {
		s.device.Release()
		s.device = nil
	}
}

// Destroy waits for the GPU and releases everything. It returns an error if any memory or
// descriptor block was still allocated.
func (s *System) Destroy() error {
	s.logger.Debug("System::Destroy")

	err := s.WaitForGpu()
	if err != nil {
		s.logger.LogAttrs(context.Background(), slog.LevelError, "System::Destroy failed to wait for the gpu", slog.String("error", err.Error()))
	}
	if s.fence != nil {
		s.ClearStallPages()
	}

	var leaks error
	if s.uploadMemory != nil {
		leaks = errors.CombineErrors(leaks, s.uploadMemory.Destroy())
		s.uploadMemory = nil
	}
	if s.readbackMemory != nil {
		leaks = errors.CombineErrors(leaks, s.readbackMemory.Destroy())
		s.readbackMemory = nil
	}
	for heapType, allocator := range s.descriptors {
		if allocator != nil {
			leaks = errors.CombineErrors(leaks, allocator.Destroy())
			s.descriptors[heapType] = nil
		}
	}

	s.releaseComponents()
	return leaks
}

func (s *System) BuildStatsString(detailedMap bool) string {
	writer := jwriter.NewWriter()
	s.WriteStats(&writer, detailedMap)
	return string(writer.Bytes())
}

func (s *System) WriteStats(writer *jwriter.Writer, detailedMap bool) {
	objState := writer.Object()
	defer objState.End()

	objState.Name("FrameIndex").Int(s.frameIndex)
	objState.Name("FenceValue").Float64(float64(s.fenceValues[s.frameIndex]))
	objState.Name("CompletedFenceValue").Float64(float64(s.CompletedFenceValue()))

	if s.uploadMemory != nil {
		s.uploadMemory.WriteStats(objState.Name("UploadMemory"), detailedMap)
	}
	if s.readbackMemory != nil {
		s.readbackMemory.WriteStats(objState.Name("ReadbackMemory"), detailedMap)
	}

	descriptorsObj := objState.Name("Descriptors").Object()
	for _, allocator := range s.descriptors {
		if allocator != nil {
			allocator.WriteStats(descriptorsObj.Name(allocator.HeapType().String()), detailedMap)
		}
	}
	descriptorsObj.End()
}
