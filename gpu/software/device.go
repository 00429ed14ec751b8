// Package software implements the native GPU interfaces on the CPU. Resources are plain byte
// slices, command lists are recorded and replayed when executed on the queue, and fences complete
// as soon as they are signalled unless they are held. It is used for headless runs and as the
// integration rig for the allocator, resource, and acceleration structure tests.
package software

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memutils"
)

const (
	addressSpaceStart    = 0x10000
	addressAlignment     = 0x10000
	descriptorSpaceStart = 0x1000
)

var descriptorIncrementSizes = [native.DescriptorHeapTypeCount]int{
	native.DescriptorHeapTypeCbvSrvUav: 32,
	native.DescriptorHeapTypeSampler:   16,
	native.DescriptorHeapTypeRtv:       32,
	native.DescriptorHeapTypeDsv:       8,
}

// View is a descriptor written by one of the Create*View methods
type View struct {
	Kind     ViewKind
	Resource native.Resource
	SRV      native.ShaderResourceViewDesc
	UAV      native.UnorderedAccessViewDesc
	RTV      native.RenderTargetViewDesc
}

type ViewKind int

const (
	ViewKindShaderResource ViewKind = iota + 1
	ViewKindUnorderedAccess
	ViewKindRenderTarget
)

// BuildRecord is an acceleration structure build that was executed on a queue
type BuildRecord struct {
	Desc native.BuildRaytracingAccelerationStructureDesc
}

// Device is a CPU implementation of native.Device
type Device struct {
	lock sync.Mutex

	nextAddress       uint64
	nextCPUDescriptor uint64
	nextGPUDescriptor uint64

	resources *swiss.Map[native.GPUVirtualAddress, *Resource]
	views     *swiss.Map[uint64, View]

	liveResources int
	liveHeaps     int
	builds        []BuildRecord
	dispatches    []native.DispatchRaysDesc

	lostWith native.Result
	released bool

	// PrebuildInfo replaces the default acceleration structure size estimate when set
	PrebuildInfo func(inputs native.BuildRaytracingAccelerationStructureInputs) native.RaytracingAccelerationStructurePrebuildInfo
}

var _ native.Device = &Device{}

func NewDevice() *Device {
	return &Device{
		nextAddress:       addressSpaceStart,
		nextCPUDescriptor: descriptorSpaceStart,
		nextGPUDescriptor: descriptorSpaceStart,
		resources:         swiss.NewMap[native.GPUVirtualAddress, *Resource](42),
		views:             swiss.NewMap[uint64, View](42),
	}
}

// Lose simulates device removal. Every subsequent create call and every swap chain present fails
// with code.
func (d *Device) Lose(code native.Result) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.lostWith = code
}

func (d *Device) lostError(op string) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.lostWith != native.ResultOK {
		return native.NewResultError(op, d.lostWith)
	}
	if d.released {
		return native.NewResultError(op, native.ResultDeviceRemoved)
	}
	return nil
}

func (d *Device) CreateCommittedResource(heapType native.HeapType, desc native.ResourceDesc, initialState native.ResourceStates) (native.Resource, error) {
	err := d.lostError("CreateCommittedResource")
	if err != nil {
		return nil, err
	}

	if desc.Width <= 0 || (desc.Dimension == native.ResourceDimensionTexture2D && desc.Height <= 0) {
		return nil, errors.Wrapf(native.NewResultError("CreateCommittedResource", native.ResultInvalidArg),
			"resource of %dx%d", desc.Width, desc.Height)
	}
	if desc.Dimension == native.ResourceDimensionTexture2D && heapType != native.HeapTypeDefault {
		return nil, errors.Wrapf(native.NewResultError("CreateCommittedResource", native.ResultInvalidArg),
			"textures cannot be placed in %s", heapType)
	}
	if desc.MipLevels < 1 {
		desc.MipLevels = 1
	}

	resource := &Resource{
		device:   d,
		heapType: heapType,
		desc:     desc,
		state:    initialState,
	}

	if desc.Dimension == native.ResourceDimensionBuffer {
		resource.data = make([]byte, desc.Width)
	} else {
		bytesPerPixel := native.FormatBytesPerPixel(desc.Format)
		resource.mips = make([][]byte, desc.MipLevels)
		for mip := range resource.mips {
			width := max(desc.Width>>mip, 1)
			height := max(desc.Height>>mip, 1)
			resource.mips[mip] = make([]byte, width*height*bytesPerPixel)
		}
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	if desc.Dimension == native.ResourceDimensionBuffer {
		resource.address = native.GPUVirtualAddress(d.nextAddress)
		d.nextAddress += uint64(memutils.AlignUp(desc.Width, addressAlignment))
		d.resources.Put(resource.address, resource)
	}
	d.liveResources++

	return resource, nil
}

func (d *Device) CreateDescriptorHeap(desc native.DescriptorHeapDesc) (native.DescriptorHeap, error) {
	err := d.lostError("CreateDescriptorHeap")
	if err != nil {
		return nil, err
	}
	if desc.NumDescriptors <= 0 {
		return nil, errors.Wrapf(native.NewResultError("CreateDescriptorHeap", native.ResultInvalidArg),
			"descriptor heap of %d descriptors", desc.NumDescriptors)
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	span := uint64(desc.NumDescriptors * descriptorIncrementSizes[desc.Type])
	heap := &DescriptorHeap{
		device:   d,
		desc:     desc,
		cpuStart: native.CPUDescriptorHandle{Ptr: d.nextCPUDescriptor},
	}
	d.nextCPUDescriptor += uint64(memutils.AlignUp(int(span), addressAlignment))

	if desc.Flags&native.DescriptorHeapFlagShaderVisible != 0 {
		heap.gpuStart = native.GPUDescriptorHandle{Ptr: d.nextGPUDescriptor}
		d.nextGPUDescriptor += uint64(memutils.AlignUp(int(span), addressAlignment))
	}

	d.liveHeaps++
	return heap, nil
}

func (d *Device) DescriptorHandleIncrementSize(heapType native.DescriptorHeapType) int {
	return descriptorIncrementSizes[heapType]
}

func (d *Device) CreateCommandQueue() (native.CommandQueue, error) {
	err := d.lostError("CreateCommandQueue")
	if err != nil {
		return nil, err
	}

	return &CommandQueue{device: d}, nil
}

func (d *Device) CreateCommandAllocator() (native.CommandAllocator, error) {
	err := d.lostError("CreateCommandAllocator")
	if err != nil {
		return nil, err
	}

	return &CommandAllocator{}, nil
}

func (d *Device) CreateCommandList(allocator native.CommandAllocator) (native.CommandList, error) {
	err := d.lostError("CreateCommandList")
	if err != nil {
		return nil, err
	}

	commandAllocator, ok := allocator.(*CommandAllocator)
	if !ok {
		return nil, errors.Newf("command allocator %T was not created by a software device", allocator)
	}

	return &CommandList{device: d, allocator: commandAllocator, open: true}, nil
}

func (d *Device) CreateFence(initialValue uint64) (native.Fence, error) {
	err := d.lostError("CreateFence")
	if err != nil {
		return nil, err
	}

	return NewFence(initialValue), nil
}

func (d *Device) RaytracingAccelerationStructurePrebuildInfo(inputs native.BuildRaytracingAccelerationStructureInputs) native.RaytracingAccelerationStructurePrebuildInfo {
	if d.PrebuildInfo != nil {
		return d.PrebuildInfo(inputs)
	}

	align := func(size int) int {
		return memutils.AlignUp(size, native.RaytracingAccelerationStructureByteAlignment)
	}

	if inputs.Type == native.AccelerationStructureTypeTopLevel {
		return native.RaytracingAccelerationStructurePrebuildInfo{
			ResultDataMaxSizeInBytes:     align(256 + inputs.NumDescs*128),
			ScratchDataSizeInBytes:       align(256 + inputs.NumDescs*64),
			UpdateScratchDataSizeInBytes: align(256 + inputs.NumDescs*16),
		}
	}

	triangles := 0
	for _, geometry := range inputs.GeometryDescs {
		count := geometry.Triangles.IndexCount
		if count == 0 {
			count = geometry.Triangles.VertexCount
		}
		triangles += count / 3
	}
	if triangles == 0 {
		return native.RaytracingAccelerationStructurePrebuildInfo{}
	}

	return native.RaytracingAccelerationStructurePrebuildInfo{
		ResultDataMaxSizeInBytes:     align(256 + triangles*64),
		ScratchDataSizeInBytes:       align(256 + triangles*32),
		UpdateScratchDataSizeInBytes: align(256 + triangles*8),
	}
}

func (d *Device) CreateShaderResourceView(resource native.Resource, desc native.ShaderResourceViewDesc, dest native.CPUDescriptorHandle) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.views.Put(dest.Ptr, View{Kind: ViewKindShaderResource, Resource: resource, SRV: desc})
}

func (d *Device) CreateUnorderedAccessView(resource native.Resource, desc native.UnorderedAccessViewDesc, dest native.CPUDescriptorHandle) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.views.Put(dest.Ptr, View{Kind: ViewKindUnorderedAccess, Resource: resource, UAV: desc})
}

func (d *Device) CreateRenderTargetView(resource native.Resource, desc native.RenderTargetViewDesc, dest native.CPUDescriptorHandle) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.views.Put(dest.Ptr, View{Kind: ViewKindRenderTarget, Resource: resource, RTV: desc})
}

// ViewAt returns the descriptor last written to handle
func (d *Device) ViewAt(handle native.CPUDescriptorHandle) (View, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.views.Get(handle.Ptr)
}

func (d *Device) CreateRootSignature(blob []byte) (native.RootSignature, error) {
	err := d.lostError("CreateRootSignature")
	if err != nil {
		return nil, err
	}

	return &RootSignature{blob: append([]byte(nil), blob...)}, nil
}

func (d *Device) CreateRaytracingPipeline(desc native.RaytracingPipelineDesc) (native.RaytracingPipeline, error) {
	err := d.lostError("CreateRaytracingPipeline")
	if err != nil {
		return nil, err
	}

	return newPipeline(desc)
}

func (d *Device) CreateSwapChain(queue native.CommandQueue, desc native.SwapChainDesc) (native.SwapChain, error) {
	err := d.lostError("CreateSwapChain")
	if err != nil {
		return nil, err
	}

	swapChain := &SwapChain{device: d}
	err = swapChain.createBuffers(desc.BufferCount, desc.Width, desc.Height, desc.Format)
	if err != nil {
		return nil, err
	}
	return swapChain, nil
}

func (d *Device) Release() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.released = true
}

// LiveResources is the number of committed resources that have not been released
func (d *Device) LiveResources() int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.liveResources
}

// LiveDescriptorHeaps is the number of descriptor heaps that have not been released
func (d *Device) LiveDescriptorHeaps() int {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.liveHeaps
}

// Builds returns every acceleration structure build executed so far, in submission order
func (d *Device) Builds() []BuildRecord {
	d.lock.Lock()
	defer d.lock.Unlock()

	return append([]BuildRecord(nil), d.builds...)
}

func (d *Device) Dispatches() []native.DispatchRaysDesc {
	d.lock.Lock()
	defer d.lock.Unlock()

	return append([]native.DispatchRaysDesc(nil), d.dispatches...)
}

// ResourceAt returns the buffer whose address range contains address
func (d *Device) ResourceAt(address native.GPUVirtualAddress) (*Resource, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	var found *Resource
	d.resources.Iter(func(start native.GPUVirtualAddress, resource *Resource) bool {
		if address >= start && address < start+native.GPUVirtualAddress(resource.desc.Width) {
			found = resource
			return true
		}
		return false
	})
	return found, found != nil
}

func (d *Device) recordBuild(desc native.BuildRaytracingAccelerationStructureDesc) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.builds = append(d.builds, BuildRecord{Desc: desc})
}

func (d *Device) recordDispatch(desc native.DispatchRaysDesc) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.dispatches = append(d.dispatches, desc)
}

func (d *Device) releaseResource(resource *Resource) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if resource.address != 0 {
		d.resources.Delete(resource.address)
	}
	d.liveResources--
}

func (d *Device) releaseHeap() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.liveHeaps--
}
