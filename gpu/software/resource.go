package software

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
)

// Resource is a committed buffer or texture held in host memory
type Resource struct {
	device   *Device
	heapType native.HeapType
	desc     native.ResourceDesc
	address  native.GPUVirtualAddress
	state    native.ResourceStates

	lock     sync.Mutex
	data     []byte
	mips     [][]byte
	name     string
	mapCount int
	released bool
}

var _ native.Resource = &Resource{}

func (r *Resource) Desc() native.ResourceDesc {
	return r.desc
}

func (r *Resource) GPUVirtualAddress() native.GPUVirtualAddress {
	return r.address
}

func (r *Resource) Map() ([]byte, error) {
	if r.heapType == native.HeapTypeDefault {
		return nil, errors.Wrapf(native.NewResultError("Map", native.ResultInvalidArg), "resource %q is in the default heap", r.name)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.mapCount++
	return r.data, nil
}

func (r *Resource) Unmap() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.mapCount > 0 {
		r.mapCount--
	}
}

func (r *Resource) SetName(name string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.name = name
}

func (r *Resource) Name() string {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.name
}

func (r *Resource) HeapType() native.HeapType {
	return r.heapType
}

// InitialState is the state the resource was created in
func (r *Resource) InitialState() native.ResourceStates {
	return r.state
}

// Data exposes the contents of a buffer regardless of heap type
func (r *Resource) Data() []byte {
	return r.data
}

// MipData exposes the tightly packed texels of one texture mip
func (r *Resource) MipData(mip int) []byte {
	return r.mips[mip]
}

func (r *Resource) IsReleased() bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.released
}

func (r *Resource) Release() {
	r.lock.Lock()
	if r.released {
		r.lock.Unlock()
		panic(errors.Newf("resource %q was released twice", r.name).Error())
	}
	r.released = true
	r.lock.Unlock()

	if r.device != nil {
		r.device.releaseResource(r)
	}
}

func (r *Resource) rowBytes(mip int) int {
	return max(r.desc.Width>>mip, 1) * native.FormatBytesPerPixel(r.desc.Format)
}

func (r *Resource) mipHeight(mip int) int {
	return max(r.desc.Height>>mip, 1)
}

// DescriptorHeap is a descriptor heap whose handles are opaque numbers. Views written through the
// device are recorded against their CPU handle.
type DescriptorHeap struct {
	device   *Device
	desc     native.DescriptorHeapDesc
	cpuStart native.CPUDescriptorHandle
	gpuStart native.GPUDescriptorHandle
	released bool
}

var _ native.DescriptorHeap = &DescriptorHeap{}

func (h *DescriptorHeap) Desc() native.DescriptorHeapDesc {
	return h.desc
}

func (h *DescriptorHeap) CPUDescriptorHandleForHeapStart() native.CPUDescriptorHandle {
	return h.cpuStart
}

func (h *DescriptorHeap) GPUDescriptorHandleForHeapStart() native.GPUDescriptorHandle {
	return h.gpuStart
}

func (h *DescriptorHeap) IsReleased() bool {
	return h.released
}

func (h *DescriptorHeap) Release() {
	if h.released {
		panic("descriptor heap was released twice")
	}
	h.released = true
	h.device.releaseHeap()
}
