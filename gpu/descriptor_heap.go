package gpu

import "github.com/goldensun/engine/gpu/native"

// DescriptorHeap is a descriptor heap created directly rather than through the descriptor allocators
type DescriptorHeap struct {
	heap          native.DescriptorHeap
	desc          native.DescriptorHeapDesc
	incrementSize int
}

func (h *DescriptorHeap) IsEmpty() bool {
	return h == nil || h.heap == nil
}

func (h *DescriptorHeap) Native() native.DescriptorHeap {
	return h.heap
}

func (h *DescriptorHeap) Size() int {
	return h.desc.NumDescriptors
}

func (h *DescriptorHeap) Type() native.DescriptorHeapType {
	return h.desc.Type
}

func (h *DescriptorHeap) Flags() native.DescriptorHeapFlags {
	return h.desc.Flags
}

func (h *DescriptorHeap) DescriptorSize() int {
	return h.incrementSize
}

func (h *DescriptorHeap) CPUHandleStart() native.CPUDescriptorHandle {
	return h.heap.CPUDescriptorHandleForHeapStart()
}

func (h *DescriptorHeap) GPUHandleStart() native.GPUDescriptorHandle {
	return h.heap.GPUDescriptorHandleForHeapStart()
}

// OffsetCPUHandle is the handle of the index-th descriptor in the heap
func (h *DescriptorHeap) OffsetCPUHandle(index int) native.CPUDescriptorHandle {
	return h.CPUHandleStart().Offset(index, h.incrementSize)
}

func (h *DescriptorHeap) OffsetGPUHandle(index int) native.GPUDescriptorHandle {
	return h.GPUHandleStart().Offset(index, h.incrementSize)
}

func (h *DescriptorHeap) Release() {
	if h.IsEmpty() {
		return
	}
	h.heap.Release()
	*h = DescriptorHeap{}
}
