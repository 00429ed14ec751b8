package gpu

import (
	"github.com/goldensun/engine/descriptor"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memory"
)

// Blocks freed through the System are tagged with the current frame's fence value and become
// reusable once MoveToNextFrame or ClearStallPages observes that value as completed.

func (s *System) AllocUploadMemBlock(size int, alignment int) (memory.Block, error) {
	return s.uploadMemory.Allocate(size, alignment)
}

func (s *System) DeallocUploadMemBlock(block *memory.Block) {
	s.uploadMemory.Deallocate(block, s.CurrentFenceValue())
}

func (s *System) ReallocUploadMemBlock(block *memory.Block, size int, alignment int) error {
	return s.uploadMemory.Reallocate(block, s.CurrentFenceValue(), size, alignment)
}

func (s *System) AllocReadbackMemBlock(size int, alignment int) (memory.Block, error) {
	return s.readbackMemory.Allocate(size, alignment)
}

func (s *System) DeallocReadbackMemBlock(block *memory.Block) {
	s.readbackMemory.Deallocate(block, s.CurrentFenceValue())
}

func (s *System) ReallocReadbackMemBlock(block *memory.Block, size int, alignment int) error {
	return s.readbackMemory.Reallocate(block, s.CurrentFenceValue(), size, alignment)
}

func (s *System) allocDescBlock(heapType native.DescriptorHeapType, count int) (descriptor.Block, error) {
	return s.descriptors[heapType].Allocate(count)
}

func (s *System) deallocDescBlock(heapType native.DescriptorHeapType, block *descriptor.Block) {
	s.descriptors[heapType].Deallocate(block, s.CurrentFenceValue())
}

func (s *System) reallocDescBlock(heapType native.DescriptorHeapType, block *descriptor.Block, count int) error {
	return s.descriptors[heapType].Reallocate(block, s.CurrentFenceValue(), count)
}

func (s *System) AllocRtvDescBlock(count int) (descriptor.Block, error) {
	return s.allocDescBlock(native.DescriptorHeapTypeRtv, count)
}

func (s *System) DeallocRtvDescBlock(block *descriptor.Block) {
	s.deallocDescBlock(native.DescriptorHeapTypeRtv, block)
}

func (s *System) ReallocRtvDescBlock(block *descriptor.Block, count int) error {
	return s.reallocDescBlock(native.DescriptorHeapTypeRtv, block, count)
}

func (s *System) AllocDsvDescBlock(count int) (descriptor.Block, error) {
	return s.allocDescBlock(native.DescriptorHeapTypeDsv, count)
}

func (s *System) DeallocDsvDescBlock(block *descriptor.Block) {
	s.deallocDescBlock(native.DescriptorHeapTypeDsv, block)
}

func (s *System) ReallocDsvDescBlock(block *descriptor.Block, count int) error {
	return s.reallocDescBlock(native.DescriptorHeapTypeDsv, block, count)
}

func (s *System) AllocCbvSrvUavDescBlock(count int) (descriptor.Block, error) {
	return s.allocDescBlock(native.DescriptorHeapTypeCbvSrvUav, count)
}

func (s *System) DeallocCbvSrvUavDescBlock(block *descriptor.Block) {
	s.deallocDescBlock(native.DescriptorHeapTypeCbvSrvUav, block)
}

func (s *System) ReallocCbvSrvUavDescBlock(block *descriptor.Block, count int) error {
	return s.reallocDescBlock(native.DescriptorHeapTypeCbvSrvUav, block, count)
}

func (s *System) AllocSamplerDescBlock(count int) (descriptor.Block, error) {
	return s.allocDescBlock(native.DescriptorHeapTypeSampler, count)
}

func (s *System) DeallocSamplerDescBlock(block *descriptor.Block) {
	s.deallocDescBlock(native.DescriptorHeapTypeSampler, block)
}

func (s *System) ReallocSamplerDescBlock(block *descriptor.Block, count int) error {
	return s.reallocDescBlock(native.DescriptorHeapTypeSampler, block, count)
}

// UploadMemory exposes the upload allocator for statistics and validation
func (s *System) UploadMemory() *memory.Allocator {
	return s.uploadMemory
}

func (s *System) ReadbackMemory() *memory.Allocator {
	return s.readbackMemory
}

func (s *System) DescriptorAllocator(heapType native.DescriptorHeapType) *descriptor.Allocator {
	return s.descriptors[heapType]
}
