package gpu

import (
	"fmt"

	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memutils"
)

// Encoder writes values of T into GPU-visible memory with a fixed layout
type Encoder[T any] interface {
	// Size is the number of bytes Encode writes
	Size() int
	Encode(dst []byte, value T)
}

// ConstantBuffer is an upload buffer holding one T per frame. Values are edited through Staging
// and copied into a frame's slot with UploadToGPU.
type ConstantBuffer[T any] struct {
	buffer      *Buffer
	encoder     Encoder[T]
	staging     T
	alignedSize int
	numFrames   int
}

func NewConstantBuffer[T any](system *System, encoder Encoder[T], numFrames int, name string) (*ConstantBuffer[T], error) {
	if numFrames < 1 {
		numFrames = 1
	}
	alignedSize := memutils.AlignUp(encoder.Size(), native.ConstantBufferDataPlacementAlignment)

	buffer, err := system.CreateUploadBuffer(numFrames*alignedSize, name)
	if err != nil {
		return nil, err
	}

	return &ConstantBuffer[T]{
		buffer:      buffer,
		encoder:     encoder,
		alignedSize: alignedSize,
		numFrames:   numFrames,
	}, nil
}

func (c *ConstantBuffer[T]) Buffer() *Buffer {
	return c.buffer
}

func (c *ConstantBuffer[T]) Staging() *T {
	return &c.staging
}

func (c *ConstantBuffer[T]) NumFrames() int {
	return c.numFrames
}

// MappedData is the CPU view of one frame's slot
func (c *ConstantBuffer[T]) MappedData(frameIndex int) []byte {
	c.checkFrame(frameIndex)
	start := frameIndex * c.alignedSize
	return c.buffer.MappedData()[start : start+c.encoder.Size()]
}

func (c *ConstantBuffer[T]) UploadToGPU(frameIndex int) {
	c.encoder.Encode(c.MappedData(frameIndex), c.staging)
}

func (c *ConstantBuffer[T]) GPUVirtualAddress(frameIndex int) native.GPUVirtualAddress {
	c.checkFrame(frameIndex)
	return c.buffer.GPUVirtualAddress() + native.GPUVirtualAddress(frameIndex*c.alignedSize)
}

func (c *ConstantBuffer[T]) Release() {
	c.buffer.Release()
}

func (c *ConstantBuffer[T]) checkFrame(frameIndex int) {
	if frameIndex < 0 || frameIndex >= c.numFrames {
		panic(fmt.Sprintf("frame %d is outside of a constant buffer with %d frames", frameIndex, c.numFrames))
	}
}

// StructuredBuffer is an upload buffer holding an array of T per frame
type StructuredBuffer[T any] struct {
	buffer      *Buffer
	encoder     Encoder[T]
	staging     []T
	elementSize int
	numFrames   int
}

func NewStructuredBuffer[T any](system *System, encoder Encoder[T], numElements int, numFrames int, name string) (*StructuredBuffer[T], error) {
	if numFrames < 1 {
		numFrames = 1
	}

	buffer, err := system.CreateUploadBuffer(numFrames*numElements*encoder.Size(), name)
	if err != nil {
		return nil, err
	}

	return &StructuredBuffer[T]{
		buffer:      buffer,
		encoder:     encoder,
		staging:     make([]T, numElements),
		elementSize: encoder.Size(),
		numFrames:   numFrames,
	}, nil
}

func (s *StructuredBuffer[T]) Buffer() *Buffer {
	return s.buffer
}

// Staging is the CPU copy of the elements. Edits are not visible to the GPU until UploadToGPU.
func (s *StructuredBuffer[T]) Staging() []T {
	return s.staging
}

func (s *StructuredBuffer[T]) NumElements() int {
	return len(s.staging)
}

func (s *StructuredBuffer[T]) ElementSize() int {
	return s.elementSize
}

func (s *StructuredBuffer[T]) NumFrames() int {
	return s.numFrames
}

func (s *StructuredBuffer[T]) MappedData(frameIndex int) []byte {
	s.checkFrame(frameIndex)
	frameSize := len(s.staging) * s.elementSize
	return s.buffer.MappedData()[frameIndex*frameSize : (frameIndex+1)*frameSize]
}

// UploadToGPU encodes the first count staged elements into a frame's slot. A negative count
// uploads every element.
func (s *StructuredBuffer[T]) UploadToGPU(frameIndex int, count int) {
	if count < 0 || count > len(s.staging) {
		count = len(s.staging)
	}

	mapped := s.MappedData(frameIndex)
	for i := 0; i < count; i++ {
		s.encoder.Encode(mapped[i*s.elementSize:(i+1)*s.elementSize], s.staging[i])
	}
}

func (s *StructuredBuffer[T]) GPUVirtualAddress(frameIndex int) native.GPUVirtualAddress {
	return s.ElementGPUVirtualAddress(frameIndex, 0)
}

func (s *StructuredBuffer[T]) ElementGPUVirtualAddress(frameIndex int, element int) native.GPUVirtualAddress {
	s.checkFrame(frameIndex)
	offset := (frameIndex*len(s.staging) + element) * s.elementSize
	return s.buffer.GPUVirtualAddress() + native.GPUVirtualAddress(offset)
}

func (s *StructuredBuffer[T]) Release() {
	s.buffer.Release()
}

func (s *StructuredBuffer[T]) checkFrame(frameIndex int) {
	if frameIndex < 0 || frameIndex >= s.numFrames {
		panic(fmt.Sprintf("frame %d is outside of a structured buffer with %d frames", frameIndex, s.numFrames))
	}
}
