package engine

import (
	"fmt"

	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memory"
	"github.com/goldensun/engine/memutils"
)

// shaderTable is an array of shader records in upload memory. Each record is a shader identifier
// followed by that shader's local root arguments.
type shaderTable struct {
	block      memory.Block
	stride     int
	numRecords int
}

// realloc makes room for numRecords records of recordSize bytes. The previous storage is freed
// once the frames reading it have completed. An empty table holds no storage.
func (t *shaderTable) realloc(system *gpu.System, numRecords int, recordSize int) error {
	t.stride = memutils.AlignUp(recordSize, native.ShaderRecordAlignment)
	t.numRecords = numRecords

	if numRecords == 0 {
		system.DeallocUploadMemBlock(&t.block)
		return nil
	}

	err := system.ReallocUploadMemBlock(&t.block, numRecords*t.stride, native.ShaderTableAlignment)
	if err != nil {
		return err
	}
	clear(t.block.CPUAddress())
	return nil
}

func (t *shaderTable) write(index int, identifier []byte, rootArguments []byte) {
	if index < 0 || index >= t.numRecords {
		panic(fmt.Sprintf("shader record %d out of range [0, %d)", index, t.numRecords))
	}
	if len(identifier)+len(rootArguments) > t.stride {
		panic(fmt.Sprintf("shader record of %d bytes does not fit in a stride of %d", len(identifier)+len(rootArguments), t.stride))
	}

	record := t.block.CPUAddress()[index*t.stride : (index+1)*t.stride]
	n := copy(record, identifier)
	copy(record[n:], rootArguments)
}

func (t *shaderTable) Size() int {
	return t.numRecords * t.stride
}

func (t *shaderTable) Stride() int {
	return t.stride
}

func (t *shaderTable) GPUVirtualAddress() native.GPUVirtualAddress {
	return t.block.GPUAddress()
}

func (t *shaderTable) addressRange() native.GPUVirtualAddressRange {
	return native.GPUVirtualAddressRange{
		StartAddress: t.GPUVirtualAddress(),
		SizeInBytes:  t.Size(),
	}
}

func (t *shaderTable) addressRangeAndStride() native.GPUVirtualAddressRangeAndStride {
	return native.GPUVirtualAddressRangeAndStride{
		StartAddress:  t.GPUVirtualAddress(),
		SizeInBytes:   t.Size(),
		StrideInBytes: t.stride,
	}
}

func (t *shaderTable) release(system *gpu.System) {
	system.DeallocUploadMemBlock(&t.block)
	t.numRecords = 0
}
