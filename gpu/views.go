package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memory"
)

// View is a descriptor written by one of the System's Create*View methods
type View struct {
	handle native.CPUDescriptorHandle
}

func (v View) CPUHandle() native.CPUDescriptorHandle {
	return v.handle
}

func viewFormat(texture *Texture2D, format gputypes.TextureFormat) gputypes.TextureFormat {
	if format == gputypes.TextureFormatUndefined {
		return texture.Format()
	}
	return format
}

// CreateBufferShaderResourceView writes a structured buffer view. An elementSize of 0 creates a raw
// view, in which case firstElement and numElements count 4-byte words.
func (s *System) CreateBufferShaderResourceView(buffer *Buffer, firstElement, numElements, elementSize int, dest native.CPUDescriptorHandle) View {
	s.device.CreateShaderResourceView(buffer.Native(), native.ShaderResourceViewDesc{
		Dimension:           native.SRVDimensionBuffer,
		FirstElement:        firstElement,
		NumElements:         numElements,
		StructureByteStride: elementSize,
		Raw:                 elementSize == 0,
	}, dest)
	return View{handle: dest}
}

// CreateMemBlockShaderResourceView writes a structured view over an upload block. The block's offset
// and size must be multiples of elementSize.
func (s *System) CreateMemBlockShaderResourceView(block memory.Block, elementSize int, dest native.CPUDescriptorHandle) View {
	if elementSize <= 0 || block.Offset()%elementSize != 0 || block.Size()%elementSize != 0 {
		panic(fmt.Sprintf("memory block at offset %d of %d bytes cannot be viewed as elements of %d bytes",
			block.Offset(), block.Size(), elementSize))
	}

	s.device.CreateShaderResourceView(block.Resource(), native.ShaderResourceViewDesc{
		Dimension:           native.SRVDimensionBuffer,
		FirstElement:        block.Offset() / elementSize,
		NumElements:         block.Size() / elementSize,
		StructureByteStride: elementSize,
	}, dest)
	return View{handle: dest}
}

// CreateTextureShaderResourceView writes a view of every mip of texture. TextureFormatUndefined
// uses the texture's own format.
func (s *System) CreateTextureShaderResourceView(texture *Texture2D, format gputypes.TextureFormat, dest native.CPUDescriptorHandle) View {
	s.device.CreateShaderResourceView(texture.Native(), native.ShaderResourceViewDesc{
		Dimension: native.SRVDimensionTexture2D,
		Format:    viewFormat(texture, format),
		MipLevels: texture.MipLevels(),
	}, dest)
	return View{handle: dest}
}

// CreateAccelerationStructureView writes a view of the top-level acceleration structure at location
func (s *System) CreateAccelerationStructureView(location native.GPUVirtualAddress, dest native.CPUDescriptorHandle) View {
	s.device.CreateShaderResourceView(nil, native.ShaderResourceViewDesc{
		Dimension: native.SRVDimensionRaytracingAccelerationStructure,
		Location:  location,
	}, dest)
	return View{handle: dest}
}

func (s *System) CreateBufferUnorderedAccessView(buffer *Buffer, firstElement, numElements, elementSize int, dest native.CPUDescriptorHandle) View {
	s.device.CreateUnorderedAccessView(buffer.Native(), native.UnorderedAccessViewDesc{
		Dimension:           native.UAVDimensionBuffer,
		FirstElement:        firstElement,
		NumElements:         numElements,
		StructureByteStride: elementSize,
		Raw:                 elementSize == 0,
	}, dest)
	return View{handle: dest}
}

func (s *System) CreateTextureUnorderedAccessView(texture *Texture2D, format gputypes.TextureFormat, mip int, dest native.CPUDescriptorHandle) View {
	s.device.CreateUnorderedAccessView(texture.Native(), native.UnorderedAccessViewDesc{
		Dimension: native.UAVDimensionTexture2D,
		Format:    viewFormat(texture, format),
		MipSlice:  mip,
	}, dest)
	return View{handle: dest}
}

func (s *System) CreateRenderTargetView(texture *Texture2D, format gputypes.TextureFormat, dest native.CPUDescriptorHandle) View {
	s.device.CreateRenderTargetView(texture.Native(), native.RenderTargetViewDesc{
		Format: viewFormat(texture, format),
	}, dest)
	return View{handle: dest}
}
