package gpu_test

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/gpu/native/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBufferTransitionIdempotence(t *testing.T) {
	ctrl := gomock.NewController(t)

	resource := mocks.NewMockResource(ctrl)
	resource.EXPECT().Desc().Return(native.BufferDesc(256, native.ResourceFlagAllowUnorderedAccess)).AnyTimes()
	list := mocks.NewMockCommandList(ctrl)

	buffer, err := gpu.WrapBuffer(resource, native.HeapTypeDefault, native.ResourceStateCopyDest, "")
	require.NoError(t, err)
	cmdList := gpu.WrapCommandList(list)

	// Same non-UAV state: no barrier at all
	buffer.Transition(cmdList, native.ResourceStateCopyDest)

	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{
		native.TransitionBarrier(resource, native.AllSubresources, native.ResourceStateCopyDest, native.ResourceStateUnorderedAccess),
	})
	buffer.Transition(cmdList, native.ResourceStateUnorderedAccess)
	require.Equal(t, native.ResourceStateUnorderedAccess, buffer.State())

	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{native.UAVBarrier(resource)})
	buffer.Transition(cmdList, native.ResourceStateUnorderedAccess)
}

func TestAccelerationStructureStateGetsUAVBarrier(t *testing.T) {
	ctrl := gomock.NewController(t)

	resource := mocks.NewMockResource(ctrl)
	resource.EXPECT().Desc().Return(native.BufferDesc(1024, native.ResourceFlagAllowUnorderedAccess)).AnyTimes()
	list := mocks.NewMockCommandList(ctrl)

	buffer, err := gpu.WrapBuffer(resource, native.HeapTypeDefault, native.ResourceStateRaytracingAccelerationStructure, "")
	require.NoError(t, err)

	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{native.UAVBarrier(resource)}).Times(2)
	buffer.Transition(gpu.WrapCommandList(list), native.ResourceStateRaytracingAccelerationStructure)
	buffer.Transition(gpu.WrapCommandList(list), native.ResourceStateRaytracingAccelerationStructure)
}

func TestTextureTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)

	resource := mocks.NewMockResource(ctrl)
	resource.EXPECT().Desc().Return(native.Texture2DDesc(64, 32, 3, gputypes.TextureFormatRGBA8Unorm, native.ResourceFlagAllowUnorderedAccess)).AnyTimes()
	list := mocks.NewMockCommandList(ctrl)
	cmdList := gpu.WrapCommandList(list)

	texture, err := gpu.WrapTexture2D(resource, native.ResourceStatePixelShaderResource, "")
	require.NoError(t, err)
	require.Equal(t, 3, texture.MipLevels())
	require.Equal(t, 16, texture.Width(2))
	require.Equal(t, 8, texture.Height(2))
	require.Equal(t, 1, texture.Height(10))

	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{
		native.TransitionBarrier(resource, 1, native.ResourceStatePixelShaderResource, native.ResourceStateCopyDest),
	})
	texture.TransitionMip(cmdList, 1, native.ResourceStateCopyDest)
	require.Equal(t, native.ResourceStateCopyDest, texture.State(1))
	require.Equal(t, native.ResourceStatePixelShaderResource, texture.State(0))

	// Divergent mips: only the mip that differs gets a barrier
	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{
		native.TransitionBarrier(resource, 1, native.ResourceStateCopyDest, native.ResourceStatePixelShaderResource),
	})
	texture.Transition(cmdList, native.ResourceStatePixelShaderResource)

	// Uniform mips: one barrier for every subresource
	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{
		native.TransitionBarrier(resource, native.AllSubresources, native.ResourceStatePixelShaderResource, native.ResourceStateUnorderedAccess),
	})
	texture.Transition(cmdList, native.ResourceStateUnorderedAccess)
	for mip := 0; mip < texture.MipLevels(); mip++ {
		require.Equal(t, native.ResourceStateUnorderedAccess, texture.State(mip))
	}

	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{native.UAVBarrier(resource)})
	texture.Transition(cmdList, native.ResourceStateUnorderedAccess)

	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{
		native.TransitionBarrier(resource, 0, native.ResourceStateUnorderedAccess, native.ResourceStateCopySource),
	})
	texture.TransitionMip(cmdList, 0, native.ResourceStateCopySource)

	// Divergent mips into a UAV state: the mips already there still need a UAV barrier
	list.EXPECT().ResourceBarrier([]native.ResourceBarrier{
		native.TransitionBarrier(resource, 0, native.ResourceStateCopySource, native.ResourceStateUnorderedAccess),
		native.UAVBarrier(resource),
	})
	texture.Transition(cmdList, native.ResourceStateUnorderedAccess)
	for mip := 0; mip < texture.MipLevels(); mip++ {
		require.Equal(t, native.ResourceStateUnorderedAccess, texture.State(mip))
	}
}

func TestSharedBufferReleasesOnLastReference(t *testing.T) {
	ctrl := gomock.NewController(t)

	resource := mocks.NewMockResource(ctrl)
	resource.EXPECT().Desc().Return(native.BufferDesc(64, native.ResourceFlagNone)).AnyTimes()
	resource.EXPECT().SetName("vertices")

	buffer, err := gpu.WrapBuffer(resource, native.HeapTypeDefault, native.ResourceStateCommon, "vertices")
	require.NoError(t, err)

	shared := buffer.Share()
	require.Same(t, buffer.Native(), shared.Native())

	buffer.Release()
	require.True(t, buffer.IsEmpty())
	require.False(t, shared.IsEmpty())

	resource.EXPECT().Release()
	shared.Release()
	require.True(t, shared.IsEmpty())
}

func TestMappedBuffersUnmapOnRelease(t *testing.T) {
	ctrl := gomock.NewController(t)

	data := make([]byte, 128)
	resource := mocks.NewMockResource(ctrl)
	resource.EXPECT().Desc().Return(native.BufferDesc(len(data), native.ResourceFlagNone)).AnyTimes()
	resource.EXPECT().Map().Return(data, nil)

	buffer, err := gpu.WrapBuffer(resource, native.HeapTypeUpload, native.ResourceStateGenericRead, "")
	require.NoError(t, err)
	require.Len(t, buffer.MappedData(), 128)

	gomock.InOrder(
		resource.EXPECT().Unmap(),
		resource.EXPECT().Release(),
	)
	buffer.Release()
}
