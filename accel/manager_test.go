package accel_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/accel"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/gpu/software"
	"github.com/stretchr/testify/require"
)

type triangles struct {
	counts []int
}

func (t triangles) GeometryDescs() []native.RaytracingGeometryDesc {
	descs := make([]native.RaytracingGeometryDesc, 0, len(t.counts))
	for i, count := range t.counts {
		descs = append(descs, native.RaytracingGeometryDesc{
			Type:  native.GeometryTypeTriangles,
			Flags: native.GeometryFlagOpaque,
			Triangles: native.RaytracingGeometryTrianglesDesc{
				IndexFormat:  gputypes.IndexFormatUint16,
				VertexFormat: gputypes.VertexFormatFloat32x3,
				IndexCount:   count * 3,
				VertexCount:  count * 3,
				IndexBuffer:  native.GPUVirtualAddress(0x10000 * (i + 1)),
				VertexBuffer: native.GPUVirtualAddressAndStride{
					StartAddress:  native.GPUVirtualAddress(0x20000 * (i + 1)),
					StrideInBytes: 12,
				},
			},
		})
	}
	return descs
}

func newManager(t *testing.T, maxInstances int) (*accel.Manager, *gpu.System, *software.Device) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	device := software.NewDevice()

	system, err := gpu.New(logger, device, gpu.CreateOptions{})
	require.NoError(t, err)

	manager, err := accel.New(logger, system, accel.CreateOptions{MaxInstances: maxInstances})
	require.NoError(t, err)
	return manager, system, device
}

// recordBuilds runs one Build into a fresh command list and returns the builds it recorded
func recordBuilds(t *testing.T, manager *accel.Manager, system *gpu.System, forceBuild bool) ([]native.BuildRaytracingAccelerationStructureDesc, []native.ResourceBarrier) {
	cmdList, err := system.CreateCommandList()
	require.NoError(t, err)

	require.NoError(t, manager.Build(cmdList, system.FrameIndex(), forceBuild))

	list := cmdList.Native().(*software.CommandList)
	var builds []native.BuildRaytracingAccelerationStructureDesc
	for _, command := range list.Commands() {
		build, ok := command.(software.BuildCommand)
		if ok {
			builds = append(builds, build.Desc)
		}
	}
	barriers := list.Barriers()

	require.NoError(t, system.Execute(cmdList))
	require.NoError(t, system.MoveToNextFrame())
	return builds, barriers
}

func bottomLevelBuilds(builds []native.BuildRaytracingAccelerationStructureDesc) []native.GPUVirtualAddress {
	var dests []native.GPUVirtualAddress
	for _, build := range builds {
		if build.Inputs.Type == native.AccelerationStructureTypeBottomLevel {
			dests = append(dests, build.DestAccelerationStructureData)
		}
	}
	return dests
}

func TestRebuildGating(t *testing.T) {
	manager, system, _ := newManager(t, 16)

	first, err := manager.AddBottomLevelAS(triangles{counts: []int{12}}, accel.BottomLevelOptions{Name: "first"})
	require.NoError(t, err)
	second, err := manager.AddBottomLevelAS(triangles{counts: []int{4, 8}}, accel.BottomLevelOptions{Name: "second"})
	require.NoError(t, err)
	require.True(t, manager.BottomLevelAS(first).IsDirty())
	require.False(t, manager.BottomLevelAS(first).IsBuilt())

	manager.AddBottomLevelASInstance(first, native.IdentityTransform, 1)
	manager.AddBottomLevelASInstance(second, native.IdentityTransform, 1)
	require.NoError(t, manager.AssignTopLevelAS(native.BuildFlagPreferFastTrace, false, false, "scene"))

	firstAddress := manager.BottomLevelAS(first).GPUVirtualAddress()
	secondAddress := manager.BottomLevelAS(second).GPUVirtualAddress()

	// Both bottom levels are new, so both build before the top level
	builds, barriers := recordBuilds(t, manager, system, false)
	require.Len(t, builds, 3)
	require.Equal(t, []native.GPUVirtualAddress{firstAddress, secondAddress}, bottomLevelBuilds(builds))
	require.Equal(t, native.AccelerationStructureTypeTopLevel, builds[2].Inputs.Type)
	require.Equal(t, 2, builds[2].Inputs.NumDescs)
	require.Len(t, barriers, 3)
	for _, barrier := range barriers {
		require.Equal(t, native.BarrierTypeUAV, barrier.Type)
	}
	require.True(t, manager.BottomLevelAS(first).IsBuilt())
	require.False(t, manager.BottomLevelAS(first).IsDirty())

	// Nothing changed: only the top level is rebuilt
	builds, _ = recordBuilds(t, manager, system, false)
	require.Len(t, builds, 1)
	require.Equal(t, native.AccelerationStructureTypeTopLevel, builds[0].Inputs.Type)

	manager.MarkDirty(second)
	builds, _ = recordBuilds(t, manager, system, false)
	require.Equal(t, []native.GPUVirtualAddress{secondAddress}, bottomLevelBuilds(builds))
	require.Len(t, builds, 2)

	builds, _ = recordBuilds(t, manager, system, true)
	require.Equal(t, []native.GPUVirtualAddress{firstAddress, secondAddress}, bottomLevelBuilds(builds))

	require.Positive(t, manager.ScratchSize())
	for _, build := range builds {
		require.Zero(t, build.Inputs.Flags&native.BuildFlagPerformUpdate)
		require.Zero(t, build.SourceAccelerationStructureData)
	}

	manager.Release()
	require.NoError(t, system.Destroy())
}

func TestUpdateOnBuild(t *testing.T) {
	manager, system, _ := newManager(t, 4)

	refit, err := manager.AddBottomLevelAS(triangles{counts: []int{6}}, accel.BottomLevelOptions{
		AllowUpdate:          true,
		PerformUpdateOnBuild: true,
	})
	require.NoError(t, err)
	updatable, err := manager.AddBottomLevelAS(triangles{counts: []int{6}}, accel.BottomLevelOptions{
		AllowUpdate: true,
	})
	require.NoError(t, err)
	require.NotZero(t, manager.BottomLevelAS(refit).BuildFlags()&native.BuildFlagAllowUpdate)

	manager.AddBottomLevelASInstance(refit, native.IdentityTransform, 0xFF)
	require.NoError(t, manager.AssignTopLevelAS(native.BuildFlagNone, true, true, "scene"))

	builds, _ := recordBuilds(t, manager, system, false)
	require.Len(t, builds, 3)
	for _, build := range builds {
		require.Zero(t, build.Inputs.Flags&native.BuildFlagPerformUpdate)
	}

	manager.MarkDirty(refit)
	manager.MarkDirty(updatable)
	builds, _ = recordBuilds(t, manager, system, false)
	require.Len(t, builds, 3)

	refitBuild := builds[0]
	require.NotZero(t, refitBuild.Inputs.Flags&native.BuildFlagPerformUpdate)
	require.Equal(t, refitBuild.DestAccelerationStructureData, refitBuild.SourceAccelerationStructureData)

	// AllowUpdate alone never refits
	require.Zero(t, builds[1].Inputs.Flags&native.BuildFlagPerformUpdate)

	topLevelBuild := builds[2]
	require.NotZero(t, topLevelBuild.Inputs.Flags&native.BuildFlagPerformUpdate)
	require.Equal(t, manager.TopLevelASBuffer().GPUVirtualAddress(), topLevelBuild.SourceAccelerationStructureData)

	manager.Release()
	require.NoError(t, system.Destroy())
}

func TestInstances(t *testing.T) {
	manager, system, device := newManager(t, 3)

	handle, err := manager.AddBottomLevelAS(triangles{counts: []int{2}}, accel.BottomLevelOptions{
		InstanceContributionToHitGroupIndex: 4,
	})
	require.NoError(t, err)
	blasAddress := manager.BottomLevelAS(handle).GPUVirtualAddress()

	transform := native.IdentityTransform
	transform[0][3] = 5

	require.Equal(t, 0, manager.AddBottomLevelASInstance(handle, transform, 0x3))
	require.Equal(t, 1, manager.AddBottomLevelASInstanceWithHitGroup(handle, native.IdentityTransform, 1, 7))
	require.Equal(t, 2, manager.AddBottomLevelASInstanceWithHitGroup(handle, native.IdentityTransform, 1, accel.UseBLASHitGroupIndex))
	require.Equal(t, 3, manager.NumInstances())

	require.Equal(t, uint32(4), manager.Instance(0).InstanceContributionToHitGroupIndex)
	require.Equal(t, uint32(7), manager.Instance(1).InstanceContributionToHitGroupIndex)
	require.Equal(t, uint32(4), manager.Instance(2).InstanceContributionToHitGroupIndex)
	require.Equal(t, uint32(7), manager.MaxInstanceContributionToHitGroupIndex())

	require.Panics(t, func() {
		manager.AddBottomLevelASInstance(handle, native.IdentityTransform, 1)
	})

	require.NoError(t, manager.AssignTopLevelAS(native.BuildFlagNone, false, false, "scene"))
	builds, _ := recordBuilds(t, manager, system, false)

	// The top-level build reads the instances that were uploaded for its frame
	instanceDescs := builds[len(builds)-1].Inputs.InstanceDescs
	resource, ok := device.ResourceAt(instanceDescs)
	require.True(t, ok)
	offset := int(instanceDescs - resource.GPUVirtualAddress())

	uploaded := native.DecodeRaytracingInstanceDesc(resource.Data()[offset:])
	require.Equal(t, transform, uploaded.Transform)
	require.Equal(t, uint8(0x3), uploaded.InstanceMask)
	require.Equal(t, uint32(4), uploaded.InstanceContributionToHitGroupIndex)
	require.Equal(t, blasAddress, uploaded.AccelerationStructure)

	manager.ResetInstances()
	require.Equal(t, 0, manager.NumInstances())
	require.Equal(t, uint32(0), manager.MaxInstanceContributionToHitGroupIndex())

	manager.Release()
	require.NoError(t, system.Destroy())
}

func TestZeroPrebuildSizePanics(t *testing.T) {
	manager, system, _ := newManager(t, 1)

	require.Panics(t, func() {
		_, _ = manager.AddBottomLevelAS(triangles{}, accel.BottomLevelOptions{Name: "empty"})
	})
	require.Equal(t, 0, manager.NumBottomLevelAS())

	manager.Release()
	require.NoError(t, system.Destroy())
}

func TestScratchGrowsToLargestRequirement(t *testing.T) {
	manager, system, device := newManager(t, 4)

	device.PrebuildInfo = func(inputs native.BuildRaytracingAccelerationStructureInputs) native.RaytracingAccelerationStructurePrebuildInfo {
		if inputs.Type == native.AccelerationStructureTypeTopLevel {
			return native.RaytracingAccelerationStructurePrebuildInfo{
				ResultDataMaxSizeInBytes:     1024,
				ScratchDataSizeInBytes:       512,
				UpdateScratchDataSizeInBytes: 256,
			}
		}
		return native.RaytracingAccelerationStructurePrebuildInfo{
			ResultDataMaxSizeInBytes:     4096,
			ScratchDataSizeInBytes:       1024,
			UpdateScratchDataSizeInBytes: 2048,
		}
	}

	handle, err := manager.AddBottomLevelAS(triangles{counts: []int{1}}, accel.BottomLevelOptions{})
	require.NoError(t, err)
	require.Equal(t, 2048, manager.ScratchSize())
	require.Equal(t, 2048, manager.BottomLevelAS(handle).RequiredScratchSize())

	cmdList, err := system.CreateCommandList()
	require.NoError(t, err)
	require.Error(t, manager.Build(cmdList, 0, false))

	manager.AddBottomLevelASInstance(handle, native.IdentityTransform, 1)
	require.NoError(t, manager.AssignTopLevelAS(native.BuildFlagNone, false, false, "scene"))
	require.Equal(t, 2048, manager.ScratchSize())

	// A second instance does not fit the top level until it is reassigned
	manager.AddBottomLevelASInstance(handle, native.IdentityTransform, 1)
	require.Error(t, manager.Build(cmdList, 0, false))
	require.NoError(t, manager.AssignTopLevelAS(native.BuildFlagNone, false, false, "scene"))
	require.NoError(t, manager.Build(cmdList, 0, false))

	require.NoError(t, system.Execute(cmdList))
	manager.Release()
	require.NoError(t, system.Destroy())
}

func TestUpdateGeometryTransforms(t *testing.T) {
	manager, system, _ := newManager(t, 1)

	handle, err := manager.AddBottomLevelAS(triangles{counts: []int{3, 3, 3}}, accel.BottomLevelOptions{})
	require.NoError(t, err)
	manager.AddBottomLevelASInstance(handle, native.IdentityTransform, 1)
	require.NoError(t, manager.AssignTopLevelAS(native.BuildFlagNone, false, false, "scene"))
	recordBuilds(t, manager, system, false)
	require.False(t, manager.BottomLevelAS(handle).IsDirty())

	manager.UpdateGeometryTransforms(handle, 0x4000)
	require.True(t, manager.BottomLevelAS(handle).IsDirty())

	builds, _ := recordBuilds(t, manager, system, false)
	geometry := builds[0].Inputs.GeometryDescs
	require.Len(t, geometry, 3)
	require.Equal(t, native.GPUVirtualAddress(0x4000), geometry[0].Triangles.Transform3x4)
	require.Equal(t, native.GPUVirtualAddress(0x4030), geometry[1].Triangles.Transform3x4)
	require.Equal(t, native.GPUVirtualAddress(0x4060), geometry[2].Triangles.Transform3x4)

	manager.Release()
	require.NoError(t, system.Destroy())
}

func TestClearReleasesStructures(t *testing.T) {
	manager, system, device := newManager(t, 2)
	live := device.LiveResources()

	handle, err := manager.AddBottomLevelAS(triangles{counts: []int{1}}, accel.BottomLevelOptions{})
	require.NoError(t, err)
	manager.AddBottomLevelASInstance(handle, native.IdentityTransform, 1)
	require.NoError(t, manager.AssignTopLevelAS(native.BuildFlagNone, false, false, "scene"))
	require.Equal(t, live+3, device.LiveResources())

	manager.Clear()
	require.Equal(t, live, device.LiveResources())
	require.Equal(t, 0, manager.NumBottomLevelAS())
	require.Nil(t, manager.TopLevelASBuffer())
	require.Zero(t, manager.ScratchSize())

	manager.Release()
	require.NoError(t, system.Destroy())
}

func TestGeometryCachedPerFrame(t *testing.T) {
	manager, system, _ := newManager(t, 1)

	handle, err := manager.AddBottomLevelAS(triangles{counts: []int{1, 1}}, accel.BottomLevelOptions{})
	require.NoError(t, err)
	manager.AddBottomLevelASInstance(handle, native.IdentityTransform, 1)
	require.NoError(t, manager.AssignTopLevelAS(native.BuildFlagNone, false, false, "scene"))

	require.Equal(t, 0, system.FrameIndex())
	manager.UpdateGeometryTransforms(handle, 0x1000)
	frame0, _ := recordBuilds(t, manager, system, false)
	frame0Geometry := frame0[0].Inputs.GeometryDescs

	require.Equal(t, 1, system.FrameIndex())
	manager.UpdateGeometryTransforms(handle, 0x2000)
	frame1, _ := recordBuilds(t, manager, system, false)
	frame1Geometry := frame1[0].Inputs.GeometryDescs

	// The frame 0 array may still be read by the GPU, so rewriting frame 1 must not touch it
	require.Equal(t, native.GPUVirtualAddress(0x1000), frame0Geometry[0].Triangles.Transform3x4)
	require.Equal(t, native.GPUVirtualAddress(0x1030), frame0Geometry[1].Triangles.Transform3x4)
	require.Equal(t, native.GPUVirtualAddress(0x2000), frame1Geometry[0].Triangles.Transform3x4)
	require.Equal(t, native.GPUVirtualAddress(0x2030), frame1Geometry[1].Triangles.Transform3x4)

	manager.Release()
	require.NoError(t, system.Destroy())
}
