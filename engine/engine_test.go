package engine_test

import (
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/engine"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/gpu/software"
	"github.com/goldensun/engine/scene"
	"github.com/stretchr/testify/require"
)

func testOptions() engine.Options {
	return engine.Options{
		ShaderLibrary:       []byte("raytracing library"),
		GlobalRootSignature: []byte("global"),
		LocalRootSignature:  []byte("local"),
		MaxInstances:        16,
	}
}

func newEngine(t *testing.T, systemOptions gpu.CreateOptions) (*engine.Engine, *gpu.System, *software.Device) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	device := software.NewDevice()

	system, err := gpu.New(logger, device, systemOptions)
	require.NoError(t, err)

	e, err := engine.New(logger, system, testOptions())
	require.NoError(t, err)
	return e, system, device
}

// newQuadMesh creates a mesh of numPrimitives quads that all share one material
func newQuadMesh(t *testing.T, system *gpu.System, numPrimitives int, numInstances int) *scene.Mesh {
	vertices, err := system.CreateUploadBufferWithData(scene.EncodeVertices(make([]scene.Vertex, 4)), "vertices")
	require.NoError(t, err)
	indices, err := system.CreateUploadBufferWithData(scene.EncodeIndices([]scene.Index{0, 1, 2, 0, 2, 3}), "indices")
	require.NoError(t, err)

	mesh := scene.NewVertexMesh()
	material := mesh.AddMaterial(scene.NewPbrMaterial())
	for i := 0; i < numPrimitives; i++ {
		mesh.AddPrimitive(vertices, indices, material)
	}
	for i := 0; i < numInstances; i++ {
		mesh.AddInstance(scene.Translation4(scene.Vec3(float32(i), 0, 0)))
	}

	vertices.Release()
	indices.Release()
	return mesh
}

type recorded struct {
	dispatch native.DispatchRaysDesc
	binds    []software.BindCommand
}

func render(t *testing.T, e *engine.Engine, system *gpu.System) recorded {
	cmdList, err := system.CreateCommandList()
	require.NoError(t, err)

	require.NoError(t, e.Render(cmdList))

	var result recorded
	dispatches := 0
	for _, command := range cmdList.Native().(*software.CommandList).Commands() {
		switch c := command.(type) {
		case software.DispatchCommand:
			result.dispatch = c.Desc
			dispatches++
		case software.BindCommand:
			result.binds = append(result.binds, c)
		}
	}
	require.Equal(t, 1, dispatches)

	require.NoError(t, system.Execute(cmdList))
	require.NoError(t, system.MoveToNextFrame())
	return result
}

func bindsOf(r recorded, method string) []software.BindCommand {
	var result []software.BindCommand
	for _, bind := range r.binds {
		if bind.Method == method {
			result = append(result, bind)
		}
	}
	return result
}

// bytesAt returns the bytes of the buffer containing address, starting at address
func bytesAt(t *testing.T, device *software.Device, address native.GPUVirtualAddress) []byte {
	resource, ok := device.ResourceAt(address)
	require.True(t, ok)
	return resource.Data()[address-resource.GPUVirtualAddress():]
}

func TestNewRequiresShaderLibrary(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	system, err := gpu.New(logger, software.NewDevice(), gpu.CreateOptions{})
	require.NoError(t, err)

	options := testOptions()
	options.ShaderLibrary = nil
	_, err = engine.New(logger, system, options)
	require.Error(t, err)

	_, err = engine.New(nil, system, testOptions())
	require.Error(t, err)
}

func TestRenderRequiresTargetAndMeshes(t *testing.T) {
	e, system, _ := newEngine(t, gpu.CreateOptions{})

	cmdList, err := system.CreateCommandList()
	require.NoError(t, err)
	require.Error(t, e.Render(cmdList))

	require.NoError(t, e.RenderTarget(8, 8, gputypes.TextureFormatRGBA8Unorm))
	require.Error(t, e.Render(cmdList))

	require.Error(t, e.Meshes([]*scene.Mesh{scene.NewVertexMesh()}))
	require.NoError(t, system.Execute(cmdList))
}

func TestRenderDispatch(t *testing.T) {
	e, system, device := newEngine(t, gpu.CreateOptions{})

	first := newQuadMesh(t, system, 2, 1)
	second := newQuadMesh(t, system, 1, 2)
	defer first.Release()
	defer second.Release()

	require.NoError(t, e.RenderTarget(64, 32, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, e.Meshes([]*scene.Mesh{first, second}))
	require.NoError(t, e.Lights([]*scene.PointLight{scene.NewPointLight(), scene.NewPointLight()}))

	result := render(t, e, system)
	dispatch := result.dispatch

	require.Equal(t, 64, dispatch.Width)
	require.Equal(t, 32, dispatch.Height)
	require.Equal(t, 1, dispatch.Depth)

	require.Equal(t, native.ShaderIdentifierSize, dispatch.RayGenerationShaderRecord.SizeInBytes)
	require.Equal(t, native.ShaderIdentifierSize, dispatch.MissShaderTable.StrideInBytes)
	require.Equal(t, 2*native.ShaderIdentifierSize, dispatch.MissShaderTable.SizeInBytes)

	// identifier plus 32 bytes of local root arguments, two ray types per primitive
	require.Equal(t, 64, dispatch.HitGroupTable.StrideInBytes)
	require.Equal(t, 3*2*64, dispatch.HitGroupTable.SizeInBytes)

	for _, start := range []native.GPUVirtualAddress{
		dispatch.RayGenerationShaderRecord.StartAddress,
		dispatch.MissShaderTable.StartAddress,
		dispatch.HitGroupTable.StartAddress,
	} {
		require.Zero(t, start%native.ShaderTableAlignment)
	}

	pipelines := bindsOf(result, "SetPipelineState")
	require.Len(t, pipelines, 1)
	pipeline := pipelines[0].Value.(native.RaytracingPipeline)

	rayGen := bytesAt(t, device, dispatch.RayGenerationShaderRecord.StartAddress)
	require.Equal(t, pipeline.ShaderIdentifier(engine.RayGenShaderName), rayGen[:native.ShaderIdentifierSize])

	miss := bytesAt(t, device, dispatch.MissShaderTable.StartAddress)
	require.Equal(t, pipeline.ShaderIdentifier(engine.MissShaderNames[engine.RayTypeShadow]),
		miss[native.ShaderIdentifierSize:2*native.ShaderIdentifierSize])

	hitGroups := bytesAt(t, device, dispatch.HitGroupTable.StartAddress)
	for record := 0; record < 6; record++ {
		data := hitGroups[record*64:]
		name := engine.HitGroupNames[record%2]
		require.Equal(t, pipeline.ShaderIdentifier(name), data[:native.ShaderIdentifierSize], "record %d", record)

		// each mesh has one material, so primitives of the second mesh use material 1
		expectedMaterial := uint32(0)
		if record >= 4 {
			expectedMaterial = 1
		}
		require.Equal(t, expectedMaterial, binary.LittleEndian.Uint32(data[32:]), "record %d", record)
		require.NotZero(t, binary.LittleEndian.Uint64(data[48:]))
		require.NotZero(t, binary.LittleEndian.Uint64(data[56:]))
	}

	manager := e.AccelerationStructures()
	require.Equal(t, 3, manager.NumInstances())
	require.Equal(t, uint32(0), manager.Instance(0).InstanceContributionToHitGroupIndex)
	require.Equal(t, uint32(4), manager.Instance(1).InstanceContributionToHitGroupIndex)
	require.Equal(t, uint32(4), manager.Instance(2).InstanceContributionToHitGroupIndex)
	require.Equal(t, float32(1), manager.Instance(2).Transform[0][3])

	tlas := bindsOf(result, "SetComputeRootShaderResourceView")
	require.Len(t, tlas, 1)
	require.Equal(t, engine.SlotAccelerationStructure, tlas[0].Index)
	require.Equal(t, manager.TopLevelASBuffer().GPUVirtualAddress(), tlas[0].Value)

	e.Release()
}

func TestShaderTablesFollowMeshes(t *testing.T) {
	e, system, _ := newEngine(t, gpu.CreateOptions{})

	first := newQuadMesh(t, system, 2, 1)
	second := newQuadMesh(t, system, 1, 1)
	defer first.Release()
	defer second.Release()

	require.NoError(t, e.RenderTarget(16, 16, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, e.Meshes([]*scene.Mesh{first}))

	before := render(t, e, system).dispatch
	again := render(t, e, system).dispatch
	require.Equal(t, before.RayGenerationShaderRecord, again.RayGenerationShaderRecord)
	require.Equal(t, before.MissShaderTable, again.MissShaderTable)
	require.Equal(t, before.HitGroupTable, again.HitGroupTable)

	require.NoError(t, e.Meshes([]*scene.Mesh{second}))
	after := render(t, e, system).dispatch
	require.Equal(t, 2*64, after.HitGroupTable.SizeInBytes)
	require.NotEqual(t, before.HitGroupTable.StartAddress, after.HitGroupTable.StartAddress)

	e.Release()
}

func TestDescriptorTablesShareOneHeap(t *testing.T) {
	var options gpu.CreateOptions
	options.DescriptorPageSizes[native.DescriptorHeapTypeCbvSrvUav] = 16

	e, system, device := newEngine(t, options)

	// Leave a hole too small for the mesh table in the first heap
	filler, err := system.AllocCbvSrvUavDescBlock(12)
	require.NoError(t, err)

	mesh := newQuadMesh(t, system, 1, 1)
	defer mesh.Release()

	require.NoError(t, e.RenderTarget(4, 4, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, e.Meshes([]*scene.Mesh{mesh}))
	require.NoError(t, e.Lights(nil))

	result := render(t, e, system)

	heaps := bindsOf(result, "SetDescriptorHeaps")
	require.Len(t, heaps, 1)
	bound := heaps[0].Value.([]native.DescriptorHeap)
	require.Len(t, bound, 1)

	start := bound[0].GPUDescriptorHandleForHeapStart().Ptr
	end := start + uint64(bound[0].Desc().NumDescriptors*system.DescriptorSize(native.DescriptorHeapTypeCbvSrvUav))

	tables := bindsOf(result, "SetComputeRootDescriptorTable")
	require.Len(t, tables, 3)
	for _, table := range tables {
		handle := table.Value.(native.GPUDescriptorHandle)
		require.GreaterOrEqual(t, handle.Ptr, start, "slot %d", table.Index)
		require.Less(t, handle.Ptr, end, "slot %d", table.Index)
	}

	// The output table holds a UAV of the output texture
	for _, table := range tables {
		if table.Index != engine.SlotOutputView {
			continue
		}
		offset := table.Value.(native.GPUDescriptorHandle).Ptr - start
		cpuHandle := native.CPUDescriptorHandle{Ptr: bound[0].CPUDescriptorHandleForHeapStart().Ptr + offset}
		view, ok := device.ViewAt(cpuHandle)
		require.True(t, ok)
		require.Same(t, e.Output().Native(), view.Resource)
	}

	system.DeallocCbvSrvUavDescBlock(&filler)
	e.Release()
}

func TestTooManyDescriptorsForOneHeap(t *testing.T) {
	var options gpu.CreateOptions
	options.DescriptorPageSizes[native.DescriptorHeapTypeCbvSrvUav] = 16

	e, system, _ := newEngine(t, options)

	// 1 material buffer + 8*2 buffers + 5 textures does not fit next to the output and light tables
	mesh := newQuadMesh(t, system, 8, 1)
	defer mesh.Release()

	require.NoError(t, e.RenderTarget(4, 4, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, e.Meshes([]*scene.Mesh{mesh}))

	cmdList, err := system.CreateCommandList()
	require.NoError(t, err)
	require.Error(t, e.Render(cmdList))
	require.NoError(t, system.Execute(cmdList))

	e.Release()
}

func TestMeshesInstanceCapacity(t *testing.T) {
	e, system, _ := newEngine(t, gpu.CreateOptions{})

	mesh := newQuadMesh(t, system, 1, testOptions().MaxInstances+1)
	defer mesh.Release()

	require.Error(t, e.Meshes([]*scene.Mesh{mesh}))
	e.Release()
}

func TestRenderTargetRecreatesOnlyOnChange(t *testing.T) {
	e, _, device := newEngine(t, gpu.CreateOptions{})
	require.Nil(t, e.Output())

	require.NoError(t, e.RenderTarget(16, 16, gputypes.TextureFormatRGBA8Unorm))
	output := e.Output()
	require.NotNil(t, output)
	require.Equal(t, native.ResourceStateUnorderedAccess, output.State(0))

	require.NoError(t, e.RenderTarget(16, 16, gputypes.TextureFormatRGBA8Unorm))
	require.Same(t, output, e.Output())

	live := device.LiveResources()
	require.NoError(t, e.RenderTarget(32, 16, gputypes.TextureFormatRGBA8Unorm))
	require.Equal(t, 32, e.Output().Width(0))
	require.Equal(t, live, device.LiveResources())

	require.NoError(t, e.RenderTarget(0, 0, gputypes.TextureFormatRGBA8Unorm))
	require.Nil(t, e.Output())
	require.Equal(t, live-1, device.LiveResources())

	e.Release()
}

func TestSceneConstants(t *testing.T) {
	e, system, device := newEngine(t, gpu.CreateOptions{})

	mesh := newQuadMesh(t, system, 1, 1)
	defer mesh.Release()

	camera := scene.NewCamera()
	camera.Eye = scene.Vec3(0, 2, -5)
	e.Camera(camera)
	camera.Eye = scene.Vec3(100, 100, 100)

	require.NoError(t, e.RenderTarget(4, 4, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, e.Meshes([]*scene.Mesh{mesh}))

	result := render(t, e, system)

	constants := bindsOf(result, "SetComputeRootConstantBufferView")
	require.Len(t, constants, 1)
	require.Equal(t, engine.SlotSceneConstant, constants[0].Index)

	data := bytesAt(t, device, constants[0].Value.(native.GPUVirtualAddress))
	cameraPos := make([]float32, 4)
	for i := range cameraPos {
		cameraPos[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[64+4*i:]))
	}
	require.Equal(t, []float32{0, 2, -5, 1}, cameraPos)

	e.Release()
}

func TestReleaseDropsEveryReference(t *testing.T) {
	e, system, device := newEngine(t, gpu.CreateOptions{})
	baseline := device.LiveResources()

	mesh := newQuadMesh(t, system, 2, 1)
	require.NoError(t, e.RenderTarget(4, 4, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, e.Meshes([]*scene.Mesh{mesh}))
	render(t, e, system)

	// The engine still holds the mesh's buffers
	mesh.Release()
	require.Greater(t, device.LiveResources(), baseline)

	e.Release()
	require.Less(t, device.LiveResources(), baseline)
	require.NoError(t, system.Destroy())
}

func TestHandleDeviceLost(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var devices []*software.Device
	system, err := gpu.New(logger, nil, gpu.CreateOptions{
		DeviceFactory: func() (native.Device, error) {
			device := software.NewDevice()
			devices = append(devices, device)
			return device, nil
		},
	})
	require.NoError(t, err)

	e, err := engine.New(logger, system, testOptions())
	require.NoError(t, err)

	mesh := newQuadMesh(t, system, 1, 1)
	require.NoError(t, e.RenderTarget(8, 8, gputypes.TextureFormatRGBA8Unorm))
	require.NoError(t, e.Meshes([]*scene.Mesh{mesh}))
	render(t, e, system)

	devices[0].Lose(native.ResultDeviceRemoved)
	mesh.Release()

	require.NoError(t, e.HandleDeviceLost())
	require.Len(t, devices, 2)
	require.NotNil(t, e.Output())
	require.Equal(t, 8, e.Output().Width(0))

	mesh = newQuadMesh(t, system, 1, 1)
	defer mesh.Release()
	require.NoError(t, e.Meshes([]*scene.Mesh{mesh}))

	result := render(t, e, system)
	require.Equal(t, 8, result.dispatch.Width)
	require.Len(t, devices[1].Dispatches(), 1)
}
