package engine

import (
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/accel"
	"github.com/goldensun/engine/descriptor"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memory"
	"github.com/goldensun/engine/scene"
)

// instanceMaskAll makes an instance visible to every ray
const instanceMaskAll = 0xFF

type meshBuffer struct {
	buffer      *gpu.Buffer
	numElements int
	stride      int
}

// Engine renders a scene of meshes and point lights by dispatching rays into its output texture.
// Meshes, Lights, Camera, and RenderTarget may be called between frames; Render records the frame
// into a caller-provided command list.
type Engine struct {
	logger  *slog.Logger
	system  *gpu.System
	options Options

	globalRootSignature native.RootSignature
	localRootSignature  native.RootSignature
	pipeline            native.RaytracingPipeline

	defaultTextures [scene.TextureSlotCount]*gpu.Texture2D
	sceneConstants  *gpu.ConstantBuffer[sceneConstants]
	accel           *accel.Manager

	width       int
	height      int
	format      gputypes.TextureFormat
	aspectRatio float32
	output      *gpu.Texture2D

	camera *scene.Camera

	// two entries per primitive: vertex buffer then index buffer
	primitiveBuffers   []meshBuffer
	primitiveMaterials []int
	materialTextures   []*gpu.Texture2D
	numMaterials       int
	materialBlock      memory.Block

	numLights  int
	lightBlock memory.Block

	outputDescBlock descriptor.Block
	meshDescBlock   descriptor.Block
	lightDescBlock  descriptor.Block
	outputDescDirty bool
	meshDescDirty   bool
	lightDescDirty  bool

	rayGenTable   shaderTable
	missTable     shaderTable
	hitGroupTable shaderTable
}

// RenderTarget sets the size and format of the output. The output texture is recreated only when
// one of them changes, and a zero size releases it.
func (e *Engine) RenderTarget(width, height int, format gputypes.TextureFormat) error {
	if width == e.width && height == e.height && format == e.format {
		return nil
	}

	e.logger.Debug("Engine::RenderTarget", slog.Int("width", width), slog.Int("height", height), slog.String("format", fmt.Sprint(format)))

	e.width = width
	e.height = height
	e.format = format

	e.releaseSizeDependentResources()
	if width > 0 && height > 0 {
		e.aspectRatio = float32(width) / float32(height)
		return e.createSizeDependentResources()
	}
	return nil
}

func (e *Engine) createSizeDependentResources() error {
	output, err := e.system.CreateTexture2D(e.width, e.height, 1, e.format, native.ResourceFlagAllowUnorderedAccess,
		native.ResourceStateUnorderedAccess, "GoldenSun Output")
	if err != nil {
		return errors.Wrapf(err, "failed to create a %dx%d output", e.width, e.height)
	}

	e.output = output
	e.outputDescDirty = true
	return nil
}

func (e *Engine) releaseSizeDependentResources() {
	if e.output != nil {
		e.output.Release()
		e.output = nil
	}
	e.outputDescDirty = true
}

// Meshes replaces the scene geometry. Every mesh gets one bottom-level structure, and its
// primitives occupy RayTypeCount consecutive hit group records starting after the previous mesh's.
// The engine keeps its own references to the buffers and textures the meshes use.
func (e *Engine) Meshes(meshes []*scene.Mesh) error {
	e.logger.Debug("Engine::Meshes", slog.Int("numMeshes", len(meshes)))

	numPrimitives := 0
	numMaterials := 0
	numInstances := 0
	for i, mesh := range meshes {
		if mesh.NumPrimitives() == 0 {
			return errors.Newf("mesh %d has no primitives", i)
		}
		numPrimitives += mesh.NumPrimitives()
		numMaterials += mesh.NumMaterials()
		numInstances += mesh.NumInstances()
	}
	if numInstances > e.accel.MaxInstances() {
		return errors.Newf("meshes have %d instances but the engine holds at most %d", numInstances, e.accel.MaxInstances())
	}

	e.releaseMeshResources()

	err := e.system.ReallocUploadMemBlock(&e.materialBlock, max(numMaterials, 1)*scene.MaterialBufferSize, scene.MaterialBufferSize)
	if err != nil {
		return errors.Wrap(err, "failed to allocate the material buffer")
	}
	materialData := e.materialBlock.CPUAddress()
	clear(materialData)

	e.primitiveBuffers = make([]meshBuffer, 0, numPrimitives*2)
	e.primitiveMaterials = make([]int, 0, numPrimitives)
	e.materialTextures = make([]*gpu.Texture2D, 0, numMaterials*int(scene.TextureSlotCount))
	e.numMaterials = numMaterials

	materialStart := 0
	shaderRecordOffset := 0
	for i, mesh := range meshes {
		for j := 0; j < mesh.NumPrimitives(); j++ {
			e.primitiveBuffers = append(e.primitiveBuffers,
				meshBuffer{buffer: mesh.VertexBuffer(j).Share(), numElements: mesh.NumVertices(j), stride: mesh.VertexStride()},
				meshBuffer{buffer: mesh.IndexBuffer(j).Share(), numElements: mesh.NumIndices(j), stride: mesh.IndexStride()})
			e.primitiveMaterials = append(e.primitiveMaterials, materialStart+mesh.MaterialID(j))
		}

		handle, err := e.accel.AddBottomLevelAS(mesh, accel.BottomLevelOptions{
			BuildFlags:                          native.BuildFlagPreferFastTrace,
			InstanceContributionToHitGroupIndex: uint32(shaderRecordOffset),
			Name:                                fmt.Sprintf("Bottom-Level AS %d", i),
		})
		if err != nil {
			return errors.Wrapf(err, "failed to create the acceleration structure of mesh %d", i)
		}
		shaderRecordOffset += mesh.NumPrimitives() * int(RayTypeCount)

		for j := 0; j < mesh.NumMaterials(); j++ {
			material := mesh.Material(j)
			scene.MaterialEncoder{}.Encode(materialData[(materialStart+j)*scene.MaterialBufferSize:], material)

			for slot := scene.TextureSlot(0); slot < scene.TextureSlotCount; slot++ {
				texture := material.Texture(slot)
				if texture.IsEmpty() {
					texture = e.defaultTextures[slot]
				}
				e.materialTextures = append(e.materialTextures, texture.Share())
			}
		}
		materialStart += mesh.NumMaterials()

		for j := 0; j < mesh.NumInstances(); j++ {
			e.accel.AddBottomLevelASInstance(handle, mesh.Transform(j).To3x4(), instanceMaskAll)
		}
	}

	err = e.accel.AssignTopLevelAS(native.BuildFlagPreferFastTrace, false, false, "Top-Level Acceleration Structure")
	if err != nil {
		return err
	}

	e.meshDescDirty = true
	return nil
}

func (e *Engine) releaseMeshResources() {
	for _, mb := range e.primitiveBuffers {
		mb.buffer.Release()
	}
	e.primitiveBuffers = nil
	e.primitiveMaterials = nil

	for _, texture := range e.materialTextures {
		texture.Release()
	}
	e.materialTextures = nil
	e.numMaterials = 0

	if e.accel != nil {
		e.accel.Clear()
	}
}

// Lights replaces the scene's point lights
func (e *Engine) Lights(lights []*scene.PointLight) error {
	e.logger.Debug("Engine::Lights", slog.Int("numLights", len(lights)))

	err := e.system.ReallocUploadMemBlock(&e.lightBlock, max(len(lights), 1)*scene.LightBufferSize, scene.LightBufferSize)
	if err != nil {
		return errors.Wrap(err, "failed to allocate the light buffer")
	}

	lightData := e.lightBlock.CPUAddress()
	clear(lightData)
	for i, light := range lights {
		scene.LightEncoder{}.Encode(lightData[i*scene.LightBufferSize:], light)
	}

	e.numLights = len(lights)
	e.lightDescDirty = true
	return nil
}

// Camera sets the camera the next Render uses. The engine keeps a copy.
func (e *Engine) Camera(camera *scene.Camera) {
	e.camera = camera.Clone()
}

// Output is the texture Render writes into, or nil before RenderTarget
func (e *Engine) Output() *gpu.Texture2D {
	return e.output
}

func (e *Engine) NumLights() int {
	return e.numLights
}

func (e *Engine) AccelerationStructures() *accel.Manager {
	return e.accel
}

// Render records the frame into cmdList: acceleration structure builds, descriptor and shader
// table updates, root bindings, and the ray dispatch
func (e *Engine) Render(cmdList *gpu.CommandList) error {
	frameIndex := e.system.FrameIndex()
	e.logger.Debug("Engine::Render", slog.Int("frameIndex", frameIndex))

	if e.output == nil {
		return errors.New("attempted to render before a render target was set")
	}
	if e.accel.TopLevelAS() == nil {
		return errors.New("attempted to render before meshes were set")
	}

	err := e.accel.Build(cmdList, frameIndex, false)
	if err != nil {
		return err
	}
	err = e.buildDescriptorHeap()
	if err != nil {
		return err
	}

	cmdList.SetComputeRootSignature(e.globalRootSignature)

	invViewProj, ok := e.camera.InverseViewProjection(e.aspectRatio)
	if !ok {
		return errors.New("the camera's view projection is not invertible")
	}
	constants := e.sceneConstants.Staging()
	constants.InvViewProj = invViewProj.Transpose()
	constants.CameraPos = [4]float32{e.camera.Eye.X, e.camera.Eye.Y, e.camera.Eye.Z, 1}
	e.sceneConstants.UploadToGPU(frameIndex)
	cmdList.SetComputeRootConstantBufferView(SlotSceneConstant, e.sceneConstants.GPUVirtualAddress(frameIndex))

	cmdList.SetDescriptorHeaps(e.outputDescBlock.Heap())
	cmdList.SetComputeRootDescriptorTable(SlotOutputView, e.outputDescBlock.GPUHandle())
	cmdList.SetComputeRootShaderResourceView(SlotAccelerationStructure, e.accel.TopLevelASBuffer().GPUVirtualAddress())
	cmdList.SetComputeRootDescriptorTable(SlotMaterialBuffer, e.meshDescBlock.GPUHandle())
	cmdList.SetComputeRootDescriptorTable(SlotLightBuffer, e.lightDescBlock.GPUHandle())

	cmdList.SetPipelineState(e.pipeline)
	cmdList.DispatchRays(native.DispatchRaysDesc{
		RayGenerationShaderRecord: e.rayGenTable.addressRange(),
		MissShaderTable:           e.missTable.addressRangeAndStride(),
		HitGroupTable:             e.hitGroupTable.addressRangeAndStride(),
		Width:                     e.width,
		Height:                    e.height,
		Depth:                     1,
	})

	return nil
}

// buildDescriptorHeap rewrites the descriptors and shader tables that changed since the last
// frame. The output, mesh, and light tables must live in one heap because a frame binds a single
// CBV/SRV/UAV heap, so all three are reallocated until they land together.
func (e *Engine) buildDescriptorHeap() error {
	numPrimitives := len(e.primitiveMaterials)
	meshDescriptors := 1 + numPrimitives*2 + e.numMaterials*int(scene.TextureSlotCount)

	pageSize := e.system.DescriptorAllocator(native.DescriptorHeapTypeCbvSrvUav).PageSize()
	if 1+meshDescriptors+1 > pageSize {
		return errors.Newf("the scene needs %d descriptors but a descriptor heap holds %d", meshDescriptors+2, pageSize)
	}

	for {
		if e.outputDescDirty {
			err := e.system.ReallocCbvSrvUavDescBlock(&e.outputDescBlock, 1)
			if err != nil {
				return err
			}
		}
		if e.meshDescDirty {
			err := e.system.ReallocCbvSrvUavDescBlock(&e.meshDescBlock, meshDescriptors)
			if err != nil {
				return err
			}
		}
		if e.lightDescDirty {
			err := e.system.ReallocCbvSrvUavDescBlock(&e.lightDescBlock, 1)
			if err != nil {
				return err
			}
		}

		heap := e.outputDescBlock.Heap()
		if heap == e.meshDescBlock.Heap() && heap == e.lightDescBlock.Heap() {
			break
		}
		e.outputDescDirty = true
		e.meshDescDirty = true
		e.lightDescDirty = true
	}

	if e.outputDescDirty {
		e.system.CreateTextureUnorderedAccessView(e.output, gputypes.TextureFormatUndefined, 0, e.outputDescBlock.CPUHandle())
		e.outputDescDirty = false
	}

	if e.meshDescDirty {
		err := e.writeMeshDescriptors()
		if err != nil {
			return err
		}
		e.meshDescDirty = false
	}

	if e.lightDescDirty {
		e.system.CreateMemBlockShaderResourceView(e.lightBlock, scene.LightBufferSize, e.lightDescBlock.CPUHandle())
		e.lightDescDirty = false
	}

	return nil
}

// writeMeshDescriptors lays out the mesh table as the material buffer, a vertex/index pair per
// primitive, and TextureSlotCount textures per material, then rebuilds the shader tables that
// point into it
func (e *Engine) writeMeshDescriptors() error {
	block := e.meshDescBlock
	slot := 0

	e.system.CreateMemBlockShaderResourceView(e.materialBlock, scene.MaterialBufferSize, block.CPUHandleAt(slot))
	slot++

	numPrimitives := len(e.primitiveMaterials)
	bufferHandles := make([]native.GPUDescriptorHandle, numPrimitives)
	for i := 0; i < numPrimitives; i++ {
		vb := e.primitiveBuffers[i*2]
		e.system.CreateBufferShaderResourceView(vb.buffer, 0, vb.numElements, vb.stride, block.CPUHandleAt(slot))
		bufferHandles[i] = block.GPUHandleAt(slot)

		// Index buffers are read as raw 32-bit words
		ib := e.primitiveBuffers[i*2+1]
		e.system.CreateBufferShaderResourceView(ib.buffer, 0, ib.numElements*ib.stride/4, 0, block.CPUHandleAt(slot+1))

		slot += 2
	}

	textureHandles := make([]native.GPUDescriptorHandle, e.numMaterials)
	for i := 0; i < e.numMaterials; i++ {
		for j := 0; j < int(scene.TextureSlotCount); j++ {
			texture := e.materialTextures[i*int(scene.TextureSlotCount)+j]
			e.system.CreateTextureShaderResourceView(texture, gputypes.TextureFormatUndefined, block.CPUHandleAt(slot+j))
		}
		textureHandles[i] = block.GPUHandleAt(slot)
		slot += int(scene.TextureSlotCount)
	}

	return e.writeShaderTables(bufferHandles, textureHandles)
}

func (e *Engine) writeShaderTables(bufferHandles, textureHandles []native.GPUDescriptorHandle) error {
	identifier := func(name string) ([]byte, error) {
		id := e.pipeline.ShaderIdentifier(name)
		if id == nil {
			return nil, errors.Newf("the shader library does not export %q", name)
		}
		return id, nil
	}

	rayGen, err := identifier(RayGenShaderName)
	if err != nil {
		return err
	}
	err = e.rayGenTable.realloc(e.system, 1, native.ShaderIdentifierSize)
	if err != nil {
		return errors.Wrap(err, "failed to allocate the ray generation shader table")
	}
	e.rayGenTable.write(0, rayGen, nil)

	err = e.missTable.realloc(e.system, int(RayTypeCount), native.ShaderIdentifierSize)
	if err != nil {
		return errors.Wrap(err, "failed to allocate the miss shader table")
	}
	for rayType, name := range MissShaderNames {
		miss, err := identifier(name)
		if err != nil {
			return err
		}
		e.missTable.write(rayType, miss, nil)
	}

	var hitGroups [RayTypeCount][]byte
	for rayType, name := range HitGroupNames {
		hitGroups[rayType], err = identifier(name)
		if err != nil {
			return err
		}
	}

	numPrimitives := len(e.primitiveMaterials)
	err = e.hitGroupTable.realloc(e.system, numPrimitives*int(RayTypeCount), native.ShaderIdentifierSize+localRootArgumentsSize)
	if err != nil {
		return errors.Wrap(err, "failed to allocate the hit group shader table")
	}
	for i, materialID := range e.primitiveMaterials {
		arguments := encodeLocalRootArguments(materialID, bufferHandles[i], textureHandles[materialID])
		for rayType, hitGroup := range hitGroups {
			e.hitGroupTable.write(i*int(RayTypeCount)+rayType, hitGroup, arguments)
		}
	}

	return nil
}

func (e *Engine) releaseDescriptors() {
	e.system.DeallocCbvSrvUavDescBlock(&e.outputDescBlock)
	e.system.DeallocCbvSrvUavDescBlock(&e.meshDescBlock)
	e.system.DeallocCbvSrvUavDescBlock(&e.lightDescBlock)

	e.rayGenTable.release(e.system)
	e.missTable.release(e.system)
	e.hitGroupTable.release(e.system)

	e.system.DeallocUploadMemBlock(&e.materialBlock)
	e.system.DeallocUploadMemBlock(&e.lightBlock)
}

func (e *Engine) releaseDeviceObjects() {
	e.releaseSizeDependentResources()
	e.releaseMeshResources()

	if e.accel != nil {
		e.accel.Release()
		e.accel = nil
	}
	for slot, texture := range e.defaultTextures {
		if texture != nil {
			texture.Release()
			e.defaultTextures[slot] = nil
		}
	}
	if e.sceneConstants != nil {
		e.sceneConstants.Release()
		e.sceneConstants = nil
	}
	if e.pipeline != nil {
		e.pipeline.Release()
		e.pipeline = nil
	}
	if e.localRootSignature != nil {
		e.localRootSignature.Release()
		e.localRootSignature = nil
	}
	if e.globalRootSignature != nil {
		e.globalRootSignature.Release()
		e.globalRootSignature = nil
	}
}

// HandleDeviceLost drops every device object, lets the System recover, and recreates the
// engine's own objects on the new device. The scene is cleared: Meshes and Lights must be called
// again with buffers created on the new device.
func (e *Engine) HandleDeviceLost() error {
	e.logger.Debug("Engine::HandleDeviceLost")

	e.releaseDeviceObjects()

	// The allocators are cleared with the device, so the blocks are forgotten rather than freed
	e.outputDescBlock.Reset()
	e.meshDescBlock.Reset()
	e.lightDescBlock.Reset()
	e.rayGenTable.block.Reset()
	e.missTable.block.Reset()
	e.hitGroupTable.block.Reset()
	e.materialBlock.Reset()
	e.lightBlock.Reset()
	e.numLights = 0

	err := e.system.HandleDeviceLost()
	if err != nil {
		return err
	}
	if e.system.NativeDevice() == nil {
		return errors.New("the gpu system has no device factory to recover with")
	}

	return e.createDeviceObjects()
}

// Release frees every resource the engine owns. The System is left running.
func (e *Engine) Release() {
	e.logger.Debug("Engine::Release")

	e.releaseDeviceObjects()
	e.releaseDescriptors()
}
