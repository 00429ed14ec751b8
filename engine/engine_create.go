package engine

import (
	"encoding/binary"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/accel"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/scene"
)

// Options contains the compiled shader objects and capacities an Engine is created with
type Options struct {
	// ShaderLibrary is the compiled library defining RayGenShaderName, ClosestHitShaderName,
	// AnyHitShaderName, and MissShaderNames
	ShaderLibrary []byte
	// GlobalRootSignature and LocalRootSignature are serialized root signatures laid out as the
	// Slot* constants and the hit group local arguments describe
	GlobalRootSignature []byte
	LocalRootSignature  []byte

	// MaxInstances is the number of mesh instances the scene can hold. 0 selects
	// accel.DefaultMaxInstances.
	MaxInstances int
}

// New creates an Engine that renders through system. The system must outlive the Engine.
func New(logger *slog.Logger, system *gpu.System, options Options) (*Engine, error) {
	if logger == nil {
		return nil, errors.New("attempted to create an engine without a logger")
	}
	if system == nil {
		return nil, errors.New("attempted to create an engine without a gpu system")
	}
	if len(options.ShaderLibrary) == 0 {
		return nil, errors.New("attempted to create an engine without a shader library")
	}

	engine := &Engine{
		logger:  logger,
		system:  system,
		options: options,
		camera:  scene.NewCamera(),
	}

	err := engine.createDeviceObjects()
	if err != nil {
		engine.Release()
		return nil, err
	}

	return engine, nil
}

// createDeviceObjects creates everything that lives on the device independently of the scene
func (e *Engine) createDeviceObjects() error {
	var err error
	e.globalRootSignature, err = e.system.CreateRootSignature(e.options.GlobalRootSignature)
	if err != nil {
		return errors.Wrap(err, "failed to create the global root signature")
	}
	e.localRootSignature, err = e.system.CreateRootSignature(e.options.LocalRootSignature)
	if err != nil {
		return errors.Wrap(err, "failed to create the local root signature")
	}

	e.pipeline, err = e.system.CreateRaytracingPipeline(e.pipelineDesc())
	if err != nil {
		return err
	}

	e.sceneConstants, err = gpu.NewConstantBuffer[sceneConstants](e.system, sceneConstantsEncoder{}, gpu.FrameCount, "Per Frame Constants")
	if err != nil {
		return err
	}

	e.accel, err = accel.New(e.logger, e.system, accel.CreateOptions{MaxInstances: e.options.MaxInstances})
	if err != nil {
		return err
	}

	err = e.createDefaultTextures()
	if err != nil {
		return err
	}

	// Empty blocks still need storage so their views can be written before any scene is set
	err = e.system.ReallocUploadMemBlock(&e.materialBlock, scene.MaterialBufferSize, scene.MaterialBufferSize)
	if err != nil {
		return err
	}
	err = e.system.ReallocUploadMemBlock(&e.lightBlock, scene.LightBufferSize, scene.LightBufferSize)
	if err != nil {
		return err
	}
	clear(e.materialBlock.CPUAddress())
	clear(e.lightBlock.CPUAddress())

	e.outputDescDirty = true
	e.meshDescDirty = true
	e.lightDescDirty = true

	if e.width > 0 && e.height > 0 {
		return e.createSizeDependentResources()
	}
	return nil
}

func (e *Engine) pipelineDesc() native.RaytracingPipelineDesc {
	exports := []string{RayGenShaderName, AnyHitShaderName, ClosestHitShaderName}
	exports = append(exports, MissShaderNames[:]...)

	hitGroups := make([]native.HitGroupDesc, 0, RayTypeCount)
	for rayType := RayType(0); rayType < RayTypeCount; rayType++ {
		hitGroup := native.HitGroupDesc{
			Name:   HitGroupNames[rayType],
			AnyHit: AnyHitShaderName,
		}
		if rayType == RayTypeRadiance {
			hitGroup.ClosestHit = ClosestHitShaderName
		}
		hitGroups = append(hitGroups, hitGroup)
	}

	return native.RaytracingPipelineDesc{
		Library:             e.options.ShaderLibrary,
		Exports:             exports,
		HitGroups:           hitGroups,
		GlobalRootSignature: e.globalRootSignature,
		LocalRootSignature:  e.localRootSignature,
		LocalRootExports:    HitGroupNames[:],
		MaxPayloadSize:      maxPayloadSize,
		MaxAttributeSize:    maxAttributeSize,
		MaxRecursionDepth:   MaxRayRecursionDepth,
	}
}

func (e *Engine) createDefaultTextures() error {
	cmdList, err := e.system.CreateCommandList()
	if err != nil {
		return err
	}

	for slot := scene.TextureSlot(0); slot < scene.TextureSlotCount; slot++ {
		texture, err := e.system.CreateTexture2D(1, 1, 1, gputypes.TextureFormatRGBA8Unorm, native.ResourceFlagAllowUnorderedAccess,
			native.ResourceStateGenericRead, "Default "+slot.String()+" Texture")
		if err != nil {
			return errors.CombineErrors(err, e.system.Discard(cmdList))
		}
		e.defaultTextures[slot] = texture

		var texel [4]byte
		binary.LittleEndian.PutUint32(texel[:], defaultTextureColors[slot])
		err = texture.Upload(e.system, cmdList, 0, texel[:])
		if err != nil {
			return errors.CombineErrors(errors.Wrapf(err, "failed to upload the default %s texture", slot), e.system.Discard(cmdList))
		}
	}

	return e.system.Execute(cmdList)
}
