package accel

import (
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"golang.org/x/exp/slices"
)

// GeometrySource supplies the triangle geometry of one bottom-level structure
type GeometrySource interface {
	GeometryDescs() []native.RaytracingGeometryDesc
}

// BottomLevelOptions controls how a bottom-level structure is built
type BottomLevelOptions struct {
	BuildFlags native.RaytracingAccelerationStructureBuildFlags
	// AllowUpdate adds BuildFlagAllowUpdate so the structure can later be refit
	AllowUpdate bool
	// PerformUpdateOnBuild refits instead of rebuilding once the structure has been built and
	// AllowUpdate is set
	PerformUpdateOnBuild bool
	// InstanceContributionToHitGroupIndex is the hit group offset used by instances that do not
	// provide their own
	InstanceContributionToHitGroupIndex uint32
	Name                                string
}

// BottomLevelAS holds the geometry of one mesh
type BottomLevelAS struct {
	structure

	geometryDescs []native.RaytracingGeometryDesc
	// The native build reads the geometry array when the command list executes, so every frame in
	// flight keeps its own copy.
	cachedDescs   [gpu.FrameCount][]native.RaytracingGeometryDesc
	hitGroupIndex uint32
}

func newBottomLevelAS(system *gpu.System, source GeometrySource, options BottomLevelOptions) (*BottomLevelAS, error) {
	geometryDescs := slices.Clone(source.GeometryDescs())

	base, err := newStructure(system, native.BuildRaytracingAccelerationStructureInputs{
		Type:          native.AccelerationStructureTypeBottomLevel,
		Flags:         options.BuildFlags,
		NumDescs:      len(geometryDescs),
		GeometryDescs: geometryDescs,
	}, options.AllowUpdate, options.PerformUpdateOnBuild, options.Name)
	if err != nil {
		return nil, err
	}

	return &BottomLevelAS{
		structure:     base,
		geometryDescs: geometryDescs,
		hitGroupIndex: options.InstanceContributionToHitGroupIndex,
	}, nil
}

func (b *BottomLevelAS) GeometryDescs() []native.RaytracingGeometryDesc {
	return b.geometryDescs
}

func (b *BottomLevelAS) InstanceContributionToHitGroupIndex() uint32 {
	return b.hitGroupIndex
}

// MarkDirty schedules the structure for a rebuild on the next Manager.Build
func (b *BottomLevelAS) MarkDirty() {
	b.dirty = true
}

// UpdateGeometryTransforms points geometry i at the 3x4 transform stored at base + i*48 and
// schedules a rebuild
func (b *BottomLevelAS) UpdateGeometryTransforms(base native.GPUVirtualAddress) {
	for i := range b.geometryDescs {
		b.geometryDescs[i].Triangles.Transform3x4 = base + native.GPUVirtualAddress(i*native.TransformByteSize)
	}
	b.dirty = true
}

func (b *BottomLevelAS) build(cmdList *gpu.CommandList, scratch *gpu.Buffer, frameIndex int) {
	cached := append(b.cachedDescs[frameIndex][:0], b.geometryDescs...)
	b.cachedDescs[frameIndex] = cached

	b.record(cmdList, native.BuildRaytracingAccelerationStructureInputs{
		Type:          native.AccelerationStructureTypeBottomLevel,
		NumDescs:      len(cached),
		GeometryDescs: cached,
	}, scratch)
}

func (b *BottomLevelAS) release() {
	b.structure.release()
	for i := range b.cachedDescs {
		b.cachedDescs[i] = nil
	}
}
