package accel

import (
	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memutils"
)

// structure is the part of an acceleration structure shared by both levels: its result buffer,
// the flags it was sized with, and whether it needs to be (re)built.
type structure struct {
	buffer        *gpu.Buffer
	buildFlags    native.RaytracingAccelerationStructureBuildFlags
	prebuild      native.RaytracingAccelerationStructurePrebuildInfo
	allowUpdate   bool
	updateOnBuild bool

	built bool
	dirty bool
}

func newStructure(system *gpu.System, inputs native.BuildRaytracingAccelerationStructureInputs, allowUpdate, updateOnBuild bool, name string) (structure, error) {
	if allowUpdate {
		inputs.Flags |= native.BuildFlagAllowUpdate
	}

	prebuild := system.RaytracingAccelerationStructurePrebuildInfo(inputs)
	if prebuild.ResultDataMaxSizeInBytes <= 0 {
		panic(errors.Newf("device reported a result size of %d for %s %q", prebuild.ResultDataMaxSizeInBytes, inputs.Type, name).Error())
	}

	size := memutils.AlignUp(prebuild.ResultDataMaxSizeInBytes, native.RaytracingAccelerationStructureByteAlignment)
	buffer, err := system.CreateDefaultBuffer(size, native.ResourceFlagAllowUnorderedAccess,
		native.ResourceStateRaytracingAccelerationStructure, name)
	if err != nil {
		return structure{}, errors.Wrapf(err, "failed to create the buffer for %s %q", inputs.Type, name)
	}

	return structure{
		buffer:        buffer,
		buildFlags:    inputs.Flags,
		prebuild:      prebuild,
		allowUpdate:   allowUpdate,
		updateOnBuild: updateOnBuild,
		dirty:         true,
	}, nil
}

func (s *structure) Buffer() *gpu.Buffer {
	return s.buffer
}

func (s *structure) GPUVirtualAddress() native.GPUVirtualAddress {
	return s.buffer.GPUVirtualAddress()
}

func (s *structure) BuildFlags() native.RaytracingAccelerationStructureBuildFlags {
	return s.buildFlags
}

func (s *structure) PrebuildInfo() native.RaytracingAccelerationStructurePrebuildInfo {
	return s.prebuild
}

// RequiredScratchSize is the scratch space needed for either a full build or an update
func (s *structure) RequiredScratchSize() int {
	return max(s.prebuild.ScratchDataSizeInBytes, s.prebuild.UpdateScratchDataSizeInBytes)
}

func (s *structure) IsBuilt() bool {
	return s.built
}

func (s *structure) IsDirty() bool {
	return s.dirty
}

// performsUpdate reports whether the next build refits the existing structure in place
func (s *structure) performsUpdate() bool {
	return s.built && s.allowUpdate && s.updateOnBuild
}

func (s *structure) record(cmdList *gpu.CommandList, inputs native.BuildRaytracingAccelerationStructureInputs, scratch *gpu.Buffer) {
	inputs.Flags = s.buildFlags

	desc := native.BuildRaytracingAccelerationStructureDesc{
		DestAccelerationStructureData:    s.buffer.GPUVirtualAddress(),
		ScratchAccelerationStructureData: scratch.GPUVirtualAddress(),
	}
	if s.performsUpdate() {
		inputs.Flags |= native.BuildFlagPerformUpdate
		desc.SourceAccelerationStructureData = desc.DestAccelerationStructureData
	}
	desc.Inputs = inputs

	cmdList.BuildRaytracingAccelerationStructure(desc)
	// The buffer never leaves the acceleration structure state, so this is always a UAV barrier
	s.buffer.Transition(cmdList, native.ResourceStateRaytracingAccelerationStructure)

	s.dirty = false
	s.built = true
}

func (s *structure) release() {
	if s.buffer != nil {
		s.buffer.Release()
		s.buffer = nil
	}
	s.built = false
	s.dirty = true
}
