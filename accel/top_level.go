package accel

import (
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
)

// TopLevelAS places bottom-level instances in the scene. It is sized for a fixed number of
// instances when it is created.
type TopLevelAS struct {
	structure

	numInstances int
}

func newTopLevelAS(system *gpu.System, numInstances int, flags native.RaytracingAccelerationStructureBuildFlags, allowUpdate, updateOnBuild bool, name string) (*TopLevelAS, error) {
	base, err := newStructure(system, native.BuildRaytracingAccelerationStructureInputs{
		Type:     native.AccelerationStructureTypeTopLevel,
		Flags:    flags,
		NumDescs: numInstances,
	}, allowUpdate, updateOnBuild, name)
	if err != nil {
		return nil, err
	}

	return &TopLevelAS{
		structure:    base,
		numInstances: numInstances,
	}, nil
}

// NumInstances is the instance count the structure was sized for
func (t *TopLevelAS) NumInstances() int {
	return t.numInstances
}

func (t *TopLevelAS) build(cmdList *gpu.CommandList, numInstances int, instanceDescs native.GPUVirtualAddress, scratch *gpu.Buffer) {
	t.record(cmdList, native.BuildRaytracingAccelerationStructureInputs{
		Type:          native.AccelerationStructureTypeTopLevel,
		NumDescs:      numInstances,
		InstanceDescs: instanceDescs,
	}, scratch)
}
