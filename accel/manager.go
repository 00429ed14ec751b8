package accel

import (
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
)

// Manager owns the bottom-level structures of a scene, the instances that place them, and the
// top-level structure built over those instances. All builds share one scratch buffer that grows
// to the largest requirement seen.
type Manager struct {
	logger  *slog.Logger
	system  *gpu.System
	options CreateOptions

	bottomLevel  []*BottomLevelAS
	instances    *gpu.StructuredBuffer[native.RaytracingInstanceDesc]
	numInstances int

	topLevel *TopLevelAS

	scratch     *gpu.Buffer
	scratchSize int
}

// AddBottomLevelAS creates a bottom-level structure for source and returns its handle. The
// structure is built by the next call to Build.
func (m *Manager) AddBottomLevelAS(source GeometrySource, options BottomLevelOptions) (int, error) {
	m.logger.Debug("Manager::AddBottomLevelAS", slog.String("name", options.Name), slog.String("flags", options.BuildFlags.String()))

	blas, err := newBottomLevelAS(m.system, source, options)
	if err != nil {
		return -1, err
	}

	handle := len(m.bottomLevel)
	m.bottomLevel = append(m.bottomLevel, blas)
	m.scratchSize = max(m.scratchSize, blas.RequiredScratchSize())

	return handle, nil
}

// AddBottomLevelASInstance adds an instance of the structure at handle, using the structure's hit
// group index, and returns the instance index
func (m *Manager) AddBottomLevelASInstance(handle int, transform [3][4]float32, mask uint8) int {
	return m.AddBottomLevelASInstanceWithHitGroup(handle, transform, mask, UseBLASHitGroupIndex)
}

// AddBottomLevelASInstanceWithHitGroup adds an instance with its own hit group index. Passing
// UseBLASHitGroupIndex falls back to the structure's index.
func (m *Manager) AddBottomLevelASInstanceWithHitGroup(handle int, transform [3][4]float32, mask uint8, hitGroupIndex uint32) int {
	if m.numInstances >= m.instances.NumElements() {
		panic(fmt.Sprintf("attempted to add instance %d but the manager holds at most %d", m.numInstances+1, m.instances.NumElements()))
	}

	blas := m.BottomLevelAS(handle)
	if hitGroupIndex == UseBLASHitGroupIndex {
		hitGroupIndex = blas.InstanceContributionToHitGroupIndex()
	}

	index := m.numInstances
	m.numInstances++

	m.instances.Staging()[index] = native.RaytracingInstanceDesc{
		Transform:                           transform,
		InstanceID:                          uint32(index),
		InstanceMask:                        mask,
		InstanceContributionToHitGroupIndex: hitGroupIndex,
		AccelerationStructure:               blas.GPUVirtualAddress(),
	}

	return index
}

// ResetInstances starts a new instance list. The top-level structure keeps the size it was
// assigned with.
func (m *Manager) ResetInstances() {
	m.numInstances = 0
}

// AssignTopLevelAS replaces the top-level structure with one sized for the current instances and
// grows the scratch buffer if any structure now needs more space
func (m *Manager) AssignTopLevelAS(flags native.RaytracingAccelerationStructureBuildFlags, allowUpdate, updateOnBuild bool, name string) error {
	m.logger.Debug("Manager::AssignTopLevelAS", slog.Int("numInstances", m.numInstances), slog.String("flags", flags.String()))

	topLevel, err := newTopLevelAS(m.system, m.numInstances, flags, allowUpdate, updateOnBuild, name)
	if err != nil {
		return err
	}
	if m.topLevel != nil {
		m.topLevel.release()
	}
	m.topLevel = topLevel

	m.scratchSize = max(m.scratchSize, topLevel.RequiredScratchSize())
	return m.ensureScratch()
}

func (m *Manager) ensureScratch() error {
	if m.scratch != nil && m.scratch.Size() >= m.scratchSize {
		return nil
	}

	scratch, err := m.system.CreateDefaultBuffer(m.scratchSize, native.ResourceFlagAllowUnorderedAccess,
		native.ResourceStateUnorderedAccess, m.options.ScratchName)
	if err != nil {
		return errors.Wrapf(err, "failed to create a scratch buffer of %d bytes", m.scratchSize)
	}

	if m.scratch != nil {
		m.scratch.Release()
	}
	m.scratch = scratch
	return nil
}

// Build uploads frameIndex's instances, builds every dirty bottom-level structure (or all of them
// when forceBuild is set), and then builds the top-level structure
func (m *Manager) Build(cmdList *gpu.CommandList, frameIndex int, forceBuild bool) error {
	m.logger.Debug("Manager::Build", slog.Int("frameIndex", frameIndex), slog.Bool("forceBuild", forceBuild))

	if m.topLevel == nil {
		return errors.New("attempted to build acceleration structures before a top-level structure was assigned")
	}
	if m.numInstances > m.topLevel.NumInstances() {
		return errors.Newf("%d instances were added but the top-level structure was sized for %d", m.numInstances, m.topLevel.NumInstances())
	}
	if m.scratch.Size() < m.scratchSize {
		return errors.Newf("acceleration structures need %d bytes of scratch but only %d are allocated", m.scratchSize, m.scratch.Size())
	}

	m.instances.UploadToGPU(frameIndex, m.numInstances)

	for _, blas := range m.bottomLevel {
		if forceBuild || blas.IsDirty() {
			blas.build(cmdList, m.scratch, frameIndex)
		}
	}

	m.topLevel.build(cmdList, m.numInstances, m.instances.GPUVirtualAddress(frameIndex), m.scratch)
	return nil
}

// MarkDirty schedules the structure at handle for a rebuild
func (m *Manager) MarkDirty(handle int) {
	m.BottomLevelAS(handle).MarkDirty()
}

// UpdateGeometryTransforms points the geometry of the structure at handle at per-geometry 3x4
// transforms starting at base
func (m *Manager) UpdateGeometryTransforms(handle int, base native.GPUVirtualAddress) {
	m.BottomLevelAS(handle).UpdateGeometryTransforms(base)
}

func (m *Manager) NumBottomLevelAS() int {
	return len(m.bottomLevel)
}

func (m *Manager) BottomLevelAS(handle int) *BottomLevelAS {
	if handle < 0 || handle >= len(m.bottomLevel) {
		panic(fmt.Sprintf("bottom-level acceleration structure handle %d out of range [0, %d)", handle, len(m.bottomLevel)))
	}
	return m.bottomLevel[handle]
}

func (m *Manager) TopLevelAS() *TopLevelAS {
	return m.topLevel
}

// TopLevelASBuffer is the buffer bound to shaders as the scene, or nil before AssignTopLevelAS
func (m *Manager) TopLevelASBuffer() *gpu.Buffer {
	if m.topLevel == nil {
		return nil
	}
	return m.topLevel.Buffer()
}

func (m *Manager) NumInstances() int {
	return m.numInstances
}

func (m *Manager) MaxInstances() int {
	return m.instances.NumElements()
}

// Instance returns the staged description of instance index
func (m *Manager) Instance(index int) native.RaytracingInstanceDesc {
	if index < 0 || index >= m.numInstances {
		panic(fmt.Sprintf("instance %d out of range [0, %d)", index, m.numInstances))
	}
	return m.instances.Staging()[index]
}

// MaxInstanceContributionToHitGroupIndex is the largest hit group offset of any current instance
func (m *Manager) MaxInstanceContributionToHitGroupIndex() uint32 {
	var result uint32
	for _, instance := range m.instances.Staging()[:m.numInstances] {
		result = max(result, instance.InstanceContributionToHitGroupIndex)
	}
	return result
}

func (m *Manager) ScratchSize() int {
	return m.scratchSize
}

// Clear releases every acceleration structure and the scratch buffer. The instance buffer is kept,
// so the manager can be refilled on the same system.
func (m *Manager) Clear() {
	m.logger.Debug("Manager::Clear", slog.Int("bottomLevel", len(m.bottomLevel)))

	for _, blas := range m.bottomLevel {
		blas.release()
	}
	m.bottomLevel = nil
	m.numInstances = 0

	if m.topLevel != nil {
		m.topLevel.release()
		m.topLevel = nil
	}
	if m.scratch != nil {
		m.scratch.Release()
		m.scratch = nil
	}
	m.scratchSize = 0
}

// Release clears the manager and releases its instance buffer
func (m *Manager) Release() {
	m.Clear()
	if m.instances != nil {
		m.instances.Release()
		m.instances = nil
	}
}
