package native

import "github.com/vkngwrapper/core/v2/common"

// ResourceStates is the set of usages a resource (or one of its subresources) is currently
// prepared for. Transitions between states must be recorded as barriers on a command list.
type ResourceStates int32

var resourceStatesMapping = common.NewFlagStringMapping[ResourceStates]()

func (f ResourceStates) Register(str string) {
	resourceStatesMapping.Register(f, str)
}
func (f ResourceStates) String() string {
	return resourceStatesMapping.FlagsToString(f)
}

const (
	ResourceStateCommon                   ResourceStates = 0
	ResourceStateVertexAndConstantBuffer  ResourceStates = 0x1
	ResourceStateIndexBuffer              ResourceStates = 0x2
	ResourceStateRenderTarget             ResourceStates = 0x4
	ResourceStateUnorderedAccess          ResourceStates = 0x8
	ResourceStateDepthWrite               ResourceStates = 0x10
	ResourceStateDepthRead                ResourceStates = 0x20
	ResourceStateNonPixelShaderResource   ResourceStates = 0x40
	ResourceStatePixelShaderResource      ResourceStates = 0x80
	ResourceStateIndirectArgument         ResourceStates = 0x200
	ResourceStateCopyDest                 ResourceStates = 0x400
	ResourceStateCopySource               ResourceStates = 0x800

	ResourceStateRaytracingAccelerationStructure ResourceStates = 0x400000

	// ResourceStatePresent is the state swap chain buffers must be in when presented
	ResourceStatePresent ResourceStates = 0
	// ResourceStateGenericRead is the required state of upload heap resources
	ResourceStateGenericRead = ResourceStateVertexAndConstantBuffer | ResourceStateIndexBuffer |
		ResourceStateNonPixelShaderResource | ResourceStatePixelShaderResource |
		ResourceStateIndirectArgument | ResourceStateCopySource
	ResourceStateAllShaderResource = ResourceStateNonPixelShaderResource | ResourceStatePixelShaderResource
)

func init() {
	ResourceStateVertexAndConstantBuffer.Register("VertexAndConstantBuffer")
	ResourceStateIndexBuffer.Register("IndexBuffer")
	ResourceStateRenderTarget.Register("RenderTarget")
	ResourceStateUnorderedAccess.Register("UnorderedAccess")
	ResourceStateDepthWrite.Register("DepthWrite")
	ResourceStateDepthRead.Register("DepthRead")
	ResourceStateNonPixelShaderResource.Register("NonPixelShaderResource")
	ResourceStatePixelShaderResource.Register("PixelShaderResource")
	ResourceStateIndirectArgument.Register("IndirectArgument")
	ResourceStateCopyDest.Register("CopyDest")
	ResourceStateCopySource.Register("CopySource")
	ResourceStateRaytracingAccelerationStructure.Register("RaytracingAccelerationStructure")
}

// IsUAVState reports whether two accesses in this state must be ordered by a UAV barrier even
// though no transition takes place
func (f ResourceStates) IsUAVState() bool {
	return f == ResourceStateUnorderedAccess || f == ResourceStateRaytracingAccelerationStructure
}

type ResourceFlags int32

var resourceFlagsMapping = common.NewFlagStringMapping[ResourceFlags]()

func (f ResourceFlags) Register(str string) {
	resourceFlagsMapping.Register(f, str)
}
func (f ResourceFlags) String() string {
	return resourceFlagsMapping.FlagsToString(f)
}

const (
	ResourceFlagAllowRenderTarget ResourceFlags = 1 << iota
	ResourceFlagAllowDepthStencil
	ResourceFlagAllowUnorderedAccess
	ResourceFlagDenyShaderResource

	ResourceFlagNone ResourceFlags = 0
)

func init() {
	ResourceFlagAllowRenderTarget.Register("AllowRenderTarget")
	ResourceFlagAllowDepthStencil.Register("AllowDepthStencil")
	ResourceFlagAllowUnorderedAccess.Register("AllowUnorderedAccess")
	ResourceFlagDenyShaderResource.Register("DenyShaderResource")
}

type DescriptorHeapFlags int32

var descriptorHeapFlagsMapping = common.NewFlagStringMapping[DescriptorHeapFlags]()

func (f DescriptorHeapFlags) Register(str string) {
	descriptorHeapFlagsMapping.Register(f, str)
}
func (f DescriptorHeapFlags) String() string {
	return descriptorHeapFlagsMapping.FlagsToString(f)
}

const (
	DescriptorHeapFlagShaderVisible DescriptorHeapFlags = 1 << iota

	DescriptorHeapFlagNone DescriptorHeapFlags = 0
)

func init() {
	DescriptorHeapFlagShaderVisible.Register("ShaderVisible")
}

type RaytracingAccelerationStructureBuildFlags int32

var buildFlagsMapping = common.NewFlagStringMapping[RaytracingAccelerationStructureBuildFlags]()

func (f RaytracingAccelerationStructureBuildFlags) Register(str string) {
	buildFlagsMapping.Register(f, str)
}
func (f RaytracingAccelerationStructureBuildFlags) String() string {
	return buildFlagsMapping.FlagsToString(f)
}

const (
	BuildFlagAllowUpdate RaytracingAccelerationStructureBuildFlags = 1 << iota
	BuildFlagAllowCompaction
	BuildFlagPreferFastTrace
	BuildFlagPreferFastBuild
	BuildFlagMinimizeMemory
	// BuildFlagPerformUpdate refits an existing structure from SourceAccelerationStructureData
	// instead of building from scratch. The source must have been built with BuildFlagAllowUpdate.
	BuildFlagPerformUpdate

	BuildFlagNone RaytracingAccelerationStructureBuildFlags = 0
)

func init() {
	BuildFlagAllowUpdate.Register("AllowUpdate")
	BuildFlagAllowCompaction.Register("AllowCompaction")
	BuildFlagPreferFastTrace.Register("PreferFastTrace")
	BuildFlagPreferFastBuild.Register("PreferFastBuild")
	BuildFlagMinimizeMemory.Register("MinimizeMemory")
	BuildFlagPerformUpdate.Register("PerformUpdate")
}

type RaytracingGeometryFlags int32

var geometryFlagsMapping = common.NewFlagStringMapping[RaytracingGeometryFlags]()

func (f RaytracingGeometryFlags) Register(str string) {
	geometryFlagsMapping.Register(f, str)
}
func (f RaytracingGeometryFlags) String() string {
	return geometryFlagsMapping.FlagsToString(f)
}

const (
	GeometryFlagOpaque RaytracingGeometryFlags = 1 << iota
	GeometryFlagNoDuplicateAnyHitInvocation

	GeometryFlagNone RaytracingGeometryFlags = 0
)

func init() {
	GeometryFlagOpaque.Register("Opaque")
	GeometryFlagNoDuplicateAnyHitInvocation.Register("NoDuplicateAnyHitInvocation")
}

type RaytracingInstanceFlags int32

var instanceFlagsMapping = common.NewFlagStringMapping[RaytracingInstanceFlags]()

func (f RaytracingInstanceFlags) Register(str string) {
	instanceFlagsMapping.Register(f, str)
}
func (f RaytracingInstanceFlags) String() string {
	return instanceFlagsMapping.FlagsToString(f)
}

const (
	InstanceFlagTriangleCullDisable RaytracingInstanceFlags = 1 << iota
	InstanceFlagTriangleFrontCounterClockwise
	InstanceFlagForceOpaque
	InstanceFlagForceNonOpaque

	InstanceFlagNone RaytracingInstanceFlags = 0
)

func init() {
	InstanceFlagTriangleCullDisable.Register("TriangleCullDisable")
	InstanceFlagTriangleFrontCounterClockwise.Register("TriangleFrontCounterClockwise")
	InstanceFlagForceOpaque.Register("ForceOpaque")
	InstanceFlagForceNonOpaque.Register("ForceNonOpaque")
}
