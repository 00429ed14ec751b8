package scene

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
)

// Vertex is the vertex layout the hit shaders read. TangentQuat packs the tangent frame as a
// quaternion.
type Vertex struct {
	Position    Vector3
	TangentQuat [4]float32
	TexCoord    [2]float32
}

// VertexStride is the encoded size of a Vertex
const VertexStride = 36

// Index is the index type meshes built from Vertex use
type Index = uint16

// IndexStride is the encoded size of an Index
const IndexStride = 2

// VertexEncoder writes Vertex values in the layout the hit shaders read
type VertexEncoder struct{}

func (VertexEncoder) Size() int {
	return VertexStride
}

func (VertexEncoder) Encode(dst []byte, v Vertex) {
	offset := putVector3(dst, 0, v.Position)
	for _, value := range v.TangentQuat {
		offset = putFloat(dst, offset, value)
	}
	for _, value := range v.TexCoord {
		offset = putFloat(dst, offset, value)
	}
}

var _ gpu.Encoder[Vertex] = VertexEncoder{}

// EncodeVertices returns the GPU layout of vertices
func EncodeVertices(vertices []Vertex) []byte {
	data := make([]byte, len(vertices)*VertexStride)
	for i, vertex := range vertices {
		VertexEncoder{}.Encode(data[i*VertexStride:], vertex)
	}
	return data
}

// EncodeIndices returns the GPU layout of indices
func EncodeIndices(indices []Index) []byte {
	data := make([]byte, len(indices)*IndexStride)
	for i, index := range indices {
		binary.LittleEndian.PutUint16(data[i*IndexStride:], index)
	}
	return data
}

type primitive struct {
	vertexBuffer *gpu.Buffer
	indexBuffer  *gpu.Buffer
	numVertices  int
	numIndices   int
	materialID   int
	flags        native.RaytracingGeometryFlags
}

// Mesh is a set of primitives sharing one vertex and index format, the materials those
// primitives use, and the instances that place the mesh in the scene. A mesh holds its own
// reference to every buffer added to it; Release drops them.
type Mesh struct {
	vertexFormat gputypes.VertexFormat
	vertexStride int
	indexFormat  gputypes.IndexFormat
	indexStride  int

	materials  []*PbrMaterial
	primitives []primitive
	instances  []Matrix4
}

func NewMesh(vertexFormat gputypes.VertexFormat, vertexStride int, indexFormat gputypes.IndexFormat, indexStride int) *Mesh {
	if vertexStride <= 0 || indexStride <= 0 {
		panic(fmt.Sprintf("mesh strides must be positive, got vertex stride %d and index stride %d", vertexStride, indexStride))
	}

	return &Mesh{
		vertexFormat: vertexFormat,
		vertexStride: vertexStride,
		indexFormat:  indexFormat,
		indexStride:  indexStride,
	}
}

// NewVertexMesh creates a mesh whose primitives hold Vertex and Index data
func NewVertexMesh() *Mesh {
	return NewMesh(gputypes.VertexFormatFloat32x3, VertexStride, gputypes.IndexFormatUint16, IndexStride)
}

func (m *Mesh) VertexFormat() gputypes.VertexFormat {
	return m.vertexFormat
}

func (m *Mesh) VertexStride() int {
	return m.vertexStride
}

func (m *Mesh) IndexFormat() gputypes.IndexFormat {
	return m.indexFormat
}

func (m *Mesh) IndexStride() int {
	return m.indexStride
}

// AddMaterial stores a copy of material and returns its id
func (m *Mesh) AddMaterial(material *PbrMaterial) int {
	id := len(m.materials)
	m.materials = append(m.materials, material.Clone())
	return id
}

func (m *Mesh) NumMaterials() int {
	return len(m.materials)
}

func (m *Mesh) Material(id int) *PbrMaterial {
	return m.materials[id]
}

// AddPrimitive adds an opaque primitive drawn from whole vertex and index buffers
func (m *Mesh) AddPrimitive(vertexBuffer, indexBuffer *gpu.Buffer, materialID int) int {
	return m.AddPrimitiveWithFlags(vertexBuffer, indexBuffer, materialID, native.GeometryFlagOpaque)
}

func (m *Mesh) AddPrimitiveWithFlags(vertexBuffer, indexBuffer *gpu.Buffer, materialID int, flags native.RaytracingGeometryFlags) int {
	if materialID < 0 || materialID >= len(m.materials) {
		panic(fmt.Sprintf("primitive material %d out of range [0, %d)", materialID, len(m.materials)))
	}

	id := len(m.primitives)
	m.primitives = append(m.primitives, primitive{
		vertexBuffer: vertexBuffer.Share(),
		indexBuffer:  indexBuffer.Share(),
		numVertices:  vertexBuffer.Size() / m.vertexStride,
		numIndices:   indexBuffer.Size() / m.indexStride,
		materialID:   materialID,
		flags:        flags,
	})
	return id
}

func (m *Mesh) NumPrimitives() int {
	return len(m.primitives)
}

func (m *Mesh) NumVertices(primitiveID int) int {
	return m.primitives[primitiveID].numVertices
}

func (m *Mesh) VertexBuffer(primitiveID int) *gpu.Buffer {
	return m.primitives[primitiveID].vertexBuffer
}

func (m *Mesh) NumIndices(primitiveID int) int {
	return m.primitives[primitiveID].numIndices
}

func (m *Mesh) IndexBuffer(primitiveID int) *gpu.Buffer {
	return m.primitives[primitiveID].indexBuffer
}

func (m *Mesh) MaterialID(primitiveID int) int {
	return m.primitives[primitiveID].materialID
}

func (m *Mesh) SetMaterialID(primitiveID int, materialID int) {
	if materialID < 0 || materialID >= len(m.materials) {
		panic(fmt.Sprintf("primitive material %d out of range [0, %d)", materialID, len(m.materials)))
	}
	m.primitives[primitiveID].materialID = materialID
}

// AddInstance places the mesh with transform and returns the instance id
func (m *Mesh) AddInstance(transform Matrix4) int {
	id := len(m.instances)
	m.instances = append(m.instances, transform)
	return id
}

func (m *Mesh) NumInstances() int {
	return len(m.instances)
}

func (m *Mesh) Transform(instanceID int) Matrix4 {
	return m.instances[instanceID]
}

func (m *Mesh) SetTransform(instanceID int, transform Matrix4) {
	m.instances[instanceID] = transform
}

// GeometryDescs returns one triangle description per primitive, in primitive order
func (m *Mesh) GeometryDescs() []native.RaytracingGeometryDesc {
	descs := make([]native.RaytracingGeometryDesc, 0, len(m.primitives))
	for _, p := range m.primitives {
		descs = append(descs, native.RaytracingGeometryDesc{
			Type:  native.GeometryTypeTriangles,
			Flags: p.flags,
			Triangles: native.RaytracingGeometryTrianglesDesc{
				IndexFormat:  m.indexFormat,
				VertexFormat: m.vertexFormat,
				IndexCount:   p.numIndices,
				VertexCount:  p.numVertices,
				IndexBuffer:  p.indexBuffer.GPUVirtualAddress(),
				VertexBuffer: native.GPUVirtualAddressAndStride{
					StartAddress:  p.vertexBuffer.GPUVirtualAddress(),
					StrideInBytes: m.vertexStride,
				},
			},
		})
	}
	return descs
}

// Release drops the mesh's references to its vertex and index buffers
func (m *Mesh) Release() {
	for i := range m.primitives {
		m.primitives[i].vertexBuffer.Release()
		m.primitives[i].indexBuffer.Release()
	}
	m.primitives = nil
}
