package scene_test

import (
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/gpu/software"
	"github.com/goldensun/engine/scene"
	"github.com/stretchr/testify/require"
)

func float32At(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}

func requireMatrixNear(t *testing.T, expected, actual scene.Matrix4) {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			require.InDelta(t, expected[row][col], actual[row][col], 1e-4, "row %d col %d", row, col)
		}
	}
}

func TestInverse(t *testing.T) {
	m := scene.Translation4(scene.Vec3(1, 2, 3)).Mul(scene.PerspectiveFovLH(math32.Pi/3, 16.0/9, 0.5, 50))

	inverse, ok := m.Inverse()
	require.True(t, ok)
	requireMatrixNear(t, scene.Identity4(), m.Mul(inverse))

	_, ok = scene.Matrix4{}.Inverse()
	require.False(t, ok)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := scene.Vec3(3, 4, -5)
	view := scene.LookAtLH(eye, scene.Vec3(0, 0, 0), scene.Vec3(0, 1, 0))

	origin := view.TransformPoint(eye)
	require.InDelta(t, 0, origin.X, 1e-5)
	require.InDelta(t, 0, origin.Y, 1e-5)
	require.InDelta(t, 0, origin.Z, 1e-5)

	// The target lies straight ahead on +Z
	target := view.TransformPoint(scene.Vec3(0, 0, 0))
	require.InDelta(t, 0, target.X, 1e-5)
	require.InDelta(t, 0, target.Y, 1e-5)
	require.InDelta(t, eye.Length(), target.Z, 1e-4)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := scene.PerspectiveFovLH(math32.Pi/2, 1, 1, 10)

	near := proj.TransformPoint(scene.Vec3(0, 0, 1))
	far := proj.TransformPoint(scene.Vec3(0, 0, 10))
	require.InDelta(t, 0, near.Z, 1e-5)
	require.InDelta(t, 1, far.Z, 1e-5)
}

func TestCameraClone(t *testing.T) {
	camera := scene.NewCamera()
	camera.Eye = scene.Vec3(1, 2, 3)

	clone := camera.Clone()
	clone.Eye.X = 10
	require.Equal(t, float32(1), camera.Eye.X)
	require.Equal(t, camera.Fov, clone.Fov)

	_, ok := camera.InverseViewProjection(1)
	require.True(t, ok)

	camera.LookAt = camera.Eye
	camera.Up = scene.Vec3(0, 0, 0)
	_, ok = camera.InverseViewProjection(1)
	require.False(t, ok)
}

func TestTo3x4(t *testing.T) {
	transform := scene.Translation4(scene.Vec3(4, 5, 6)).To3x4()

	require.Equal(t, [3][4]float32{
		{1, 0, 0, 4},
		{0, 1, 0, 5},
		{0, 0, 1, 6},
	}, transform)
}

func TestMaterialEncoding(t *testing.T) {
	material := scene.NewPbrMaterial()
	material.Albedo = scene.Vec3(0.5, 0.25, 1)
	material.Emissive = scene.Vec3(2, 3, 4)
	material.Metallic = 0.75
	material.Glossiness = 2 * scene.MaxGlossiness
	material.TwoSided = true

	data := make([]byte, scene.MaterialBufferSize)
	for i := range data {
		data[i] = 0xFF
	}
	scene.MaterialEncoder{}.Encode(data, material)

	require.Equal(t, float32(0.25), float32At(data, 4))
	require.Equal(t, float32(1), float32At(data, 12), "opacity")
	require.Equal(t, float32(4), float32At(data, 24))
	require.Equal(t, float32(0.75), float32At(data, 28))
	require.Equal(t, scene.MaxGlossiness, float32At(data, 32))
	require.Equal(t, float32(1), float32At(data, 40), "normal scale")
	require.Equal(t, float32(1), float32At(data, 44), "occlusion strength")
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[48:]))
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[52:]))
	require.Equal(t, make([]byte, 8), data[56:64])

	require.Panics(t, func() {
		scene.MaterialEncoder{}.Encode(make([]byte, 32), material)
	})
}

func TestMaterialCloneKeepsTextures(t *testing.T) {
	texture := &gpu.Texture2D{}
	material := scene.NewPbrMaterial()
	material.SetTexture(scene.TextureSlotNormal, texture)

	clone := material.Clone()
	clone.SetTexture(scene.TextureSlotAlbedo, texture)

	require.Same(t, texture, clone.Texture(scene.TextureSlotNormal))
	require.Nil(t, material.Texture(scene.TextureSlotAlbedo))
	require.Equal(t, "MetallicGlossiness", scene.TextureSlotMetallicGlossiness.String())
}

func TestLightEncoding(t *testing.T) {
	light := scene.NewPointLight()
	light.Position = scene.Vec3(1, 2, 3)
	light.Falloff = scene.Vec3(1, 0.5, 0.25)

	data := make([]byte, scene.LightBufferSize)
	scene.LightEncoder{}.Encode(data, light)

	require.Equal(t, float32(3), float32At(data, 8))
	require.Equal(t, float32(1), float32At(data, 12))
	require.Equal(t, float32(0.25), float32At(data, 32))
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[36:]))
}

func TestMeshGeometryDescs(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	device := software.NewDevice()
	system, err := gpu.New(logger, device, gpu.CreateOptions{})
	require.NoError(t, err)

	vertices, err := system.CreateUploadBufferWithData(scene.EncodeVertices(make([]scene.Vertex, 4)), "vertices")
	require.NoError(t, err)
	indices, err := system.CreateUploadBufferWithData(scene.EncodeIndices([]scene.Index{0, 1, 2, 0, 2, 3}), "indices")
	require.NoError(t, err)

	mesh := scene.NewVertexMesh()
	require.Panics(t, func() {
		mesh.AddPrimitive(vertices, indices, 0)
	})

	material := mesh.AddMaterial(scene.NewPbrMaterial())
	require.Equal(t, 0, mesh.AddPrimitive(vertices, indices, material))
	require.Equal(t, 1, mesh.AddPrimitiveWithFlags(vertices, indices, material, native.GeometryFlagNone))
	mesh.AddInstance(scene.Identity4())

	descs := mesh.GeometryDescs()
	require.Len(t, descs, 2)
	require.Equal(t, native.GeometryFlagOpaque, descs[0].Flags)
	require.Equal(t, native.GeometryFlagNone, descs[1].Flags)
	require.Equal(t, 4, descs[0].Triangles.VertexCount)
	require.Equal(t, 6, descs[0].Triangles.IndexCount)
	require.Equal(t, scene.VertexStride, descs[0].Triangles.VertexBuffer.StrideInBytes)
	require.Equal(t, vertices.GPUVirtualAddress(), descs[0].Triangles.VertexBuffer.StartAddress)
	require.Equal(t, indices.GPUVirtualAddress(), descs[0].Triangles.IndexBuffer)
	require.Equal(t, gputypes.IndexFormatUint16, descs[0].Triangles.IndexFormat)

	// The mesh holds its own references to the buffers
	live := device.LiveResources()
	vertices.Release()
	indices.Release()
	require.Equal(t, live, device.LiveResources())

	mesh.Release()
	require.Equal(t, live-2, device.LiveResources())

	require.NoError(t, system.Destroy())
}
