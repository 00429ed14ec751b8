package main

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"
	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/scene"
)

// sphereGeometry is the CPU side of one procedural sphere, ready for upload
type sphereGeometry struct {
	vertices []byte
	indices  []byte
}

// buildSphere tessellates a unit sphere into rings*segments quads
func buildSphere(rings, segments int) (sphereGeometry, error) {
	if rings < 2 || segments < 3 {
		return sphereGeometry{}, errors.Newf("a sphere needs at least 2 rings and 3 segments, but got %d and %d", rings, segments)
	}
	numVertices := (rings + 1) * (segments + 1)
	if numVertices > 1<<16 {
		return sphereGeometry{}, errors.Newf("a sphere of %d vertices cannot be indexed with 16-bit indices", numVertices)
	}

	vertices := make([]scene.Vertex, 0, numVertices)
	for ring := 0; ring <= rings; ring++ {
		v := float32(ring) / float32(rings)
		theta := v * math32.Pi
		for segment := 0; segment <= segments; segment++ {
			u := float32(segment) / float32(segments)
			phi := u * 2 * math32.Pi
			vertices = append(vertices, scene.Vertex{
				Position: scene.Vec3(
					math32.Sin(theta)*math32.Cos(phi),
					math32.Cos(theta),
					math32.Sin(theta)*math32.Sin(phi),
				),
				TangentQuat: [4]float32{0, 0, 0, 1},
				TexCoord:    [2]float32{u, v},
			})
		}
	}

	indices := make([]scene.Index, 0, rings*segments*6)
	for ring := 0; ring < rings; ring++ {
		for segment := 0; segment < segments; segment++ {
			topLeft := scene.Index(ring*(segments+1) + segment)
			bottomLeft := topLeft + scene.Index(segments+1)
			indices = append(indices,
				topLeft, bottomLeft, topLeft+1,
				topLeft+1, bottomLeft, bottomLeft+1,
			)
		}
	}

	return sphereGeometry{
		vertices: scene.EncodeVertices(vertices),
		indices:  scene.EncodeIndices(indices),
	}, nil
}

// tessellate builds count spheres of increasing detail on a worker pool
func tessellate(workers, count int) ([]sphereGeometry, error) {
	pool := worker.NewDynamicWorkerPool(workers, max(count, 1), 1*time.Second)

	geometries := make([]sphereGeometry, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		index := i
		pool.SubmitTask(worker.Task{
			ID: index,
			Do: func() (any, error) {
				defer wg.Done()

				geometries[index], errs[index] = buildSphere(8+index*4, 16+index*8)
				return nil, errs[index]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return geometries, nil
}

// createMeshes records the upload of each geometry into default buffers and wraps it as a
// one-primitive mesh with instancesPerMesh instances spread along the x axis
func createMeshes(system *gpu.System, cmdList *gpu.CommandList, geometries []sphereGeometry, instancesPerMesh int) ([]*scene.Mesh, error) {
	meshes := make([]*scene.Mesh, 0, len(geometries))
	releaseAll := func() {
		for _, mesh := range meshes {
			mesh.Release()
		}
	}

	for i, geometry := range geometries {
		vertices, err := uploadGeometryBuffer(system, cmdList, geometry.vertices, "Sphere Vertices")
		if err != nil {
			releaseAll()
			return nil, err
		}
		indices, err := uploadGeometryBuffer(system, cmdList, geometry.indices, "Sphere Indices")
		if err != nil {
			vertices.Release()
			releaseAll()
			return nil, err
		}

		material := scene.NewPbrMaterial()
		material.Albedo = scene.Vec3(1, float32(i)/float32(len(geometries)), 0.25)
		material.Metallic = 0.5
		material.Glossiness = 64

		mesh := scene.NewVertexMesh()
		mesh.AddPrimitive(vertices, indices, mesh.AddMaterial(material))
		for instance := 0; instance < instancesPerMesh; instance++ {
			offset := scene.Vec3(float32(instance)*2.5, float32(i)*2.5, 0)
			mesh.AddInstance(scene.Translation4(offset))
		}

		// The mesh holds its own shares
		vertices.Release()
		indices.Release()
		meshes = append(meshes, mesh)
	}

	return meshes, nil
}

func uploadGeometryBuffer(system *gpu.System, cmdList *gpu.CommandList, data []byte, name string) (*gpu.Buffer, error) {
	buffer, err := system.CreateDefaultBuffer(len(data), native.ResourceFlagNone, native.ResourceStateNonPixelShaderResource, name)
	if err != nil {
		return nil, err
	}

	err = buffer.Upload(system, cmdList, 0, data)
	if err != nil {
		buffer.Release()
		return nil, errors.Wrapf(err, "failed to upload %s", name)
	}
	return buffer, nil
}
