package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goldensun/engine/config"
	"github.com/goldensun/engine/engine"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/gpu/software"
	"github.com/goldensun/engine/scene"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out, logs bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestBuildSphere(t *testing.T) {
	geometry, err := buildSphere(4, 6)
	require.NoError(t, err)
	require.Len(t, geometry.vertices, 5*7*scene.VertexStride)
	require.Len(t, geometry.indices, 4*6*6*scene.IndexStride)

	_, err = buildSphere(1, 6)
	require.Error(t, err)
	_, err = buildSphere(300, 300)
	require.Error(t, err)
}

func TestTessellateKeepsOrder(t *testing.T) {
	geometries, err := tessellate(3, 5)
	require.NoError(t, err)
	require.Len(t, geometries, 5)

	for i, geometry := range geometries {
		expected, err := buildSphere(8+i*4, 16+i*8)
		require.NoError(t, err)
		require.Equal(t, expected, geometry)
	}
}

func TestRenderPrintsStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goldensun.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_instances: 16
log_level: error
render_target:
  width: 64
  height: 32
`), 0o644))

	out, err := execute(t, "render", "--config", path, "--frames", "4", "--meshes", "2", "--workers", "2")
	require.NoError(t, err)

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Contains(t, stats, "UploadMemory")
	require.Contains(t, stats, "Descriptors")
	require.Equal(t, float64(4%gpu.FrameCount), stats["FrameIndex"])
}

func TestRenderRejectsTooManyInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goldensun.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_instances = 2\nlog_level = \"error\"\n"), 0o644))

	_, err := execute(t, "render", "--config", path, "--meshes", "2", "--instances", "2")
	require.Error(t, err)
}

func TestWatchNeedsConfigFile(t *testing.T) {
	_, err := execute(t, "render", "--watch")
	require.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	require.Contains(t, out, "frames in flight:      3")
}

func TestFailedFrameReturnsCommandList(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := config.Default()
	system, err := gpu.New(logger, software.NewDevice(), cfg.SystemOptions())
	require.NoError(t, err)
	options, err := engineOptions(cfg)
	require.NoError(t, err)
	e, err := engine.New(logger, system, options)
	require.NoError(t, err)

	queue := system.NativeCommandQueue().(*software.CommandQueue)
	pooled, err := system.CreateCommandList()
	require.NoError(t, err)
	require.NoError(t, system.Execute(pooled))
	submitted := queue.Submitted()

	// No render target yet, so recording the frame fails
	s := &session{logger: logger, system: system, engine: e}
	require.Error(t, s.renderFrame())
	require.Equal(t, submitted, queue.Submitted())

	reused, err := system.CreateCommandList()
	require.NoError(t, err)
	require.Same(t, pooled, reused)

	require.NoError(t, system.Execute(reused))
	e.Release()
	require.NoError(t, system.Destroy())
}

func TestSetupSceneUploadsGeometry(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := config.Default()
	system, err := gpu.New(logger, software.NewDevice(), cfg.SystemOptions())
	require.NoError(t, err)
	options, err := engineOptions(cfg)
	require.NoError(t, err)
	e, err := engine.New(logger, system, options)
	require.NoError(t, err)

	geometries, err := tessellate(1, 2)
	require.NoError(t, err)
	s := &session{logger: logger, system: system, engine: e, geometries: geometries, flags: renderFlags{frames: 1, instances: 1}}
	require.NoError(t, s.setupScene(cfg))
	require.Len(t, s.meshes, 2)
	require.Equal(t, len(geometries[0].vertices), s.meshes[0].VertexBuffer(0).Size())
	require.Equal(t, native.HeapTypeDefault, s.meshes[1].IndexBuffer(0).HeapType())
	require.NoError(t, s.renderFrames(cfg))

	s.releaseMeshes()
	e.Release()
	require.NoError(t, system.Destroy())
}
