package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/config"
	"github.com/goldensun/engine/engine"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/gpu/software"
	"github.com/goldensun/engine/scene"
	"github.com/spf13/cobra"
)

// The software backend accepts any blob, so these stand in when no compiled shaders are configured
var (
	softwareShaderLibrary       = []byte("goldensun software raytracing library")
	softwareGlobalRootSignature = []byte("goldensun software global root signature")
	softwareLocalRootSignature  = []byte("goldensun software local root signature")
)

type renderFlags struct {
	frames    int
	meshes    int
	instances int
	workers   int
	detailed  bool
	watch     bool
}

func newRenderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render procedural spheres and print the allocator statistics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), path, cfg, flags)
		},
	}

	cmd.Flags().IntVar(&flags.frames, "frames", 2*gpu.FrameCount, "number of frames to render")
	cmd.Flags().IntVar(&flags.meshes, "meshes", 4, "number of procedural sphere meshes")
	cmd.Flags().IntVar(&flags.instances, "instances", 2, "instances of each mesh")
	cmd.Flags().IntVar(&flags.workers, "workers", runtime.NumCPU(), "workers tessellating meshes")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "include every page's free list in the statistics")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "keep running and re-render whenever the config file changes")
	return cmd
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Validate the config file and print the resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frames in flight:      %d\n", cfg.FrameCount())
			fmt.Fprintf(out, "upload page size:      %d\n", cfg.UploadPageSize)
			fmt.Fprintf(out, "readback page size:    %d\n", cfg.ReadbackPageSize)
			fmt.Fprintf(out, "upload heap limit:     %d\n", cfg.UploadHeapSizeLimit)
			fmt.Fprintf(out, "descriptor page sizes: %+v\n", cfg.DescriptorPageSizes)
			fmt.Fprintf(out, "max instances:         %d\n", cfg.MaxInstances)
			fmt.Fprintf(out, "render target:         %dx%d %s\n", cfg.RenderTarget.Width, cfg.RenderTarget.Height, cfg.RenderTarget.Format)
			return nil
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func engineOptions(cfg *config.Config) (engine.Options, error) {
	options, err := cfg.EngineOptions()
	if err != nil {
		return engine.Options{}, err
	}
	if options.ShaderLibrary == nil {
		options.ShaderLibrary = softwareShaderLibrary
	}
	if options.GlobalRootSignature == nil {
		options.GlobalRootSignature = softwareGlobalRootSignature
	}
	if options.LocalRootSignature == nil {
		options.LocalRootSignature = softwareLocalRootSignature
	}
	return options, nil
}

// session is the state of one render run. Meshes are recreated from the tessellated geometry
// whenever the device is lost.
type session struct {
	logger     *slog.Logger
	system     *gpu.System
	engine     *engine.Engine
	geometries []sphereGeometry
	meshes     []*scene.Mesh
	flags      renderFlags
}

func runRender(ctx context.Context, out, logOut io.Writer, path string, cfg *config.Config, flags renderFlags) error {
	if flags.frames < 1 {
		return errors.Newf("at least one frame must be rendered, but --frames was %d", flags.frames)
	}
	if flags.meshes < 1 {
		return errors.Newf("at least one mesh is needed to build a scene, but --meshes was %d", flags.meshes)
	}
	if flags.watch && path == "" {
		return errors.New("--watch needs a --config file")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(logOut, cfg)
	if err != nil {
		return err
	}

	systemOptions := cfg.SystemOptions()
	systemOptions.DeviceFactory = func() (native.Device, error) {
		return software.NewDevice(), nil
	}
	system, err := gpu.New(logger, nil, systemOptions)
	if err != nil {
		return err
	}
	defer func() {
		destroyErr := system.Destroy()
		if destroyErr != nil {
			logger.Error("failed to destroy the gpu system", slog.Any("Error", destroyErr))
		}
	}()

	options, err := engineOptions(cfg)
	if err != nil {
		return err
	}
	e, err := engine.New(logger, system, options)
	if err != nil {
		return err
	}
	defer e.Release()

	s := &session{
		logger: logger,
		system: system,
		engine: e,
		flags:  flags,
	}
	defer s.releaseMeshes()

	s.geometries, err = tessellate(max(flags.workers, 1), flags.meshes)
	if err != nil {
		return err
	}
	err = s.setupScene(cfg)
	if err != nil {
		return err
	}

	err = s.renderFrames(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, system.BuildStatsString(flags.detailed))

	if !flags.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return config.Watch(ctx, logger, path, func(changed *config.Config, err error) {
		if err != nil {
			logger.Warn("ignoring invalid config change", slog.Any("Error", err))
			return
		}

		err = s.applyRenderTarget(changed)
		if err == nil {
			err = s.renderFrames(changed)
		}
		if err != nil {
			logger.Error("failed to re-render after a config change", slog.Any("Error", err))
			return
		}
		fmt.Fprintln(out, system.BuildStatsString(flags.detailed))
	})
}

func (s *session) applyRenderTarget(cfg *config.Config) error {
	format, err := cfg.TextureFormat()
	if err != nil {
		return err
	}
	return s.engine.RenderTarget(cfg.RenderTarget.Width, cfg.RenderTarget.Height, format)
}

func (s *session) releaseMeshes() {
	for _, mesh := range s.meshes {
		mesh.Release()
	}
	s.meshes = nil
}

// setupScene uploads the meshes and hands the whole scene to the engine
func (s *session) setupScene(cfg *config.Config) error {
	err := s.applyRenderTarget(cfg)
	if err != nil {
		return err
	}

	s.releaseMeshes()
	cmdList, err := s.system.CreateCommandList()
	if err != nil {
		return err
	}
	s.meshes, err = createMeshes(s.system, cmdList, s.geometries, s.flags.instances)
	if err != nil {
		return errors.CombineErrors(err, s.system.Discard(cmdList))
	}
	err = s.system.Execute(cmdList)
	if err != nil {
		return err
	}
	err = s.engine.Meshes(s.meshes)
	if err != nil {
		return err
	}

	key := scene.NewPointLight()
	key.Position = scene.Vec3(-4, 8, -6)
	fill := scene.NewPointLight()
	fill.Position = scene.Vec3(6, 2, -4)
	fill.Color = scene.Vec3(0.3, 0.3, 0.4)
	fill.Shadowing = false
	err = s.engine.Lights([]*scene.PointLight{key, fill})
	if err != nil {
		return err
	}

	camera := scene.NewCamera()
	camera.Eye = scene.Vec3(2, 4, -12)
	camera.LookAt = scene.Vec3(2, 2, 0)
	s.engine.Camera(camera)
	return nil
}

// renderFrames records, submits and retires frames, rebuilding the scene once if the device is lost
func (s *session) renderFrames(cfg *config.Config) error {
	for frame := 0; frame < s.flags.frames; frame++ {
		err := s.renderFrame()
		if err == nil {
			continue
		}
		if !native.IsDeviceLost(err) {
			return err
		}

		s.logger.Warn("device lost, recreating the scene", slog.Int("Frame", frame))
		s.releaseMeshes()
		err = s.engine.HandleDeviceLost()
		if err != nil {
			return errors.Wrap(err, "failed to recover from a lost device")
		}
		err = s.setupScene(cfg)
		if err != nil {
			return err
		}
		err = s.renderFrame()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *session) renderFrame() error {
	cmdList, err := s.system.CreateCommandList()
	if err != nil {
		return err
	}

	err = s.engine.Render(cmdList)
	if err != nil {
		return errors.CombineErrors(err, s.system.Discard(cmdList))
	}

	err = s.system.Execute(cmdList)
	if err != nil {
		return err
	}
	return s.system.MoveToNextFrame()
}
