package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/accel"
	"github.com/goldensun/engine/descriptor"
	"github.com/goldensun/engine/engine"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memory"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DescriptorPageSizes is the number of descriptors in each pooled heap, per heap type. 0 selects
// descriptor.DefaultPageSize for that type.
type DescriptorPageSizes struct {
	CbvSrvUav int `toml:"cbv_srv_uav" yaml:"cbv_srv_uav"`
	Sampler   int `toml:"sampler" yaml:"sampler"`
	Rtv       int `toml:"rtv" yaml:"rtv"`
	Dsv       int `toml:"dsv" yaml:"dsv"`
}

// RenderTarget is the size and format of the engine's output texture
type RenderTarget struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Format string `toml:"format" yaml:"format"`
}

// Shaders points at the compiled shader objects the engine is created with. Relative paths are
// resolved against the directory of the config file.
type Shaders struct {
	Library             string `toml:"library" yaml:"library"`
	GlobalRootSignature string `toml:"global_root_signature" yaml:"global_root_signature"`
	LocalRootSignature  string `toml:"local_root_signature" yaml:"local_root_signature"`
}

// Config is the engine configuration file
type Config struct {
	UploadPageSize      int                 `toml:"upload_page_size" yaml:"upload_page_size"`
	ReadbackPageSize    int                 `toml:"readback_page_size" yaml:"readback_page_size"`
	UploadHeapSizeLimit int                 `toml:"upload_heap_size_limit" yaml:"upload_heap_size_limit"`
	DescriptorPageSizes DescriptorPageSizes `toml:"descriptor_page_sizes" yaml:"descriptor_page_sizes"`

	MaxInstances int          `toml:"max_instances" yaml:"max_instances"`
	RenderTarget RenderTarget `toml:"render_target" yaml:"render_target"`
	Shaders      Shaders      `toml:"shaders" yaml:"shaders"`

	ExternallySynchronized bool   `toml:"externally_synchronized" yaml:"externally_synchronized"`
	LogLevel               string `toml:"log_level" yaml:"log_level"`
}

var textureFormats = map[string]gputypes.TextureFormat{
	"rgba8unorm": gputypes.TextureFormatRGBA8Unorm,
	"bgra8unorm": gputypes.TextureFormatBGRA8Unorm,
	"r8unorm":    gputypes.TextureFormatR8Unorm,
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		UploadPageSize:   memory.DefaultPageSize,
		ReadbackPageSize: memory.DefaultPageSize,
		DescriptorPageSizes: DescriptorPageSizes{
			CbvSrvUav: descriptor.DefaultPageSize(native.DescriptorHeapTypeCbvSrvUav),
			Sampler:   descriptor.DefaultPageSize(native.DescriptorHeapTypeSampler),
			Rtv:       descriptor.DefaultPageSize(native.DescriptorHeapTypeRtv),
			Dsv:       descriptor.DefaultPageSize(native.DescriptorHeapTypeDsv),
		},
		MaxInstances: accel.DefaultMaxInstances,
		RenderTarget: RenderTarget{
			Width:  1280,
			Height: 720,
			Format: "rgba8unorm",
		},
		LogLevel: "info",
	}
}

// Load reads a configuration file on top of Default. The format is chosen by extension: .toml,
// .yaml or .yml. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	cfg, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config file %s", path)
	}
	cfg.resolveShaderPaths(filepath.Dir(path))

	return cfg, nil
}

// Parse decodes data in the format named by ext on top of Default and validates the result
func Parse(ext string, data []byte) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(ext) {
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		err := decoder.Decode(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode toml")
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err := decoder.Decode(cfg)
		// An empty document leaves the defaults in place
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "failed to decode yaml")
		}
	default:
		return nil, errors.Newf("unsupported config format %q", ext)
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolveShaderPaths(dir string) {
	for _, path := range []*string{&c.Shaders.Library, &c.Shaders.GlobalRootSignature, &c.Shaders.LocalRootSignature} {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(dir, *path)
		}
	}
}

// Validate reports the first setting that the gpu system or engine would reject
func (c *Config) Validate() error {
	if c.UploadPageSize < 0 {
		return errors.Newf("upload_page_size must not be negative, but was %d", c.UploadPageSize)
	}
	if c.ReadbackPageSize < 0 {
		return errors.Newf("readback_page_size must not be negative, but was %d", c.ReadbackPageSize)
	}
	if c.UploadHeapSizeLimit < 0 {
		return errors.Newf("upload_heap_size_limit must not be negative, but was %d", c.UploadHeapSizeLimit)
	}
	if c.UploadHeapSizeLimit > 0 && c.UploadHeapSizeLimit < c.UploadPageSize {
		return errors.Newf("upload_heap_size_limit %d cannot hold a single %d byte upload page",
			c.UploadHeapSizeLimit, c.UploadPageSize)
	}

	for heapType, size := range c.descriptorPageSizes() {
		if size < 0 {
			return errors.Newf("descriptor page size for %s must not be negative, but was %d",
				native.DescriptorHeapType(heapType), size)
		}
	}

	if c.MaxInstances < 0 {
		return errors.Newf("max_instances must not be negative, but was %d", c.MaxInstances)
	}
	if c.RenderTarget.Width < 0 || c.RenderTarget.Height < 0 {
		return errors.Newf("render target size %dx%d must not be negative", c.RenderTarget.Width, c.RenderTarget.Height)
	}

	_, err := c.TextureFormat()
	if err != nil {
		return err
	}
	_, err = c.Level()
	return err
}

// FrameCount is the number of frames in flight. It is fixed at build time and reported here only.
func (c *Config) FrameCount() int {
	return gpu.FrameCount
}

// Level parses LogLevel. An empty LogLevel is info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// TextureFormat parses RenderTarget.Format
func (c *Config) TextureFormat() (gputypes.TextureFormat, error) {
	format, ok := textureFormats[strings.ToLower(c.RenderTarget.Format)]
	if !ok {
		return gputypes.TextureFormatUndefined, errors.Newf("unsupported render target format %q", c.RenderTarget.Format)
	}
	return format, nil
}

func (c *Config) descriptorPageSizes() [native.DescriptorHeapTypeCount]int {
	var sizes [native.DescriptorHeapTypeCount]int
	sizes[native.DescriptorHeapTypeCbvSrvUav] = c.DescriptorPageSizes.CbvSrvUav
	sizes[native.DescriptorHeapTypeSampler] = c.DescriptorPageSizes.Sampler
	sizes[native.DescriptorHeapTypeRtv] = c.DescriptorPageSizes.Rtv
	sizes[native.DescriptorHeapTypeDsv] = c.DescriptorPageSizes.Dsv
	return sizes
}

// SystemOptions maps the configuration onto gpu.New's options. The device factory and memory
// callbacks are left to the caller.
func (c *Config) SystemOptions() gpu.CreateOptions {
	return gpu.CreateOptions{
		ExternallySynchronized: c.ExternallySynchronized,
		UploadPageSize:         c.UploadPageSize,
		ReadbackPageSize:       c.ReadbackPageSize,
		UploadHeapSizeLimit:    c.UploadHeapSizeLimit,
		DescriptorPageSizes:    c.descriptorPageSizes(),
	}
}

func (c *Config) ManagerOptions() accel.CreateOptions {
	return accel.CreateOptions{
		MaxInstances: c.MaxInstances,
	}
}

// EngineOptions reads the shader objects named in Shaders
func (c *Config) EngineOptions() (engine.Options, error) {
	options := engine.Options{MaxInstances: c.MaxInstances}

	files := []struct {
		path   string
		target *[]byte
	}{
		{c.Shaders.Library, &options.ShaderLibrary},
		{c.Shaders.GlobalRootSignature, &options.GlobalRootSignature},
		{c.Shaders.LocalRootSignature, &options.LocalRootSignature},
	}
	for _, file := range files {
		if file.path == "" {
			continue
		}
		data, err := os.ReadFile(file.path)
		if err != nil {
			return engine.Options{}, errors.Wrapf(err, "failed to read shader object %s", file.path)
		}
		*file.target = data
	}

	return options, nil
}
