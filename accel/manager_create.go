package accel

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu"
	"github.com/goldensun/engine/gpu/native"
)

// DefaultMaxInstances is used when CreateOptions.MaxInstances is 0
const DefaultMaxInstances = 1024

// UseBLASHitGroupIndex makes an instance use its bottom-level structure's hit group index
const UseBLASHitGroupIndex uint32 = 0xFFFFFFFF

// CreateOptions contains optional settings when creating a Manager
type CreateOptions struct {
	// MaxInstances is the number of instances each frame's instance buffer can hold
	MaxInstances int
	// ScratchName names the shared scratch buffer. It defaults to "ScratchBuffer".
	ScratchName string
}

// New creates a Manager whose instance buffer holds options.MaxInstances instances for each of
// the system's frames
func New(logger *slog.Logger, system *gpu.System, options CreateOptions) (*Manager, error) {
	if logger == nil {
		return nil, errors.New("attempted to create an acceleration structure manager without a logger")
	}
	if system == nil {
		return nil, errors.New("attempted to create an acceleration structure manager without a gpu system")
	}

	if options.MaxInstances <= 0 {
		options.MaxInstances = DefaultMaxInstances
	}
	if options.ScratchName == "" {
		options.ScratchName = "ScratchBuffer"
	}

	instances, err := gpu.NewStructuredBuffer[native.RaytracingInstanceDesc](system, native.InstanceDescEncoder{},
		options.MaxInstances, gpu.FrameCount, "Bottom-Level AS Instance descs")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the instance buffer")
	}

	return &Manager{
		logger:    logger,
		system:    system,
		options:   options,
		instances: instances,
	}, nil
}
