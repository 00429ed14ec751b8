package gpu

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/gpu/native"
)

// SwapChain presents textures to the display. Present and Resize report a lost device with ok=false
// rather than an error; the caller is expected to call System.HandleDeviceLost and try again.
type SwapChain struct {
	logger      *slog.Logger
	native      native.SwapChain
	bufferCount int
	width       int
	height      int
	format      gputypes.TextureFormat
	buffers     []*Texture2D
}

func (s *SwapChain) Native() native.SwapChain {
	return s.native
}

func (s *SwapChain) BufferCount() int {
	return s.bufferCount
}

func (s *SwapChain) Width() int {
	return s.width
}

func (s *SwapChain) Height() int {
	return s.height
}

func (s *SwapChain) Format() gputypes.TextureFormat {
	return s.format
}

// Buffer is the index-th back buffer. It starts each frame in the present state.
func (s *SwapChain) Buffer(index int) *Texture2D {
	return s.buffers[index]
}

func (s *SwapChain) wrapBuffers() error {
	s.buffers = make([]*Texture2D, 0, s.bufferCount)
	for i := 0; i < s.bufferCount; i++ {
		resource, err := s.native.Buffer(i)
		if err != nil {
			return errors.Wrapf(err, "failed to get swap chain buffer %d", i)
		}

		texture, err := wrapTexture2D(resource, native.ResourceStatePresent, "", true)
		if err != nil {
			return err
		}
		s.buffers = append(s.buffers, texture)
	}
	return nil
}

func (s *SwapChain) Present(syncInterval int) (bool, error) {
	err := s.native.Present(syncInterval)
	if native.IsDeviceLost(err) {
		s.logger.Debug("SwapChain::Present", slog.String("deviceLost", err.Error()))
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to present")
	}
	return true, nil
}

// Resize recreates the back buffers. Wrappers returned by Buffer before the resize are invalid.
func (s *SwapChain) Resize(width, height int, format gputypes.TextureFormat) (bool, error) {
	for _, buffer := range s.buffers {
		buffer.Release()
	}
	s.buffers = nil

	err := s.native.ResizeBuffers(s.bufferCount, width, height, format)
	if native.IsDeviceLost(err) {
		s.logger.Debug("SwapChain::Resize", slog.String("deviceLost", err.Error()))
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to resize swap chain to %dx%d", width, height)
	}

	s.width = width
	s.height = height
	s.format = format
	return true, s.wrapBuffers()
}

func (s *SwapChain) Release() {
	for _, buffer := range s.buffers {
		buffer.Release()
	}
	s.buffers = nil

	if s.native != nil {
		s.native.Release()
		s.native = nil
	}
}
