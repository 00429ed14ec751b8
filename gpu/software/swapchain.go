package software

import (
	"crypto/sha256"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/gpu/native"
)

type SwapChain struct {
	device   *Device
	buffers  []*Resource
	presents int
}

var _ native.SwapChain = &SwapChain{}

func (s *SwapChain) createBuffers(count, width, height int, format gputypes.TextureFormat) error {
	if count < 2 {
		return errors.Wrapf(native.NewResultError("CreateSwapChain", native.ResultInvalidArg), "swap chain of %d buffers", count)
	}

	buffers := make([]*Resource, 0, count)
	for i := 0; i < count; i++ {
		buffer, err := s.device.CreateCommittedResource(native.HeapTypeDefault,
			native.Texture2DDesc(width, height, 1, format, native.ResourceFlagAllowRenderTarget),
			native.ResourceStatePresent)
		if err != nil {
			for _, created := range buffers {
				created.Release()
			}
			return err
		}
		buffers = append(buffers, buffer.(*Resource))
	}

	s.buffers = buffers
	return nil
}

func (s *SwapChain) Present(syncInterval int) error {
	err := s.device.lostError("Present")
	if err != nil {
		return err
	}

	s.presents++
	return nil
}

// Presents is the number of successful presents
func (s *SwapChain) Presents() int {
	return s.presents
}

func (s *SwapChain) ResizeBuffers(bufferCount, width, height int, format gputypes.TextureFormat) error {
	err := s.device.lostError("ResizeBuffers")
	if err != nil {
		return err
	}

	for _, buffer := range s.buffers {
		buffer.Release()
	}
	s.buffers = nil

	return s.createBuffers(bufferCount, width, height, format)
}

func (s *SwapChain) Buffer(index int) (native.Resource, error) {
	if index < 0 || index >= len(s.buffers) {
		return nil, errors.Wrapf(native.NewResultError("Buffer", native.ResultInvalidArg), "swap chain has no buffer %d", index)
	}

	return s.buffers[index], nil
}

func (s *SwapChain) Release() {
	for _, buffer := range s.buffers {
		buffer.Release()
	}
	s.buffers = nil
}

type RootSignature struct {
	blob []byte
}

func (r *RootSignature) Release() {}

// Pipeline derives shader identifiers by hashing export names
type Pipeline struct {
	identifiers map[string][]byte
	desc        native.RaytracingPipelineDesc
}

var _ native.RaytracingPipeline = &Pipeline{}

func newPipeline(desc native.RaytracingPipelineDesc) (*Pipeline, error) {
	if len(desc.Library) == 0 {
		return nil, errors.Wrap(native.NewResultError("CreateRaytracingPipeline", native.ResultInvalidArg), "pipeline has no shader library")
	}

	pipeline := &Pipeline{identifiers: make(map[string][]byte), desc: desc}
	for _, export := range desc.Exports {
		pipeline.addIdentifier(export)
	}
	for _, hitGroup := range desc.HitGroups {
		pipeline.addIdentifier(hitGroup.Name)
	}
	return pipeline, nil
}

func (p *Pipeline) addIdentifier(name string) {
	sum := sha256.Sum256([]byte(name))
	p.identifiers[name] = sum[:native.ShaderIdentifierSize]
}

func (p *Pipeline) Desc() native.RaytracingPipelineDesc {
	return p.desc
}

func (p *Pipeline) ShaderIdentifier(export string) []byte {
	return p.identifiers[export]
}

func (p *Pipeline) Release() {}
