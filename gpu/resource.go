package gpu

import (
	"sync/atomic"

	"github.com/goldensun/engine/gpu/native"
)

// Resource is implemented by the wrappers that own a committed native resource
type Resource interface {
	Native() native.Resource
	GPUVirtualAddress() native.GPUVirtualAddress
}

// sharedResource is the reference count behind every Buffer and Texture2D that was handed out by
// Share. The native resource is released when the last reference goes away, unless the resource
// is borrowed from an owner such as a swap chain.
type sharedResource struct {
	resource native.Resource
	mapped   []byte
	borrowed bool
	refs     atomic.Int32
}

func newSharedResource(resource native.Resource, borrowed bool) *sharedResource {
	shared := &sharedResource{resource: resource, borrowed: borrowed}
	shared.refs.Store(1)
	return shared
}

func (s *sharedResource) acquire() *sharedResource {
	s.refs.Add(1)
	return s
}

func (s *sharedResource) release() {
	refs := s.refs.Add(-1)
	if refs > 0 {
		return
	}
	if refs < 0 {
		panic("attempted to release a gpu resource that has no remaining references")
	}

	if s.borrowed {
		return
	}
	if s.mapped != nil {
		s.resource.Unmap()
		s.mapped = nil
	}
	s.resource.Release()
}

// transitionBarrier returns the barrier needed to move a subresource from current to target. A
// resource already in an unordered access or acceleration structure state still gets a UAV barrier
// so that writes before and after it are ordered.
func transitionBarrier(resource native.Resource, subresource int, current, target native.ResourceStates) (native.ResourceBarrier, bool) {
	if current != target {
		return native.TransitionBarrier(resource, subresource, current, target), true
	}
	if target.IsUAVState() {
		return native.UAVBarrier(resource), true
	}
	return native.ResourceBarrier{}, false
}
