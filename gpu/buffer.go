package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
)

// Buffer is a committed buffer along with the state it was last transitioned to. Upload and
// readback buffers stay mapped for their whole lifetime.
type Buffer struct {
	shared   *sharedResource
	heapType native.HeapType
	desc     native.ResourceDesc
	state    native.ResourceStates
}

var _ Resource = &Buffer{}

// WrapBuffer takes ownership of a native buffer that is currently in state
func WrapBuffer(resource native.Resource, heapType native.HeapType, state native.ResourceStates, name string) (*Buffer, error) {
	if resource == nil {
		return nil, errors.New("attempted to wrap a nil resource")
	}
	desc := resource.Desc()
	if desc.Dimension != native.ResourceDimensionBuffer {
		return nil, errors.Newf("attempted to wrap a %s resource as a buffer", desc.Dimension)
	}

	buffer := &Buffer{
		shared:   newSharedResource(resource, false),
		heapType: heapType,
		desc:     desc,
		state:    state,
	}
	if name != "" {
		resource.SetName(name)
	}

	if heapType == native.HeapTypeUpload || heapType == native.HeapTypeReadback {
		mapped, err := resource.Map()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to map buffer %q", name)
		}
		buffer.shared.mapped = mapped
	}

	return buffer, nil
}

func (b *Buffer) IsEmpty() bool {
	return b == nil || b.shared == nil
}

func (b *Buffer) Native() native.Resource {
	if b.IsEmpty() {
		return nil
	}
	return b.shared.resource
}

func (b *Buffer) GPUVirtualAddress() native.GPUVirtualAddress {
	return b.shared.resource.GPUVirtualAddress()
}

func (b *Buffer) Size() int {
	return b.desc.Width
}

func (b *Buffer) HeapType() native.HeapType {
	return b.heapType
}

func (b *Buffer) Flags() native.ResourceFlags {
	return b.desc.Flags
}

func (b *Buffer) State() native.ResourceStates {
	return b.state
}

func (b *Buffer) SetName(name string) {
	b.shared.resource.SetName(name)
}

// MappedData is the persistent CPU view of an upload or readback buffer, or nil for the default heap
func (b *Buffer) MappedData() []byte {
	if b.IsEmpty() {
		return nil
	}
	return b.shared.mapped
}

// Map returns the CPU view of the buffer, mapping it if it is not persistently mapped
func (b *Buffer) Map() ([]byte, error) {
	if b.shared.mapped != nil {
		return b.shared.mapped, nil
	}

	mapped, err := b.shared.resource.Map()
	if err != nil {
		return nil, errors.Wrap(err, "failed to map buffer")
	}
	b.shared.mapped = mapped
	return mapped, nil
}

func (b *Buffer) Unmap() {
	if b.shared.mapped == nil {
		return
	}
	b.shared.resource.Unmap()
	b.shared.mapped = nil
}

// Transition records the barrier needed to put the buffer in target
func (b *Buffer) Transition(cmdList *CommandList, target native.ResourceStates) {
	barrier, ok := transitionBarrier(b.shared.resource, native.AllSubresources, b.state, target)
	if ok {
		cmdList.ResourceBarrier(barrier)
	}
	b.state = target
}

// Upload records a copy of data into the buffer at offset. The data is staged in an upload block
// that is returned to the system once the current frame completes.
func (b *Buffer) Upload(system *System, cmdList *CommandList, offset int, data []byte) error {
	if offset < 0 || offset+len(data) > b.Size() {
		return errors.Newf("%d bytes at offset %d do not fit in a buffer of %d bytes", len(data), offset, b.Size())
	}

	block, err := system.AllocUploadMemBlock(len(data), 0)
	if err != nil {
		return err
	}
	copy(block.CPUAddress(), data)

	oldState := b.state
	b.Transition(cmdList, native.ResourceStateCopyDest)
	err = cmdList.CopyFromMemBlock(b, offset, block)
	b.Transition(cmdList, oldState)

	system.DeallocUploadMemBlock(&block)
	return err
}

// Share returns another owner of the same native buffer. The copy starts with this buffer's state
// and tracks its own from then on.
func (b *Buffer) Share() *Buffer {
	return &Buffer{
		shared:   b.shared.acquire(),
		heapType: b.heapType,
		desc:     b.desc,
		state:    b.state,
	}
}

// Release drops this owner's reference. The native buffer is destroyed with the last reference.
func (b *Buffer) Release() {
	if b.IsEmpty() {
		return
	}
	b.shared.release()
	*b = Buffer{}
}

// Reset forgets the native buffer without releasing it. It is used once the device that created
// the buffer has been lost.
func (b *Buffer) Reset() {
	*b = Buffer{}
}
