package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/goldensun/engine/gpu/native"
	"github.com/goldensun/engine/memutils"
)

// Texture2D is a committed 2D texture that tracks one state per mip level
type Texture2D struct {
	shared *sharedResource
	desc   native.ResourceDesc
	states []native.ResourceStates
}

var _ Resource = &Texture2D{}

// WrapTexture2D takes ownership of a native texture whose mips are all in state
func WrapTexture2D(resource native.Resource, state native.ResourceStates, name string) (*Texture2D, error) {
	return wrapTexture2D(resource, state, name, false)
}

func wrapTexture2D(resource native.Resource, state native.ResourceStates, name string, borrowed bool) (*Texture2D, error) {
	if resource == nil {
		return nil, errors.New("attempted to wrap a nil resource")
	}
	desc := resource.Desc()
	if desc.Dimension != native.ResourceDimensionTexture2D {
		return nil, errors.Newf("attempted to wrap a %s resource as a 2D texture", desc.Dimension)
	}
	if desc.MipLevels < 1 {
		desc.MipLevels = 1
	}
	if name != "" {
		resource.SetName(name)
	}

	states := make([]native.ResourceStates, desc.MipLevels)
	for mip := range states {
		states[mip] = state
	}

	return &Texture2D{
		shared: newSharedResource(resource, borrowed),
		desc:   desc,
		states: states,
	}, nil
}

func (t *Texture2D) IsEmpty() bool {
	return t == nil || t.shared == nil
}

func (t *Texture2D) Native() native.Resource {
	if t.IsEmpty() {
		return nil
	}
	return t.shared.resource
}

func (t *Texture2D) GPUVirtualAddress() native.GPUVirtualAddress {
	return t.shared.resource.GPUVirtualAddress()
}

func (t *Texture2D) Width(mip int) int {
	return max(t.desc.Width>>mip, 1)
}

func (t *Texture2D) Height(mip int) int {
	return max(t.desc.Height>>mip, 1)
}

func (t *Texture2D) MipLevels() int {
	return t.desc.MipLevels
}

func (t *Texture2D) Format() gputypes.TextureFormat {
	return t.desc.Format
}

func (t *Texture2D) Flags() native.ResourceFlags {
	return t.desc.Flags
}

func (t *Texture2D) State(mip int) native.ResourceStates {
	return t.states[mip]
}

func (t *Texture2D) SetName(name string) {
	t.shared.resource.SetName(name)
}

// TransitionMip records the barrier needed to put one mip level in target
func (t *Texture2D) TransitionMip(cmdList *CommandList, mip int, target native.ResourceStates) {
	barrier, ok := transitionBarrier(t.shared.resource, mip, t.states[mip], target)
	if ok {
		cmdList.ResourceBarrier(barrier)
	}
	t.states[mip] = target
}

// Transition puts every mip level in target. Mips that agree on their current state are moved with
// a single all-subresources barrier; otherwise each divergent mip gets its own barrier.
func (t *Texture2D) Transition(cmdList *CommandList, target native.ResourceStates) {
	uniform := true
	for _, state := range t.states[1:] {
		if state != t.states[0] {
			uniform = false
			break
		}
	}

	if uniform {
		barrier, ok := transitionBarrier(t.shared.resource, native.AllSubresources, t.states[0], target)
		if ok {
			cmdList.ResourceBarrier(barrier)
		}
	} else {
		var barriers []native.ResourceBarrier
		alreadyInTarget := false
		for mip, state := range t.states {
			if state != target {
				barriers = append(barriers, native.TransitionBarrier(t.shared.resource, mip, state, target))
			} else {
				alreadyInTarget = true
			}
		}
		if alreadyInTarget && target.IsUAVState() {
			barriers = append(barriers, native.UAVBarrier(t.shared.resource))
		}
		cmdList.ResourceBarrier(barriers...)
	}

	for mip := range t.states {
		t.states[mip] = target
	}
}

// RowPitch is the distance between rows of mip when it is staged in a linear buffer
func (t *Texture2D) RowPitch(mip int) int {
	return memutils.AlignUp(t.Width(mip)*native.FormatBytesPerPixel(t.desc.Format), native.TextureDataPitchAlignment)
}

func (t *Texture2D) footprint(mip int, offset int) native.PlacedSubresourceFootprint {
	return native.PlacedSubresourceFootprint{
		Offset:   offset,
		Format:   t.desc.Format,
		Width:    t.Width(mip),
		Height:   t.Height(mip),
		RowPitch: t.RowPitch(mip),
	}
}

// Upload records a copy of tightly packed texels into mip. The data is staged in an upload block
// that is returned to the system once the current frame completes.
func (t *Texture2D) Upload(system *System, cmdList *CommandList, mip int, data []byte) error {
	rowBytes := t.Width(mip) * native.FormatBytesPerPixel(t.desc.Format)
	height := t.Height(mip)
	if len(data) < rowBytes*height {
		return errors.Newf("mip %d needs %d bytes of texel data but %d were provided", mip, rowBytes*height, len(data))
	}

	rowPitch := t.RowPitch(mip)
	block, err := system.AllocUploadMemBlock(rowPitch*height, native.TextureDataPlacementAlignment)
	if err != nil {
		return err
	}

	staging := block.CPUAddress()
	for row := 0; row < height; row++ {
		copy(staging[row*rowPitch:row*rowPitch+rowBytes], data[row*rowBytes:(row+1)*rowBytes])
	}

	oldState := t.states[mip]
	t.TransitionMip(cmdList, mip, native.ResourceStateCopyDest)
	cmdList.Native().CopyTextureRegion(
		native.TextureCopyLocation{
			Resource:         t.shared.resource,
			Type:             native.TextureCopyTypeSubresourceIndex,
			SubresourceIndex: mip,
		},
		native.TextureCopyLocation{
			Resource:  block.Resource(),
			Type:      native.TextureCopyTypePlacedFootprint,
			Footprint: t.footprint(mip, block.Offset()),
		})
	t.TransitionMip(cmdList, mip, oldState)

	system.DeallocUploadMemBlock(&block)
	return nil
}

// Readback copies mip into dst as tightly packed texels. cmdList is executed and reset, and the
// call waits for the GPU to finish the copy.
func (t *Texture2D) Readback(system *System, cmdList *CommandList, mip int, dst []byte) error {
	rowBytes := t.Width(mip) * native.FormatBytesPerPixel(t.desc.Format)
	height := t.Height(mip)
	if len(dst) < rowBytes*height {
		return errors.Newf("mip %d needs %d bytes of space but %d were provided", mip, rowBytes*height, len(dst))
	}

	rowPitch := t.RowPitch(mip)
	block, err := system.AllocReadbackMemBlock(rowPitch*height, native.TextureDataPlacementAlignment)
	if err != nil {
		return err
	}
	defer system.DeallocReadbackMemBlock(&block)

	oldState := t.states[mip]
	t.TransitionMip(cmdList, mip, native.ResourceStateCopySource)
	cmdList.Native().CopyTextureRegion(
		native.TextureCopyLocation{
			Resource:  block.Resource(),
			Type:      native.TextureCopyTypePlacedFootprint,
			Footprint: t.footprint(mip, block.Offset()),
		},
		native.TextureCopyLocation{
			Resource:         t.shared.resource,
			Type:             native.TextureCopyTypeSubresourceIndex,
			SubresourceIndex: mip,
		})
	t.TransitionMip(cmdList, mip, oldState)

	err = system.ExecuteAndReset(cmdList)
	if err != nil {
		return err
	}
	err = system.WaitForGpu()
	if err != nil {
		return err
	}

	staging := block.CPUAddress()
	for row := 0; row < height; row++ {
		copy(dst[row*rowBytes:(row+1)*rowBytes], staging[row*rowPitch:row*rowPitch+rowBytes])
	}
	return nil
}

// Share returns another owner of the same native texture with a copy of the current mip states
func (t *Texture2D) Share() *Texture2D {
	return &Texture2D{
		shared: t.shared.acquire(),
		desc:   t.desc,
		states: append([]native.ResourceStates(nil), t.states...),
	}
}

func (t *Texture2D) Release() {
	if t.IsEmpty() {
		return
	}
	t.shared.release()
	*t = Texture2D{}
}

// Reset forgets the native texture without releasing it
func (t *Texture2D) Reset() {
	*t = Texture2D{}
}
