package software

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/goldensun/engine/gpu/native"
)

type CommandAllocator struct {
	resets   int
	released bool
}

var _ native.CommandAllocator = &CommandAllocator{}

func (a *CommandAllocator) Reset() error {
	if a.released {
		return native.NewResultError("Reset", native.ResultInvalidArg)
	}

	a.resets++
	return nil
}

// Resets is the number of times the allocator has been reset
func (a *CommandAllocator) Resets() int {
	return a.resets
}

func (a *CommandAllocator) Release() {
	a.released = true
}

// Command is one operation recorded into a CommandList
type Command interface {
	execute(device *Device)
}

type BarrierCommand struct {
	Barriers []native.ResourceBarrier
}

type CopyResourceCommand struct {
	Dst, Src native.Resource
}

type CopyBufferRegionCommand struct {
	Dst       native.Resource
	DstOffset int
	Src       native.Resource
	SrcOffset int
	Size      int
}

type CopyTextureRegionCommand struct {
	Dst, Src native.TextureCopyLocation
}

type BuildCommand struct {
	Desc native.BuildRaytracingAccelerationStructureDesc
}

type DispatchCommand struct {
	Desc native.DispatchRaysDesc
}

// BindCommand records any root signature, descriptor heap, root argument, or pipeline binding
type BindCommand struct {
	Method string
	Index  int
	Value  any
}

func (c BarrierCommand) execute(device *Device) {}

func (c BindCommand) execute(device *Device) {}

func (c CopyResourceCommand) execute(device *Device) {
	dst := c.Dst.(*Resource)
	src := c.Src.(*Resource)

	if dst.data != nil {
		copy(dst.data, src.data)
		return
	}
	for mip := range dst.mips {
		copy(dst.mips[mip], src.mips[mip])
	}
}

func (c CopyBufferRegionCommand) execute(device *Device) {
	dst := c.Dst.(*Resource)
	src := c.Src.(*Resource)

	copy(dst.data[c.DstOffset:c.DstOffset+c.Size], src.data[c.SrcOffset:c.SrcOffset+c.Size])
}

func (c CopyTextureRegionCommand) execute(device *Device) {
	dst := c.Dst.Resource.(*Resource)
	src := c.Src.Resource.(*Resource)

	switch {
	case c.Dst.Type == native.TextureCopyTypeSubresourceIndex && c.Src.Type == native.TextureCopyTypePlacedFootprint:
		mip := c.Dst.SubresourceIndex
		rowBytes := dst.rowBytes(mip)
		for row := 0; row < dst.mipHeight(mip); row++ {
			srcStart := c.Src.Footprint.Offset + row*c.Src.Footprint.RowPitch
			copy(dst.mips[mip][row*rowBytes:(row+1)*rowBytes], src.data[srcStart:srcStart+rowBytes])
		}
	case c.Dst.Type == native.TextureCopyTypePlacedFootprint && c.Src.Type == native.TextureCopyTypeSubresourceIndex:
		mip := c.Src.SubresourceIndex
		rowBytes := src.rowBytes(mip)
		for row := 0; row < src.mipHeight(mip); row++ {
			dstStart := c.Dst.Footprint.Offset + row*c.Dst.Footprint.RowPitch
			copy(dst.data[dstStart:dstStart+rowBytes], src.mips[mip][row*rowBytes:(row+1)*rowBytes])
		}
	default:
		panic(fmt.Sprintf("unsupported texture copy from %d to %d", c.Src.Type, c.Dst.Type))
	}
}

func (c BuildCommand) execute(device *Device) {
	device.recordBuild(c.Desc)
}

func (c DispatchCommand) execute(device *Device) {
	device.recordDispatch(c.Desc)
}

// CommandList records commands until it is executed on a CommandQueue
type CommandList struct {
	device    *Device
	allocator *CommandAllocator
	open      bool
	commands  []Command
	executed  [][]Command
	resets    int
	released  bool
}

var _ native.CommandList = &CommandList{}

func (l *CommandList) Close() error {
	if !l.open {
		return errors.Wrap(native.NewResultError("Close", native.ResultInvalidArg), "command list is already closed")
	}

	l.open = false
	return nil
}

func (l *CommandList) Reset(allocator native.CommandAllocator) error {
	if l.open {
		return errors.Wrap(native.NewResultError("Reset", native.ResultInvalidArg), "command list must be closed before it is reset")
	}

	commandAllocator, ok := allocator.(*CommandAllocator)
	if !ok {
		return errors.Newf("command allocator %T was not created by a software device", allocator)
	}

	l.allocator = commandAllocator
	l.commands = nil
	l.open = true
	l.resets++
	return nil
}

func (l *CommandList) IsOpen() bool {
	return l.open
}

// Commands returns the commands recorded since the list was last reset
func (l *CommandList) Commands() []Command {
	return append([]Command(nil), l.commands...)
}

// Barriers flattens every barrier recorded since the list was last reset
func (l *CommandList) Barriers() []native.ResourceBarrier {
	var barriers []native.ResourceBarrier
	for _, command := range l.commands {
		barrierCommand, ok := command.(BarrierCommand)
		if ok {
			barriers = append(barriers, barrierCommand.Barriers...)
		}
	}
	return barriers
}

// Executions is the number of times this list has been submitted
func (l *CommandList) Executions() int {
	return len(l.executed)
}

func (l *CommandList) record(command Command) {
	if !l.open {
		panic(fmt.Sprintf("attempted to record %T into a closed command list", command))
	}
	l.commands = append(l.commands, command)
}

func (l *CommandList) ResourceBarrier(barriers []native.ResourceBarrier) {
	l.record(BarrierCommand{Barriers: append([]native.ResourceBarrier(nil), barriers...)})
}

func (l *CommandList) CopyResource(dst native.Resource, src native.Resource) {
	l.record(CopyResourceCommand{Dst: dst, Src: src})
}

func (l *CommandList) CopyBufferRegion(dst native.Resource, dstOffset int, src native.Resource, srcOffset int, size int) {
	l.record(CopyBufferRegionCommand{Dst: dst, DstOffset: dstOffset, Src: src, SrcOffset: srcOffset, Size: size})
}

func (l *CommandList) CopyTextureRegion(dst native.TextureCopyLocation, src native.TextureCopyLocation) {
	l.record(CopyTextureRegionCommand{Dst: dst, Src: src})
}

func (l *CommandList) BuildRaytracingAccelerationStructure(desc native.BuildRaytracingAccelerationStructureDesc) {
	desc.Inputs.GeometryDescs = append([]native.RaytracingGeometryDesc(nil), desc.Inputs.GeometryDescs...)
	l.record(BuildCommand{Desc: desc})
}

func (l *CommandList) SetDescriptorHeaps(heaps []native.DescriptorHeap) {
	l.record(BindCommand{Method: "SetDescriptorHeaps", Value: append([]native.DescriptorHeap(nil), heaps...)})
}

func (l *CommandList) SetComputeRootSignature(rootSignature native.RootSignature) {
	l.record(BindCommand{Method: "SetComputeRootSignature", Value: rootSignature})
}

func (l *CommandList) SetComputeRootDescriptorTable(rootParameterIndex int, baseDescriptor native.GPUDescriptorHandle) {
	l.record(BindCommand{Method: "SetComputeRootDescriptorTable", Index: rootParameterIndex, Value: baseDescriptor})
}

func (l *CommandList) SetComputeRootShaderResourceView(rootParameterIndex int, location native.GPUVirtualAddress) {
	l.record(BindCommand{Method: "SetComputeRootShaderResourceView", Index: rootParameterIndex, Value: location})
}

func (l *CommandList) SetComputeRootConstantBufferView(rootParameterIndex int, location native.GPUVirtualAddress) {
	l.record(BindCommand{Method: "SetComputeRootConstantBufferView", Index: rootParameterIndex, Value: location})
}

func (l *CommandList) SetPipelineState(pipeline native.RaytracingPipeline) {
	l.record(BindCommand{Method: "SetPipelineState", Value: pipeline})
}

func (l *CommandList) DispatchRays(desc native.DispatchRaysDesc) {
	l.record(DispatchCommand{Desc: desc})
}

func (l *CommandList) Release() {
	l.released = true
}

// CommandQueue replays command lists synchronously on the calling goroutine
type CommandQueue struct {
	device    *Device
	submitted int
	released  bool
}

var _ native.CommandQueue = &CommandQueue{}

func (q *CommandQueue) ExecuteCommandLists(lists []native.CommandList) {
	for _, list := range lists {
		commandList := list.(*CommandList)
		if commandList.open {
			panic("attempted to execute a command list that was not closed")
		}

		for _, command := range commandList.commands {
			command.execute(q.device)
		}
		commandList.executed = append(commandList.executed, commandList.commands)
		q.submitted++
	}
}

func (q *CommandQueue) Signal(fence native.Fence, value uint64) error {
	softwareFence, ok := fence.(*Fence)
	if !ok {
		return errors.Newf("fence %T was not created by a software device", fence)
	}

	softwareFence.signal(value)
	return nil
}

// Submitted is the number of command lists executed on this queue
func (q *CommandQueue) Submitted() int {
	return q.submitted
}

func (q *CommandQueue) Release() {
	q.released = true
}
