package software

import (
	"sync"

	"github.com/goldensun/engine/gpu/native"
)

// Fence completes values as soon as they are signalled. While the fence is held, signals are
// remembered but not applied, which lets tests model a GPU that never finishes its work.
type Fence struct {
	lock      sync.Mutex
	cond      *sync.Cond
	completed uint64
	pending   uint64
	held      bool
	released  bool
	waiting   int
}

var _ native.Fence = &Fence{}

func NewFence(initialValue uint64) *Fence {
	fence := &Fence{completed: initialValue, pending: initialValue}
	fence.cond = sync.NewCond(&fence.lock)
	return fence
}

func (f *Fence) CompletedValue() uint64 {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.completed
}

func (f *Fence) Wait(value uint64) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.waiting++
	defer func() { f.waiting-- }()

	for f.completed < value {
		if f.released {
			return native.NewResultError("Wait", native.ResultDeviceRemoved)
		}
		f.cond.Wait()
	}

	return nil
}

// Hold stops signals from completing until Resume is called
func (f *Fence) Hold() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.held = true
}

// Resume completes every value signalled while the fence was held
func (f *Fence) Resume() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.held = false
	if f.pending > f.completed {
		f.completed = f.pending
	}
	f.cond.Broadcast()
}

// Waiters is the number of goroutines currently blocked in Wait
func (f *Fence) Waiters() int {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.waiting
}

// LastSignaled is the highest value signalled so far, whether or not it has completed
func (f *Fence) LastSignaled() uint64 {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.pending
}

func (f *Fence) signal(value uint64) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if value > f.pending {
		f.pending = value
	}
	if f.held {
		return
	}

	f.completed = f.pending
	f.cond.Broadcast()
}

func (f *Fence) Release() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.released = true
	f.cond.Broadcast()
}
