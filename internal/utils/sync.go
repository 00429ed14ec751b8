package utils

import (
	"sync"
)

// OptionalRWMutex guards a page allocator's state. Allocators created as externally synchronized
// leave UseMutex unset, which turns every method into a no-op; the caller then provides exclusion.
type OptionalRWMutex struct {
	Mutex    sync.RWMutex
	UseMutex bool
}

func (m *OptionalRWMutex) Lock() {
	if m.UseMutex {
		m.Mutex.Lock()
	}
}

func (m *OptionalRWMutex) Unlock() {
	if m.UseMutex {
		m.Mutex.Unlock()
	}
}

// RLock is taken by statistics and validation, which never mutate the free lists
func (m *OptionalRWMutex) RLock() {
	if m.UseMutex {
		m.Mutex.RLock()
	}
}

func (m *OptionalRWMutex) RUnlock() {
	if m.UseMutex {
		m.Mutex.RUnlock()
	}
}
