package memory

import "github.com/goldensun/engine/gpu/native"

type AllocatePageCallback func(
	allocator *Allocator,
	heapType native.HeapType,
	resource native.Resource,
	size int,
	userData interface{},
)

type FreePageCallback func(
	allocator *Allocator,
	heapType native.HeapType,
	resource native.Resource,
	size int,
	userData interface{},
)

type MemoryCallbackOptions struct {
	Allocate AllocatePageCallback
	Free     FreePageCallback
	UserData interface{}
}

type memoryCallbacks struct {
	Callbacks *MemoryCallbackOptions
	Allocator *Allocator
}

func (c *memoryCallbacks) Allocate(
	heapType native.HeapType,
	resource native.Resource,
	size int,
) {
	if c.Callbacks != nil && c.Callbacks.Allocate != nil {
		c.Callbacks.Allocate(c.Allocator, heapType, resource, size, c.Callbacks.UserData)
	}
}

func (c *memoryCallbacks) Free(
	heapType native.HeapType,
	resource native.Resource,
	size int,
) {
	if c.Callbacks != nil && c.Callbacks.Free != nil {
		c.Callbacks.Free(c.Allocator, heapType, resource, size, c.Callbacks.UserData)
	}
}
