package freelist

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/goldensun/engine/internal/utils"
	"github.com/goldensun/engine/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Backing creates and destroys the native allocations that back an Allocator's pages. H is
// the handle used to identify a page; it is stored in every Allocation leased from that page.
type Backing[H comparable] interface {
	NewPage(size int) (H, error)
	ReleasePage(page H)
}

// Allocation is a lease of [Offset, Offset+Size) within the page identified by Page. The zero
// value is an empty allocation.
type Allocation[H comparable] struct {
	Page   H
	Offset int
	Size   int
}

func (a Allocation[H]) IsEmpty() bool {
	var zero H
	return a.Page == zero
}

type pooledPage[H comparable] struct {
	*Page
	handle H
}

// largePage is a one-off page for a request larger than the standard page size. It is never
// pooled: once deallocated it waits for its fence and is then returned to the Backing.
type largePage[H comparable] struct {
	handle   H
	size     int
	released bool
	fence    uint64
}

// CreateOptions configures a new Allocator
type CreateOptions struct {
	// PageSize is the capacity of each pooled page. Requests larger than this are given
	// dedicated one-off pages.
	PageSize int
	// ExternallySynchronized disables the allocator's internal mutex. The consumer must guarantee
	// the allocator is only used from one goroutine at a time.
	ExternallySynchronized bool
}

// Allocator is a fence-gated free-list allocator. Leases are carved first-fit from a list of
// standard-size pages; deallocated leases are stalled until the GPU signals the fence value they
// were tagged with, and ClearStallPages folds them back into the free lists.
type Allocator[H comparable] struct {
	mutex    utils.OptionalRWMutex
	backing  Backing[H]
	pageSize int

	pages      []*pooledPage[H]
	pageLookup *swiss.Map[H, *pooledPage[H]]

	largePages  []*largePage[H]
	largeLookup *swiss.Map[H, *largePage[H]]
}

func New[H comparable](backing Backing[H], options CreateOptions) (*Allocator[H], error) {
	if backing == nil {
		return nil, errors.New("attempted to create a free list allocator without a page backing")
	}
	if options.PageSize <= 0 {
		return nil, errors.Newf("attempted to create a free list allocator with page size %d", options.PageSize)
	}

	return &Allocator[H]{
		mutex:       utils.OptionalRWMutex{UseMutex: !options.ExternallySynchronized},
		backing:     backing,
		pageSize:    options.PageSize,
		pageLookup:  swiss.NewMap[H, *pooledPage[H]](42),
		largeLookup: swiss.NewMap[H, *largePage[H]](42),
	}, nil
}

func (a *Allocator[H]) PageSize() int {
	return a.pageSize
}

// Allocate leases size units aligned to alignment. size is rounded up to alignment first.
func (a *Allocator[H]) Allocate(size int, alignment int) (Allocation[H], error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.allocateLocked(size, alignment)
}

// Deallocate stalls the allocation until fence has been reached. Empty allocations are ignored.
func (a *Allocator[H]) Deallocate(allocation Allocation[H], fence uint64) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.deallocateLocked(allocation, fence)
}

// Reallocate deallocates the old allocation (if it is not empty) and leases a new one under a
// single acquisition of the allocator's lock
func (a *Allocator[H]) Reallocate(allocation Allocation[H], fence uint64, size int, alignment int) (Allocation[H], error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.deallocateLocked(allocation, fence)
	return a.allocateLocked(size, alignment)
}

func (a *Allocator[H]) allocateLocked(size int, alignment int) (Allocation[H], error) {
	if size <= 0 {
		return Allocation[H]{}, errors.Wrapf(memutils.ZeroSizeError, "requested %d units", size)
	}
	if alignment < 1 {
		alignment = 1
	}
	err := memutils.CheckPow2(alignment, "alignment")
	if err != nil {
		return Allocation[H]{}, err
	}

	alignedSize := memutils.AlignUp(size, alignment)

	if alignedSize > a.pageSize {
		handle, err := a.backing.NewPage(size)
		if err != nil {
			return Allocation[H]{}, errors.Wrapf(err, "failed to create a large page of %d units", size)
		}

		large := &largePage[H]{handle: handle, size: size}
		a.largePages = append(a.largePages, large)
		a.largeLookup.Put(handle, large)

		return Allocation[H]{Page: handle, Offset: 0, Size: size}, nil
	}

	for _, page := range a.pages {
		offset, ok := page.Allocate(alignedSize, alignment)
		if ok {
			memutils.DebugValidate(page)
			return Allocation[H]{Page: page.handle, Offset: offset, Size: alignedSize}, nil
		}
	}

	handle, err := a.backing.NewPage(a.pageSize)
	if err != nil {
		return Allocation[H]{}, errors.Wrapf(err, "failed to create a page of %d units", a.pageSize)
	}

	page := &pooledPage[H]{Page: NewPage(a.pageSize), handle: handle}
	a.pages = append(a.pages, page)
	a.pageLookup.Put(handle, page)

	offset, ok := page.Allocate(alignedSize, alignment)
	if !ok {
		panic(fmt.Sprintf("a fresh page of %d units could not hold an allocation of %d units", a.pageSize, alignedSize))
	}

	memutils.DebugValidate(page)
	return Allocation[H]{Page: handle, Offset: offset, Size: alignedSize}, nil
}

func (a *Allocator[H]) deallocateLocked(allocation Allocation[H], fence uint64) {
	if allocation.IsEmpty() {
		return
	}

	page, ok := a.pageLookup.Get(allocation.Page)
	if ok {
		page.Stall(allocation.Offset, allocation.Size, fence)
		memutils.DebugValidate(page)
		return
	}

	large, ok := a.largeLookup.Get(allocation.Page)
	if !ok {
		panic(fmt.Sprintf("attempted to deallocate %d units from a page that does not belong to this allocator", allocation.Size))
	}
	if large.released {
		panic(fmt.Sprintf("attempted to deallocate a large page of %d units twice", large.size))
	}

	large.released = true
	large.fence = fence
}

// ClearStallPages returns every stalled range tagged with a fence value <= completedFence to
// its page's free list, and destroys every large page deallocated at or before completedFence
func (a *Allocator[H]) ClearStallPages(completedFence uint64) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	for _, page := range a.pages {
		if page.ClearStalls(completedFence) > 0 {
			memutils.DebugValidate(page)
		}
	}

	remaining := a.largePages[:0]
	for _, large := range a.largePages {
		if large.released && large.fence <= completedFence {
			a.largeLookup.Delete(large.handle)
			a.backing.ReleasePage(large.handle)
			continue
		}

		remaining = append(remaining, large)
	}
	for i := len(remaining); i < len(a.largePages); i++ {
		a.largePages[i] = nil
	}
	a.largePages = remaining
}

// Clear destroys every page, pooled or large. Every outstanding Allocation becomes dangling.
func (a *Allocator[H]) Clear() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	for _, page := range a.pages {
		a.backing.ReleasePage(page.handle)
	}
	for _, large := range a.largePages {
		a.backing.ReleasePage(large.handle)
	}

	a.pages = nil
	a.largePages = nil
	a.pageLookup = swiss.NewMap[H, *pooledPage[H]](42)
	a.largeLookup = swiss.NewMap[H, *largePage[H]](42)
}

// PageCount is the number of pooled pages
func (a *Allocator[H]) PageCount() int {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return len(a.pages)
}

// LargePageCount is the number of one-off pages that have not yet been destroyed
func (a *Allocator[H]) LargePageCount() int {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return len(a.largePages)
}

// Page returns the free list metadata for a pooled page, or false if the handle is not a pooled
// page of this allocator
func (a *Allocator[H]) Page(handle H) (*Page, bool) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	page, ok := a.pageLookup.Get(handle)
	if !ok {
		return nil, false
	}
	return page.Page, true
}

// PageHandles returns the handles of the pooled pages in creation order
func (a *Allocator[H]) PageHandles() []H {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	handles := make([]H, 0, len(a.pages))
	for _, page := range a.pages {
		handles = append(handles, page.handle)
	}
	return handles
}

// AllocationCount is the number of live leases, counting large pages that have not been deallocated
func (a *Allocator[H]) AllocationCount() int {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	count := 0
	for _, page := range a.pages {
		count += page.AllocationCount()
	}
	for _, large := range a.largePages {
		if !large.released {
			count++
		}
	}
	return count
}

func (a *Allocator[H]) Validate() error {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if a.pageLookup.Count() != len(a.pages) {
		return errors.Newf("the allocator has %d pages, but %d are registered for lookup", len(a.pages), a.pageLookup.Count())
	}
	if a.largeLookup.Count() != len(a.largePages) {
		return errors.Newf("the allocator has %d large pages, but %d are registered for lookup", len(a.largePages), a.largeLookup.Count())
	}

	for i, page := range a.pages {
		if page.Size() != a.pageSize {
			return errors.Newf("page %d has size %d, but the allocator page size is %d", i, page.Size(), a.pageSize)
		}

		err := page.Validate()
		if err != nil {
			return errors.Wrapf(err, "page %d failed validation", i)
		}
	}

	return nil
}

func (a *Allocator[H]) AddStatistics(stats *memutils.Statistics) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	for _, page := range a.pages {
		page.AddStatistics(stats)
	}

	for _, large := range a.largePages {
		stats.BlockCount++
		stats.BlockBytes += large.size
		if !large.released {
			stats.AllocationCount++
			stats.AllocationBytes += large.size
		}
	}
}

func (a *Allocator[H]) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	for _, page := range a.pages {
		page.AddDetailedStatistics(stats)
	}

	for _, large := range a.largePages {
		stats.BlockCount++
		stats.BlockBytes += large.size
		if large.released {
			stats.AddStalledRange(large.size)
		} else {
			stats.AddAllocation(large.size)
		}
	}
}

// PrintDetailedMap writes a JSON object describing every page and large page to writer
func (a *Allocator[H]) PrintDetailedMap(writer *jwriter.Writer) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	objState := writer.Object()
	defer objState.End()

	objState.Name("PageSize").Int(a.pageSize)

	pageArray := objState.Name("Pages").Array()
	for i, page := range a.pages {
		pageObj := pageArray.Object()
		pageObj.Name("Index").Int(i)
		page.WriteJSON(&pageObj)
		pageObj.End()
	}
	pageArray.End()

	largeArray := objState.Name("LargePages").Array()
	for _, large := range a.largePages {
		largeObj := largeArray.Object()
		largeObj.Name("Size").Int(large.size)
		if large.released {
			largeObj.Name("Fence").Int(int(large.fence))
		}
		largeObj.End()
	}
	largeArray.End()
}
