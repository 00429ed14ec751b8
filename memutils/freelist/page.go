package freelist

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/goldensun/engine/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Range is a half-open [First, Last) span of offsets within a page
type Range struct {
	First int
	Last  int
}

func (r Range) Size() int {
	return r.Last - r.First
}

// StallRange is a range that has been deallocated but may still be read by the GPU. It rejoins the
// free list once the queue fence reaches Fence.
type StallRange struct {
	Range
	Fence uint64
}

// Page tracks the free, leased, and stalled ranges of one fixed-capacity native allocation.
// The free list is kept sorted by offset and no two free ranges are ever adjacent.
type Page struct {
	size   int
	free   []Range
	stalls []StallRange

	leases      *swiss.Map[int, int]
	leasedBytes int
	stallBytes  int
}

var _ memutils.Validatable = &Page{}

func NewPage(size int) *Page {
	if size <= 0 {
		panic(fmt.Sprintf("attempted to create a free list page of size %d", size))
	}

	return &Page{
		size:   size,
		free:   []Range{{First: 0, Last: size}},
		leases: swiss.NewMap[int, int](42),
	}
}

func (p *Page) Size() int {
	return p.size
}

// AllocationCount is the number of live leases in this page. Stalled ranges are not counted.
func (p *Page) AllocationCount() int {
	return p.leases.Count()
}

func (p *Page) SumFreeSize() int {
	return p.size - p.leasedBytes - p.stallBytes
}

// IsEmpty reports whether the whole page is a single free range
func (p *Page) IsEmpty() bool {
	return len(p.free) == 1 && p.free[0].First == 0 && p.free[0].Last == p.size
}

// FreeRanges returns a copy of the free list in offset order
func (p *Page) FreeRanges() []Range {
	return slices.Clone(p.free)
}

// StallRanges returns a copy of the stall list in the order ranges were deallocated
func (p *Page) StallRanges() []StallRange {
	return slices.Clone(p.stalls)
}

// Allocate carves size units out of the first free range able to hold them at the requested
// alignment. Carving happens from the front of the range; any bytes skipped to satisfy alignment stay free.
func (p *Page) Allocate(size int, alignment int) (int, bool) {
	if alignment < 1 {
		alignment = 1
	}

	for i := 0; i < len(p.free); i++ {
		candidate := p.free[i]
		start := memutils.AlignUp(candidate.First, alignment)
		end := start + size
		if end > candidate.Last {
			continue
		}

		switch {
		case start == candidate.First && end == candidate.Last:
			p.free = slices.Delete(p.free, i, i+1)
		case start == candidate.First:
			p.free[i].First = end
		case end == candidate.Last:
			p.free[i].Last = start
		default:
			p.free[i].Last = start
			p.free = slices.Insert(p.free, i+1, Range{First: end, Last: candidate.Last})
		}

		p.leases.Put(start, size)
		p.leasedBytes += size
		return start, true
	}

	return 0, false
}

// Stall ends the lease at offset and moves it to the stall list, to be freed once fence completes.
// It panics if offset/size does not describe a live lease in this page.
func (p *Page) Stall(offset, size int, fence uint64) {
	leasedSize, ok := p.leases.Get(offset)
	if !ok {
		panic(fmt.Sprintf("attempted to deallocate offset %d, which is not leased from this page", offset))
	}
	if leasedSize != size {
		panic(fmt.Sprintf("attempted to deallocate %d units at offset %d, but the lease is %d units", size, offset, leasedSize))
	}

	p.leases.Delete(offset)
	p.leasedBytes -= size
	p.stallBytes += size
	p.stalls = append(p.stalls, StallRange{
		Range: Range{First: offset, Last: offset + size},
		Fence: fence,
	})
}

// ClearStalls folds every stalled range whose fence is <= completedFence back into the free list
// and returns the number of ranges that were folded
func (p *Page) ClearStalls(completedFence uint64) int {
	folded := 0
	remaining := p.stalls[:0]

	for _, stall := range p.stalls {
		if stall.Fence > completedFence {
			remaining = append(remaining, stall)
			continue
		}

		p.free = insertFree(p.free, stall.Range)
		p.stallBytes -= stall.Size()
		folded++
	}

	for i := len(remaining); i < len(p.stalls); i++ {
		p.stalls[i] = StallRange{}
	}
	p.stalls = remaining

	return folded
}

func insertFree(free []Range, r Range) []Range {
	index := slices.IndexFunc(free, func(existing Range) bool {
		return existing.First > r.First
	})
	if index < 0 {
		index = len(free)
	}

	mergePrev := index > 0 && free[index-1].Last == r.First
	mergeNext := index < len(free) && free[index].First == r.Last

	switch {
	case mergePrev && mergeNext:
		free[index-1].Last = free[index].Last
		return slices.Delete(free, index, index+1)
	case mergePrev:
		free[index-1].Last = r.Last
		return free
	case mergeNext:
		free[index].First = r.First
		return free
	default:
		return slices.Insert(free, index, r)
	}
}

func (p *Page) Validate() error {
	lastEnd := -1
	freeBytes := 0
	for i, r := range p.free {
		if r.First >= r.Last {
			return errors.Errorf("free range %d [%d, %d) is empty", i, r.First, r.Last)
		}
		if r.First < 0 || r.Last > p.size {
			return errors.Errorf("free range %d [%d, %d) is outside of the page bounds [0, %d)", i, r.First, r.Last, p.size)
		}
		if r.First <= lastEnd {
			if r.First == lastEnd {
				return errors.Errorf("free range %d begins at %d where the previous range ends, but they were not merged", i, r.First)
			}
			return errors.Errorf("free range %d [%d, %d) overlaps or precedes the previous range", i, r.First, r.Last)
		}

		lastEnd = r.Last
		freeBytes += r.Size()
	}

	stallBytes := 0
	for _, stall := range p.stalls {
		stallBytes += stall.Size()
	}

	if stallBytes != p.stallBytes {
		return errors.Errorf("the stall list holds %d units, but the page recorded %d", stallBytes, p.stallBytes)
	}

	calculatedLeased := 0
	var leaseErr error
	p.leases.Iter(func(offset int, size int) bool {
		calculatedLeased += size
		for _, r := range p.free {
			if offset < r.Last && r.First < offset+size {
				leaseErr = errors.Errorf("lease [%d, %d) overlaps free range [%d, %d)", offset, offset+size, r.First, r.Last)
				return true
			}
		}
		return false
	})
	if leaseErr != nil {
		return leaseErr
	}

	if calculatedLeased != p.leasedBytes {
		return errors.Errorf("the leases add up to %d units, but the page recorded %d", calculatedLeased, p.leasedBytes)
	}

	if freeBytes+p.leasedBytes+p.stallBytes != p.size {
		return errors.Errorf("free (%d), leased (%d) and stalled (%d) units do not add up to the page size %d",
			freeBytes, p.leasedBytes, p.stallBytes, p.size)
	}

	return nil
}

func (p *Page) AddStatistics(stats *memutils.Statistics) {
	stats.BlockCount++
	stats.BlockBytes += p.size
	stats.AllocationCount += p.leases.Count()
	stats.AllocationBytes += p.leasedBytes
}

func (p *Page) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.BlockCount++
	stats.BlockBytes += p.size

	for _, r := range p.free {
		stats.AddUnusedRange(r.Size())
	}

	for _, stall := range p.stalls {
		stats.AddStalledRange(stall.Size())
	}

	p.leases.Iter(func(offset int, size int) bool {
		stats.AddAllocation(size)
		return false
	})
}

func (p *Page) WriteJSON(json *jwriter.ObjectState) {
	json.Name("TotalBytes").Int(p.size)
	json.Name("UnusedBytes").Int(p.SumFreeSize())
	json.Name("Allocations").Int(p.leases.Count())
	json.Name("UnusedRanges").Int(len(p.free))
	json.Name("StalledRanges").Int(len(p.stalls))

	freeArray := json.Name("Free").Array()
	for _, r := range p.free {
		obj := freeArray.Object()
		obj.Name("Offset").Int(r.First)
		obj.Name("Size").Int(r.Size())
		obj.End()
	}
	freeArray.End()

	stallArray := json.Name("Stalled").Array()
	for _, stall := range p.stalls {
		obj := stallArray.Object()
		obj.Name("Offset").Int(stall.First)
		obj.Name("Size").Int(stall.Size())
		obj.Name("Fence").Int(int(stall.Fence))
		obj.End()
	}
	stallArray.End()
}
