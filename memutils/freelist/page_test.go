package freelist_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/goldensun/engine/memutils"
	"github.com/goldensun/engine/memutils/freelist"
	"github.com/stretchr/testify/require"
)

func TestPageExampleScenario(t *testing.T) {
	page := freelist.NewPage(1024)

	first, ok := page.Allocate(100, 1)
	require.True(t, ok)
	second, ok := page.Allocate(200, 1)
	require.True(t, ok)
	third, ok := page.Allocate(50, 1)
	require.True(t, ok)

	require.Equal(t, 0, first)
	require.Equal(t, 100, second)
	require.Equal(t, 300, third)
	require.Equal(t, []freelist.Range{{First: 350, Last: 1024}}, page.FreeRanges())

	page.Stall(second, 200, 5)
	require.Equal(t, 0, page.ClearStalls(4))
	require.Equal(t, []freelist.Range{{First: 350, Last: 1024}}, page.FreeRanges())
	require.Equal(t, []freelist.StallRange{{Range: freelist.Range{First: 100, Last: 300}, Fence: 5}}, page.StallRanges())

	require.Equal(t, 1, page.ClearStalls(5))
	require.Equal(t, []freelist.Range{
		{First: 100, Last: 300},
		{First: 350, Last: 1024},
	}, page.FreeRanges())
	require.Empty(t, page.StallRanges())

	page.Stall(first, 100, 6)
	page.Stall(third, 50, 7)
	require.Equal(t, 2, page.ClearStalls(7))
	require.Equal(t, []freelist.Range{{First: 0, Last: 1024}}, page.FreeRanges())
	require.True(t, page.IsEmpty())
	require.NoError(t, page.Validate())
}

func TestPageFirstFitCarvesFromFront(t *testing.T) {
	page := freelist.NewPage(1000)

	a, _ := page.Allocate(100, 1)
	b, _ := page.Allocate(300, 1)
	_, _ = page.Allocate(100, 1)

	page.Stall(a, 100, 1)
	page.Stall(b, 300, 1)
	page.ClearStalls(1)
	require.Equal(t, []freelist.Range{
		{First: 0, Last: 400},
		{First: 500, Last: 1000},
	}, page.FreeRanges())

	// A best-fit allocator would use [500, 1000); first-fit takes the front of [0, 400)
	offset, ok := page.Allocate(350, 1)
	require.True(t, ok)
	require.Equal(t, 0, offset)
	require.Equal(t, []freelist.Range{
		{First: 350, Last: 400},
		{First: 500, Last: 1000},
	}, page.FreeRanges())

	offset, ok = page.Allocate(50, 1)
	require.True(t, ok)
	require.Equal(t, 350, offset)
	require.Equal(t, []freelist.Range{{First: 500, Last: 1000}}, page.FreeRanges())

	_, ok = page.Allocate(501, 1)
	require.False(t, ok)
	require.NoError(t, page.Validate())
}

func TestPageAlignmentKeepsPaddingFree(t *testing.T) {
	page := freelist.NewPage(4096)

	a, ok := page.Allocate(100, 1)
	require.True(t, ok)
	require.Equal(t, 0, a)

	b, ok := page.Allocate(512, 512)
	require.True(t, ok)
	require.Equal(t, 512, b)
	require.Equal(t, []freelist.Range{
		{First: 100, Last: 512},
		{First: 1024, Last: 4096},
	}, page.FreeRanges())

	c, ok := page.Allocate(256, 256)
	require.True(t, ok)
	require.Equal(t, 256, c)
	require.Equal(t, []freelist.Range{
		{First: 100, Last: 256},
		{First: 1024, Last: 4096},
	}, page.FreeRanges())

	require.NoError(t, page.Validate())
}

func TestPageMergesBothNeighbours(t *testing.T) {
	page := freelist.NewPage(300)

	a, _ := page.Allocate(100, 1)
	b, _ := page.Allocate(100, 1)
	c, _ := page.Allocate(100, 1)
	require.Empty(t, page.FreeRanges())

	page.Stall(a, 100, 1)
	page.Stall(c, 100, 1)
	page.ClearStalls(1)
	require.Equal(t, []freelist.Range{
		{First: 0, Last: 100},
		{First: 200, Last: 300},
	}, page.FreeRanges())

	page.Stall(b, 100, 2)
	page.ClearStalls(2)
	require.Equal(t, []freelist.Range{{First: 0, Last: 300}}, page.FreeRanges())
}

func TestPageStallRejectsForeignRanges(t *testing.T) {
	page := freelist.NewPage(1024)
	offset, _ := page.Allocate(64, 1)

	require.Panics(t, func() {
		page.Stall(offset+1, 64, 1)
	})
	require.Panics(t, func() {
		page.Stall(offset, 32, 1)
	})

	page.Stall(offset, 64, 1)
	require.Panics(t, func() {
		page.Stall(offset, 64, 1)
	})
}

func TestPageStatistics(t *testing.T) {
	page := freelist.NewPage(1024)
	a, _ := page.Allocate(100, 1)
	_, _ = page.Allocate(200, 1)
	page.Stall(a, 100, 9)

	var stats memutils.DetailedStatistics
	stats.Clear()
	page.AddDetailedStatistics(&stats)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			BlockCount:      1,
			BlockBytes:      1024,
			AllocationCount: 1,
			AllocationBytes: 200,
		},
		UnusedRangeCount:   1,
		AllocationSizeMin:  200,
		AllocationSizeMax:  200,
		UnusedRangeSizeMin: 724,
		UnusedRangeSizeMax: 724,
		StalledRangeCount:  1,
		StalledBytes:       100,
	}, stats)

	require.Equal(t, 724, page.SumFreeSize())
	require.Equal(t, 1, page.AllocationCount())
}

type lease struct {
	offset int
	size   int
}

func TestPageRandomizedInvariants(t *testing.T) {
	const pageSize = 1 << 16
	rng := rand.New(rand.NewSource(1337))
	page := freelist.NewPage(pageSize)

	var live []lease
	fence := uint64(0)

	for iteration := 0; iteration < 5000; iteration++ {
		switch op := rng.Intn(10); {
		case op < 5:
			size := rng.Intn(2048) + 1
			alignment := 1 << rng.Intn(9)
			offset, ok := page.Allocate(size, alignment)
			if ok {
				require.Zero(t, offset%alignment)
				for _, other := range live {
					overlaps := offset < other.offset+other.size && other.offset < offset+size
					require.False(t, overlaps, "lease [%d, %d) overlaps live lease [%d, %d)",
						offset, offset+size, other.offset, other.offset+other.size)
				}
				live = append(live, lease{offset: offset, size: size})
			}
		case op < 8 && len(live) > 0:
			index := rng.Intn(len(live))
			page.Stall(live[index].offset, live[index].size, fence+uint64(rng.Intn(3)))
			live = append(live[:index], live[index+1:]...)
		default:
			fence++
			page.ClearStalls(fence)
			assertMerged(t, page.FreeRanges())
		}

		require.NoError(t, page.Validate())
	}

	for _, l := range live {
		page.Stall(l.offset, l.size, fence)
	}
	page.ClearStalls(math.MaxUint64)
	require.Equal(t, []freelist.Range{{First: 0, Last: pageSize}}, page.FreeRanges())
}

func assertMerged(t *testing.T, ranges []freelist.Range) {
	for i := 1; i < len(ranges); i++ {
		require.Less(t, ranges[i-1].Last, ranges[i].First, "free ranges %d and %d are adjacent or overlapping", i-1, i)
	}
}
