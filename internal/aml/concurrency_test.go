package aml

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestAllocatorConcurrentAllocDeallocCycles exercises the CAS+SENTINEL
// free-list handshake under contention: many goroutines repeatedly
// allocate, build one instruction, and deallocate Functions drawn from
// the same few size classes, so Alloc and Dealloc are racing
// against each other on the same free-list heads throughout.
func TestAllocatorConcurrentAllocDeallocCycles(t *testing.T) {
	const goroutines = 32
	const cycles = 200

	a := NewAllocator(NewConfig())
	b := NewBuilder()

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for c := 0; c < cycles; c++ {
				fn := a.Alloc(4 << (c % 3)) // size classes 2, 3 and 4
				b.InstrAdd(fn, OpcodeNoOp, 0, 0, 0)
				if fn.WordCount() != 2 {
					return errUnexpectedWordCount
				}
				a.Dealloc(fn)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

var errUnexpectedWordCount = &wordCountError{}

type wordCountError struct{}

func (*wordCountError) Error() string { return "unexpected word count after InstrAdd" }

// TestPoolConcurrentPushNNeverAliases exercises Pool's lock-free fast path
// and its mutex-guarded page-growth path simultaneously: many goroutines
// reserve small runs from a pool whose pages are deliberately tiny, so
// an 8-slot page holds only two 3-slot reservations and every other PushN
// call has to install a new page.
func TestPoolConcurrentPushNNeverAliases(t *testing.T) {
	const goroutines = 64
	const perGoroutine = 100

	p := NewPool[int]("concurrent", PoolConfig{GrowCount: 8, ReserveCap: 1 << 20}, nil)

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		i := i
		g.Go(func() error {
			for c := 0; c < perGoroutine; c++ {
				s := p.PushN(3)
				for j := range s {
					s[j] = i*1_000_000 + c*10 + j
				}
				for j := range s {
					if s[j] != i*1_000_000+c*10+j {
						return &wordCountError{}
					}
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	// Each grown page may over-provision beyond the exact count requested
	// (growPage sizes pages to max(growCount, count)), so total allocated
	// capacity is only ever >= what was actually reserved.
	require.GreaterOrEqual(t, p.Allocated(), goroutines*perGoroutine*3)
}
