package aml

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// page is one contiguously-backed chunk of a Pool. Once a page is full it
// is abandoned by Pool.cur but remains alive for as long as any slice
// handed out of it is still referenced, since Go slices keep their backing
// array reachable.
type page[T any] struct {
	buf  []T
	used atomic.Int64
}

// Pool is a thread-safe bump arena: PushN reserves a contiguous run of T
// and returns a stable slice over it that is never invalidated by later
// growth (spec.md §4.A). The fast path — reserving space within the
// current page — is a single atomic.CompareAndSwap; only crossing a page
// boundary takes a mutex, and only long enough to install the new page.
//
// This is the generalization of the teacher's paged single-element
// allocator (wazevoapi.Pool[T], which hands out *T one at a time from
// 128-element pages) to the contiguous push_n(count) contract spec.md
// requires, made safe for concurrent callers.
type Pool[T any] struct {
	name       string
	growCount  int
	reserveCap int
	logger     *zap.Logger

	mu       sync.Mutex // guards page creation only
	cur      atomic.Pointer[page[T]]
	totalCap int // guarded by mu
}

// NewPool returns a new Pool named for diagnostics, with the given paging
// configuration.
func NewPool[T any](name string, cfg PoolConfig, logger *zap.Logger) *Pool[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool[T]{name: name, growCount: cfg.GrowCount, reserveCap: cfg.ReserveCap, logger: logger}
}

// PushN atomically reserves count contiguous slots and returns a stable
// slice over them. It aborts fatally if doing so would exceed ReserveCap:
// per spec.md §4.A, this is a compile-time limit, not a runtime error.
func (p *Pool[T]) PushN(count int) []T {
	if count == 0 {
		return nil
	}
	for {
		pg := p.cur.Load()
		if pg != nil {
			if s, ok := tryReserve(pg, count); ok {
				return s
			}
		}
		if s, ok := p.growPage(pg, count); ok {
			return s
		}
		// Another goroutine installed a page concurrently; retry the fast path.
	}
}

// tryReserve attempts the lock-free fast path: bumping pg's used counter by
// count, looping only on benign CAS races with other reservers of the same
// page.
func tryReserve[T any](pg *page[T], count int) ([]T, bool) {
	for {
		used := pg.used.Load()
		if used+int64(count) > int64(len(pg.buf)) {
			return nil, false
		}
		if pg.used.CompareAndSwap(used, used+int64(count)) {
			return pg.buf[used : used+int64(count) : used+int64(count)], true
		}
	}
}

// growPage installs a fresh page sized to fit at least count elements and
// reserves count from it on the spot, unless another goroutine has already
// replaced expectCur with a page nobody tried yet (in which case the
// caller should just retry the fast path against it).
func (p *Pool[T]) growPage(expectCur *page[T], count int) ([]T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cur := p.cur.Load(); cur != expectCur {
		// Someone else already grew the pool; retry against the new page.
		return nil, false
	}

	size := p.growCount
	if count > size {
		size = count
	}
	if p.totalCap+size > p.reserveCap {
		exhausted(p.logger, "pool %q exhausted: reserve_cap=%d total=%d requested_page=%d",
			p.name, p.reserveCap, p.totalCap, size)
	}

	np := &page[T]{buf: make([]T, size)}
	np.used.Store(int64(count))
	p.totalCap += size
	p.cur.Store(np)

	p.logger.Debug("aml: pool grew",
		zap.String("pool", p.name), zap.Int("page_size", size), zap.Int("total_cap", p.totalCap))
	return np.buf[0:count:count], true
}

// Deinit releases the pool's reference to its current page. Per spec.md
// §4.A, pools never shrink during use. Nothing in this package calls
// Deinit: CompilationUnit.Deinit returns Functions to the Allocator and
// leaves the Allocator's pools in place.
func (p *Pool[T]) Deinit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur.Store(nil)
	p.totalCap = 0
}

// Allocated returns the total capacity ever reserved from this pool, for
// diagnostics.
func (p *Pool[T]) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalCap
}
