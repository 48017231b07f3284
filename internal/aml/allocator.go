package aml

import (
	"math/bits"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
)

// sentinelFunction is the distinguished "locked" marker spec.md §4.B's
// free-list handshake swaps in while a popper is mid-unlink. No real
// Function is ever compared by value against it; only pointer identity via
// atomic.Pointer[Function].CompareAndSwap matters, so a single shared zero
// value works for every size class.
var sentinelFunction = &Function{}

// Allocator is spec.md §4.B's lock-free, size-class-bucketed function
// allocator. Each size class owns an independent free-list head; Alloc and
// Dealloc only ever touch the single size class a request maps to.
type Allocator struct {
	cfg *Config

	functionsPool        *Pool[Function]
	wordsPool            *Pool[uint32]
	valuesPool           *Pool[valueRecord]
	basicBlocksPool      *Pool[BasicBlock]
	basicBlockParamsPool *Pool[valueRecord]

	// freeLists[i] is the free-list head for size class KMin+i. Every
	// element starts nil (empty) and is only ever stored to by pushFree or
	// popFree.
	freeLists []atomic.Pointer[Function]
}

// NewAllocator builds an Allocator from cfg, or NewConfig()'s defaults if
// cfg is nil.
func NewAllocator(cfg *Config) *Allocator {
	if cfg == nil {
		cfg = NewConfig()
	}
	n := cfg.sizeClasses.KMax - cfg.sizeClasses.KMin
	if n <= 0 {
		bug(cfg.logger, "allocator: empty size-class range [%d,%d)", cfg.sizeClasses.KMin, cfg.sizeClasses.KMax)
	}
	return &Allocator{
		cfg:                  cfg,
		functionsPool:        NewPool[Function]("functions", cfg.functionsPool, cfg.logger),
		wordsPool:            NewPool[uint32]("words", cfg.wordsPool, cfg.logger),
		valuesPool:           NewPool[valueRecord]("values", cfg.valuesPool, cfg.logger),
		basicBlocksPool:      NewPool[BasicBlock]("basic_blocks", cfg.basicBlocksPool, cfg.logger),
		basicBlockParamsPool: NewPool[valueRecord]("basic_block_params", cfg.basicBlockParamPool, cfg.logger),
		freeLists:            make([]atomic.Pointer[Function], n),
	}
}

// sizeClassFor maps an estimated maximum instruction count to a size class
// index in [KMin, KMax), per spec.md §4.B: k = ceil_log2(maxInstrs), floored
// to KMin. Exceeding KMax is fatal, not clamped: spec.md §4.B/§7 classify it
// as a resource-exhaustion abort.
func (a *Allocator) sizeClassFor(maxInstrs int) int {
	if maxInstrs < 1 {
		maxInstrs = 1
	}
	k := ceilLog2(maxInstrs)
	if k < a.cfg.sizeClasses.KMin {
		k = a.cfg.sizeClasses.KMin
	}
	if k >= a.cfg.sizeClasses.KMax {
		exhausted(a.cfg.logger, "size class %d exceeds KMax=%d (requested maxInstrs=%d)",
			k, a.cfg.sizeClasses.KMax, maxInstrs)
	}
	return k
}

// ceilLog2 returns the smallest k such that 1<<k >= n, for n >= 1.
func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// capsForSizeClass returns the table capacities a fresh Function of size
// class k should be allocated with, derived from the configured
// per-instruction averages.
func (a *Allocator) capsForSizeClass(k int) (wordsCap, valuesCap, basicBlocksCap, basicBlockParamsCap int) {
	instrs := 1 << uint(k)
	avg := a.cfg.averages
	return scale(avg.WordsPerInstr, instrs),
		scale(avg.ValuesPerInstr, instrs),
		scale(avg.BasicBlocksPerInstr, instrs),
		scale(avg.BasicBlockParamsPerInstr, instrs)
}

func scale(perInstr float64, instrs int) int {
	n := int(perInstr*float64(instrs) + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// Alloc returns a Function sized for approximately maxInstrs instructions,
// reusing a deallocated Function from the matching size class's free list
// when one is available, falling back to a fresh allocation out of the
// pools otherwise.
func (a *Allocator) Alloc(maxInstrs int) *Function {
	k := a.sizeClassFor(maxInstrs)
	if fn := a.popFree(k); fn != nil {
		fn.reset()
		fn.sizeClass = k
		a.cfg.logger.Debug("aml: function recycled", zap.Int("size_class", k))
		return fn
	}
	return a.freshAlloc(k)
}

func (a *Allocator) freshAlloc(k int) *Function {
	wordsCap, valuesCap, basicBlocksCap, basicBlockParamsCap := a.capsForSizeClass(k)

	slot := a.functionsPool.PushN(1)
	fn := &slot[0]
	fn.logger = a.cfg.logger
	fn.sizeClass = k
	fn.words = a.wordsPool.PushN(wordsCap)[:0]
	fn.values = a.valuesPool.PushN(valuesCap)[:0]
	fn.basicBlocks = a.basicBlocksPool.PushN(basicBlocksCap)[:0]
	fn.basicBlockParams = a.basicBlockParamsPool.PushN(basicBlockParamsCap)[:0]
	return fn
}

// Dealloc returns fn to its size class's free list. fn's size class is
// recomputed from its table capacities rather than trusted from the field
// set at allocation time, so that a Function handed out, shrunk by a buggy
// caller, and returned still lands back on a free list sized no larger than
// what it actually backs.
func (a *Allocator) Dealloc(fn *Function) {
	k := a.sizeClassFromCaps(fn)
	a.pushFree(k, fn)
}

func (a *Allocator) sizeClassFromCaps(fn *Function) int {
	w := a.cfg.averages.WordsPerInstr
	instrs := float64(fn.wordsCap())
	if w > 0 {
		instrs /= w
	}
	k := ceilLog2(int(instrs + 0.5))
	if k < a.cfg.sizeClasses.KMin {
		k = a.cfg.sizeClasses.KMin
	}
	if k >= a.cfg.sizeClasses.KMax {
		exhausted(a.cfg.logger, "size class %d recomputed from function capacity exceeds KMax=%d", k, a.cfg.sizeClasses.KMax)
	}
	return k
}

func (a *Allocator) listIndex(k int) int { return k - a.cfg.sizeClasses.KMin }

// popFree unlinks and returns the head of size class k's free list, or nil
// if it is empty. While a concurrent popper holds the list locked (the head
// reads as sentinelFunction), callers spin with runtime.Gosched rather than
// busy-spinning tightly, since the lock is only ever held for the handful
// of instructions between the CAS and the follow-up store.
func (a *Allocator) popFree(k int) *Function {
	head := &a.freeLists[a.listIndex(k)]
	for {
		cur := head.Load()
		if cur == nil {
			return nil
		}
		if cur == sentinelFunction {
			runtime.Gosched()
			continue
		}
		if head.CompareAndSwap(cur, sentinelFunction) {
			next := cur.nextFree
			cur.nextFree = nil
			head.Store(next)
			return cur
		}
	}
}

// pushFree links fn onto the front of size class k's free list.
func (a *Allocator) pushFree(k int, fn *Function) {
	head := &a.freeLists[a.listIndex(k)]
	for {
		cur := head.Load()
		if cur == sentinelFunction {
			runtime.Gosched()
			continue
		}
		fn.nextFree = cur
		if head.CompareAndSwap(cur, fn) {
			return
		}
	}
}
