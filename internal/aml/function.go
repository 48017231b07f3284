package aml

import (
	"go.uber.org/zap"

	"github.com/shaderlang/aml/internal/collab"
)

// Function is spec.md §3's per-function record: a packed word stream of
// instructions plus the three side tables (values, basic blocks, basic
// block parameters) that the word stream's operands index into.
//
// A Function is never constructed directly; Allocator.Alloc hands one out
// sized for an estimated instruction count, and Builder appends to it.
type Function struct {
	logger *zap.Logger

	// Identifier is a reference into the external string interner for this
	// function's name. Alloc resets it to collab.StringID(0); nothing in this
	// package assigns it, and the Printer takes function names from the
	// FunctionTable instead.
	Identifier  collab.StringID
	ParamsCount uint32

	words            []uint32
	values           []valueRecord
	basicBlocks      []BasicBlock
	basicBlockParams []valueRecord

	// sizeClass is the index into Allocator's free-list table this Function
	// was most recently allocated from; Dealloc recomputes it defensively
	// from capacities rather than trusting a stale copy (see allocator.go).
	sizeClass int

	// nextFree links free Functions of the same size class together; it is
	// only ever touched by the Allocator holding the corresponding free-list
	// head.
	nextFree *Function
}

// WordCount, ValueCount, BasicBlockCount, and BasicBlockParamCount report
// the number of live entries in each of the function's tables.
func (f *Function) WordCount() int            { return len(f.words) }
func (f *Function) ValueCount() int           { return len(f.values) }
func (f *Function) BasicBlockCount() int      { return len(f.basicBlocks) }
func (f *Function) BasicBlockParamCount() int { return len(f.basicBlockParams) }

// Words returns the function's packed instruction word stream, read-only.
func (f *Function) Words() []uint32 { return f.words }

// BasicBlockAt returns the basic block recorded at id.
func (f *Function) BasicBlockAt(id BasicBlockID) *BasicBlock { return &f.basicBlocks[id] }

// ValueDataType returns the data type recorded for a value table entry.
func (f *Function) ValueDataType(id ValueID) collab.DataType { return f.values[id].DataType }

// BasicBlockParamDataType returns the data type recorded for a basic block
// parameter table entry.
func (f *Function) BasicBlockParamDataType(id ValueID) collab.DataType {
	return f.basicBlockParams[id].DataType
}

// reset clears a Function's contents in place, preserving the capacity of
// its four backing slices so the next allocation out of the same size class
// reuses the underlying arrays rather than reallocating. Per spec.md §4.B,
// "contents are reset on re-allocation, not on deallocation": Dealloc only
// ever links a Function onto a free list, and reset is called by Alloc the
// next time that Function is handed back out.
func (f *Function) reset() {
	f.Identifier = 0
	f.ParamsCount = 0
	f.words = f.words[:0]
	f.values = f.values[:0]
	f.basicBlocks = f.basicBlocks[:0]
	f.basicBlockParams = f.basicBlockParams[:0]
}

// wordsCap, valuesCap, basicBlocksCap, and basicBlockParamsCap report the
// capacity of each backing slice, used by Allocator.Dealloc to recompute
// which size class a Function belongs to.
func (f *Function) wordsCap() int            { return cap(f.words) }
func (f *Function) valuesCap() int           { return cap(f.values) }
func (f *Function) basicBlocksCap() int      { return cap(f.basicBlocks) }
func (f *Function) basicBlockParamsCap() int { return cap(f.basicBlockParams) }
