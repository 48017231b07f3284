package aml

import "github.com/shaderlang/aml/internal/collab"

// OperandSlice is a mutable view over a run of operand words living inside
// a Function's word stream. It aliases the same backing array as
// Function.words — Operand and uint32 share layout — so writes through it
// are writes into the instruction in place, with no copy. This is what lets
// a caller back-patch a branch's target block operand once that block's id
// becomes known, without re-walking the word stream.
type OperandSlice []uint32

// Len returns the number of operands in the slice.
func (s OperandSlice) Len() int { return len(s) }

// Get returns the operand at index i.
func (s OperandSlice) Get(i int) Operand { return Operand(s[i]) }

// Set overwrites the operand at index i.
func (s OperandSlice) Set(i int, op Operand) { s[i] = uint32(op) }

// Builder is spec.md §4.C's append-only SSA construction API: every
// operation only ever grows a Function's tables, never rewrites or removes
// an existing entry, with the one sanctioned exception of back-patching an
// instruction's own operands through the OperandSlice InstrAdd returns.
//
// A Builder holds no per-function state; every method takes the target
// Function explicitly, mirroring the teacher's ssaBuilder working directly
// against the function it is currently constructing.
type Builder struct{}

// NewBuilder returns a Builder. It is stateless and safe to share, though
// the Functions it builds are not safe for concurrent construction.
func NewBuilder() *Builder { return &Builder{} }

// ValueAdd appends a new typed value to fn's value table and returns its
// id, per spec.md §4.C's value_add.
func (b *Builder) ValueAdd(fn *Function, dt collab.DataType) ValueID {
	id := ValueID(len(fn.values))
	fn.values = appendRecord(fn, fn.values, valueRecord{DataType: dt}, "values")
	return id
}

// appendRecord grows a capacity-bounded table by one element, aborting with
// exhausted if doing so would exceed the capacity the Function was
// allocated with. Pools never let a single Function's tables silently
// reallocate past the page they were carved from; undershooting the
// estimated instruction count when the Function was allocated is a
// resource-exhaustion condition, not something to paper over with a bigger
// backing array borrowed from the runtime heap.
func appendRecord[T any](fn *Function, table []T, v T, tableName string) []T {
	if len(table) == cap(table) {
		exhausted(fn.logger, "function table %q exhausted: cap=%d", tableName, cap(table))
	}
	return append(table, v)
}

// BasicBlockAdd appends a new basic block to fn and returns its id. If the
// previously-current block has no terminator yet, BasicBlockAdd first
// emits an implicit BRANCH into the new block — spec.md §4.C's
// "fall-through fixup" — so that no block is ever left without exactly one
// terminating instruction.
func (b *Builder) BasicBlockAdd(fn *Function, locationID collab.LocationID) BasicBlockID {
	newID := BasicBlockID(len(fn.basicBlocks))

	if n := len(fn.basicBlocks); n > 0 {
		prev := &fn.basicBlocks[n-1]
		if !prev.HasBranchOrReturn {
			_, operands := b.instrAddRaw(fn, OpcodeBranch, locationID, 1)
			operands.Set(0, NewOperand(OperandBasicBlock, uint32(newID)))
			prev.HasBranchOrReturn = true
		}
	}

	headerOffset := uint32(len(fn.words))
	_, operands := b.instrAddRaw(fn, OpcodeBasicBlock, locationID, 1)
	operands.Set(0, NewOperand(OperandBasicBlock, uint32(newID)))

	fn.basicBlocks = appendRecord(fn, fn.basicBlocks, BasicBlock{
		WordOffset:  headerOffset,
		ParamsStart: uint32(len(fn.basicBlockParams)),
	}, "basic_blocks")
	return newID
}

// BasicBlockParamAdd appends a new typed parameter to the current (most
// recently added) basic block and returns the value id it is addressed by
// via an OperandBasicBlockParam operand. It aborts if fn has no current
// block, or if a block other than the current one has already been closed
// off by a later BasicBlockAdd call — per spec.md §3 invariant 4, a block's
// parameters must occupy a contiguous run, so params can only be appended
// to the block most recently opened.
func (b *Builder) BasicBlockParamAdd(fn *Function, block BasicBlockID, dt collab.DataType) ValueID {
	if n := len(fn.basicBlocks); n == 0 || BasicBlockID(n-1) != block {
		bug(fn.logger, "basic_block_param_add: block #%d is not the current block", block)
	}
	id := ValueID(len(fn.basicBlockParams))
	fn.basicBlockParams = appendRecord(fn, fn.basicBlockParams, valueRecord{DataType: dt}, "basic_block_params")
	fn.basicBlocks[block].ParamsCount++
	return id
}

// InstrAdd appends a new instruction to fn and returns the OperandSlice the
// caller should fill in: operands[0] is the instruction's own defined value
// (already set, addressable as an OperandValue operand) when op has a
// return value, and is the first input operand otherwise. It reserves
// operandCount+2 words, sets the opcode/operand-count header word and the
// location word, and — for a terminator opcode — marks fn's current block
// as closed.
func (b *Builder) InstrAdd(
	fn *Function,
	op Opcode,
	locationID collab.LocationID,
	resultType collab.DataType,
	operandCount int,
) (ValueID, OperandSlice) {
	var result ValueID
	hasResult := op.HasReturnValue()
	if hasResult && operandCount < 1 {
		bug(fn.logger, "instr_add: %s has a return value but operand_count=%d", op, operandCount)
	}

	_, operands := b.instrAddRaw(fn, op, locationID, operandCount)
	if hasResult {
		result = b.ValueAdd(fn, resultType)
		operands.Set(0, NewOperand(OperandValue, uint32(result)))
	}

	if op.IsTerminator() {
		if n := len(fn.basicBlocks); n > 0 {
			fn.basicBlocks[n-1].HasBranchOrReturn = true
		}
	}
	return result, operands
}

// instrAddRaw reserves operandCount+2 words for an instruction, writes its
// header and location words, and returns a zero-valued OperandSlice over
// its operand words for the caller to populate. It performs none of
// InstrAdd's opcode-specific bookkeeping (result-value creation, terminator
// marking); BasicBlockAdd uses it directly to splice in synthetic BRANCH
// and BASIC_BLOCK instructions that are not full InstrAdd calls.
func (b *Builder) instrAddRaw(fn *Function, op Opcode, locationID collab.LocationID, operandCount int) (uint32, OperandSlice) {
	total := operandCount + 2
	if len(fn.words)+total > cap(fn.words) {
		exhausted(fn.logger, "function word stream exhausted: cap=%d requested=%d", cap(fn.words), total)
	}
	offset := uint32(len(fn.words))
	fn.words = fn.words[:len(fn.words)+total]
	fn.words[offset] = uint32(op) | uint32(operandCount)<<16
	fn.words[offset+1] = uint32(locationID)
	return offset, OperandSlice(fn.words[offset+2 : offset+2+uint32(operandCount)])
}
