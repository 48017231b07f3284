package aml

// BasicBlockID is the index of a basic block within a Function's
// basicBlocks table.
type BasicBlockID uint32

// BasicBlock is spec.md §3's basic-block record: a pointer into the word
// stream plus the block's slice of the basicBlockParams table.
//
//   - WordOffset points at the word encoding this block's BASIC_BLOCK
//     instruction (invariant 1: that instruction's single operand's aux
//     equals this block's own index).
//   - ParamsStart/ParamsCount locate this block's run of typed parameters
//     within Function.basicBlockParams (invariant 4).
//   - HasBranchOrReturn is set by Builder.InstrAdd when a terminating
//     opcode is appended, and is spec.md §4.C's "fall-through fixup"
//     signal.
type BasicBlock struct {
	WordOffset        uint32
	ParamsStart       uint32
	ParamsCount       uint32
	HasBranchOrReturn bool
}

// Params returns the half-open parameter range [ParamsStart,
// ParamsStart+ParamsCount) described by spec.md's Open Question (a): the
// correct bound is ParamsStart+ParamsCount, not ParamsCount alone.
func (b *BasicBlock) Params() (start, end uint32) {
	return b.ParamsStart, b.ParamsStart + b.ParamsCount
}
