package aml

// Opcode identifies an AML instruction. The set is fixed by spec.md §4.C.
type Opcode uint16

const (
	OpcodeNoOp Opcode = iota
	OpcodePtrStaticAlloc
	OpcodePtrLoad
	OpcodePtrStore
	OpcodePtrAccessChain
	OpcodePtrAccessChainInBounds
	OpcodeCompositeInit
	OpcodeCompositeAccessChainGet
	OpcodeCompositeAccessChainSet
	OpcodeBasicBlock
	OpcodeBranch
	OpcodeBranchConditional
	OpcodeSwitch
	OpcodeAdd
	OpcodeSubtract
	OpcodeMultiply
	OpcodeDivide
	OpcodeModulo
	OpcodeBitAnd
	OpcodeBitOr
	OpcodeBitXor
	OpcodeBitShiftLeft
	OpcodeBitShiftRight
	OpcodeEqual
	OpcodeNotEqual
	OpcodeLessThan
	OpcodeLessThanOrEqual
	OpcodeGreaterThan
	OpcodeGreaterThanOrEqual
	OpcodeNegate
	OpcodeConvert
	OpcodeBitcast
	OpcodeCall
	OpcodeReturn
	OpcodeIntrinsicCall
	OpcodeUnreachable
	OpcodeSelect

	opcodeCount
)

// opcodeInfo is the per-opcode metadata named in spec.md §2 component D
// ("opcode metadata tables (name, has-return)").
type opcodeInfo struct {
	name           string
	hasReturnValue bool
	// terminator opcodes mark Builder.InstrAdd's "current block has a
	// branch or return" flag (spec.md §4.C).
	terminator bool
}

var opcodeTable = [opcodeCount]opcodeInfo{
	OpcodeNoOp:                    {"NO_OP", false, false},
	OpcodePtrStaticAlloc:          {"PTR_STATIC_ALLOC", true, false},
	OpcodePtrLoad:                 {"PTR_LOAD", true, false},
	OpcodePtrStore:                {"PTR_STORE", false, false},
	OpcodePtrAccessChain:          {"PTR_ACCESS_CHAIN", true, false},
	OpcodePtrAccessChainInBounds:  {"PTR_ACCESS_CHAIN_IN_BOUNDS", true, false},
	OpcodeCompositeInit:           {"COMPOSITE_INIT", true, false},
	OpcodeCompositeAccessChainGet: {"COMPOSITE_ACCESS_CHAIN_GET", true, false},
	OpcodeCompositeAccessChainSet: {"COMPOSITE_ACCESS_CHAIN_SET", false, false},
	OpcodeBasicBlock:              {"BASIC_BLOCK", false, false},
	OpcodeBranch:                  {"BRANCH", false, true},
	OpcodeBranchConditional:       {"BRANCH_CONDITIONAL", false, true},
	OpcodeSwitch:                  {"SWITCH", false, true},
	OpcodeAdd:                     {"ADD", true, false},
	OpcodeSubtract:                {"SUBTRACT", true, false},
	OpcodeMultiply:                {"MULTIPLY", true, false},
	OpcodeDivide:                  {"DIVIDE", true, false},
	OpcodeModulo:                  {"MODULO", true, false},
	OpcodeBitAnd:                  {"BIT_AND", true, false},
	OpcodeBitOr:                   {"BIT_OR", true, false},
	OpcodeBitXor:                  {"BIT_XOR", true, false},
	OpcodeBitShiftLeft:            {"BIT_SHIFT_LEFT", true, false},
	OpcodeBitShiftRight:           {"BIT_SHIFT_RIGHT", true, false},
	OpcodeEqual:                   {"EQUAL", true, false},
	OpcodeNotEqual:                {"NOT_EQUAL", true, false},
	OpcodeLessThan:                {"LESS_THAN", true, false},
	OpcodeLessThanOrEqual:         {"LESS_THAN_OR_EQUAL", true, false},
	OpcodeGreaterThan:             {"GREATER_THAN", true, false},
	OpcodeGreaterThanOrEqual:      {"GREATER_THAN_OR_EQUAL", true, false},
	OpcodeNegate:                  {"NEGATE", true, false},
	OpcodeConvert:                 {"CONVERT", true, false},
	OpcodeBitcast:                 {"BITCAST", true, false},
	OpcodeCall:                    {"CALL", true, false},
	OpcodeReturn:                  {"RETURN", false, true},
	OpcodeIntrinsicCall:           {"INTRINSIC_CALL", true, false},
	OpcodeUnreachable:             {"UNREACHABLE", false, true},
	OpcodeSelect:                  {"SELECT", true, false},
}

// String implements fmt.Stringer.
func (op Opcode) String() string {
	if int(op) >= len(opcodeTable) {
		return "OPCODE_INVALID"
	}
	return opcodeTable[op].name
}

// HasReturnValue reports whether op's first operand slot is its produced
// SSA value rather than an input, per spec.md §4.C.
func (op Opcode) HasReturnValue() bool {
	return opcodeTable[op].hasReturnValue
}

// IsTerminator reports whether op is one of BRANCH, BRANCH_CONDITIONAL,
// SWITCH, RETURN, or UNREACHABLE.
//
// spec.md §4.C lists BRANCH, BRANCH_CONDITIONAL, SWITCH, RETURN as the
// opcodes that mark a block's has_branch_or_return flag; UNREACHABLE is
// also a terminator in the opcode set of §4.C and is included here so that
// every block still ends in exactly one terminator as the GLOSSARY defines
// a basic block.
func (op Opcode) IsTerminator() bool {
	return opcodeTable[op].terminator
}
