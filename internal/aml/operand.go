package aml

import (
	"go.uber.org/zap"

	"github.com/shaderlang/aml/internal/collab"
)

// OperandKind tags an Operand's 28-bit aux field (spec.md §3 "Operand").
type OperandKind uint8

const (
	// OperandValue references function.values by index.
	OperandValue OperandKind = iota
	// OperandConstant references the external constant table.
	OperandConstant
	// OperandBasicBlock references function.basicBlocks by index.
	OperandBasicBlock
	// OperandBasicBlockParam references function.basicBlockParams by index.
	OperandBasicBlockParam
	// OperandDeclGlobalVariable references the AST global-variable table.
	OperandDeclGlobalVariable
	// OperandDeclFunction references the AST function table.
	OperandDeclFunction
	// OperandDeclEnumValue references the AST enum-value table.
	OperandDeclEnumValue
	// OperandDeclLocalVariable is invalid at the AML level: locals must be
	// promoted to SSA values before reaching this package (spec.md §3).
	OperandDeclLocalVariable
	// OperandDataType carries a raw collab.DataType identifier directly in
	// aux rather than indexing a table.
	OperandDataType
)

const (
	operandKindBits = 4
	operandKindMask = 1<<operandKindBits - 1
)

// Operand is spec.md §3's 32-bit tagged operand: the low operandKindBits
// bits hold the OperandKind, the remaining bits hold an index ("aux") into
// the table the kind selects. The exact split is implementation-defined by
// spec.md, chosen here to mirror the teacher's Value = type<<32|id packing
// idiom scaled down to a single word.
type Operand uint32

// NewOperand packs a kind and an aux index into an Operand.
func NewOperand(kind OperandKind, aux uint32) Operand {
	if aux > (1<<(32-operandKindBits) - 1) {
		bug(nopLoggerForPanics, "operand aux %d overflows %d bits", aux, 32-operandKindBits)
	}
	return Operand(uint32(kind)&operandKindMask | aux<<operandKindBits)
}

// Kind returns the operand's tag.
func (o Operand) Kind() OperandKind {
	return OperandKind(o & operandKindMask)
}

// Aux returns the operand's table index (or, for OperandDataType, the raw
// collab.DataType value).
func (o Operand) Aux() uint32 {
	return uint32(o) >> operandKindBits
}

// ValueIndex interprets the operand as an OperandValue index.
func (o Operand) ValueIndex() ValueID {
	return ValueID(o.Aux())
}

// BasicBlockIndex interprets the operand as an OperandBasicBlock index.
func (o Operand) BasicBlockIndex() BasicBlockID {
	return BasicBlockID(o.Aux())
}

// BasicBlockParamIndex interprets the operand as an OperandBasicBlockParam
// index.
func (o Operand) BasicBlockParamIndex() ValueID {
	return ValueID(o.Aux())
}

// DataType interprets the operand as an OperandDataType value.
func (o Operand) DataType() collab.DataType {
	return collab.DataType(o.Aux())
}

// nopLoggerForPanics backs the handful of pure, context-free helpers (like
// NewOperand) that can only ever fail on a genuine programmer bug and have
// no Config/Allocator in scope to source a real logger from.
var nopLoggerForPanics = zap.NewNop()

// OperandDataType resolves an operand to the data type it carries, per the
// rules of spec.md §4.D. BASIC_BLOCK and DECL_LOCAL_VARIABLE operands abort:
// blocks are untyped, and locals must already have been promoted to SSA
// values by the lowering pass before reaching AML.
func OperandDataType(
	fn *Function,
	constants collab.ConstantTable,
	globals collab.GlobalVariableTable,
	types collab.DataTypeSystem,
	op Operand,
) collab.DataType {
	switch op.Kind() {
	case OperandValue:
		return fn.values[op.ValueIndex()].DataType
	case OperandConstant:
		return constants.ConstantType(collab.ConstantID(op.Aux()))
	case OperandBasicBlock:
		bug(fn.logger, "operand_data_type: basic blocks are not typed (block #%d)", op.Aux())
	case OperandBasicBlockParam:
		return fn.basicBlockParams[op.BasicBlockParamIndex()].DataType
	case OperandDeclGlobalVariable:
		_, typ := globals.GlobalVariable(collab.GlobalVariableDecl(op.Aux()))
		return typ
	case OperandDeclFunction:
		return types.SignatureOf(collab.FunctionDecl(op.Aux()))
	case OperandDeclEnumValue:
		return types.LoweredEnumType()
	case OperandDeclLocalVariable:
		bug(fn.logger, "operand_data_type: local variable operand reached AML (decl #%d); locals must be promoted by lowering", op.Aux())
	case OperandDataType:
		return op.DataType()
	default:
		bug(fn.logger, "operand_data_type: unknown operand kind %d", op.Kind())
	}
	panic("unreachable")
}
