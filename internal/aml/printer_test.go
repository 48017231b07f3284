package aml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shaderlang/aml/internal/collab"
	"github.com/shaderlang/aml/internal/collab/fake"
)

type printerFixture struct {
	cu        *CompilationUnit
	builder   *Builder
	printer   *Printer
	strings   *fake.Strings
	types     *fake.DataTypes
	functions *fake.Functions
	constants *fake.Constants
	locations *fake.Locations
}

// newPrinterFixture returns a fixture whose sole function carries no bound
// identifier (decl is never interned), matching spec.md §8 scenario 1's
// "Function(#N): ()" golden header, where the function name is absent.
func newPrinterFixture(t *testing.T) *printerFixture {
	t.Helper()
	alloc := NewAllocator(NewConfig())
	cu := NewCompilationUnit(alloc)

	strs := &fake.Strings{}
	types := fake.NewDataTypes()
	functions := &fake.Functions{}
	globals := &fake.Globals{}
	enums := &fake.EnumValues{}
	constants := &fake.Constants{}
	locations := fake.NewLocations()

	decl := functions.Add(0)
	types.DeclareSignature(decl, "func() -> i32")

	printer := NewPrinter(constants, strs, globals, functions, enums, types, locations)
	return &printerFixture{
		cu: cu, builder: NewBuilder(), printer: printer,
		strings: strs, types: types, functions: functions,
		constants: constants, locations: locations,
	}
}

func (pf *printerFixture) print(t *testing.T) string {
	t.Helper()
	var out strings.Builder
	pf.printer.Print(collab.Sink{Writer: &out, ColorEnabled: false}, pf.cu)
	return out.String()
}

// TestPrinterEmptyFunctionMatchesGoldenFormat is spec.md §8 scenario 1
// verbatim: alloc(max_instrs=8), basic_block_add, instr_add(RETURN), printed
// with colors off. The expected string is byte-exact, not a substring check,
// per the maintainer's point that a loose require.Contains would never catch
// a format regression.
func TestPrinterEmptyFunctionMatchesGoldenFormat(t *testing.T) {
	pf := newPrinterFixture(t)
	b := pf.builder

	_, fn := pf.cu.FunctionAdd(pf.functions.Add(0), 8)
	b.BasicBlockAdd(fn, 0)
	b.InstrAdd(fn, OpcodeReturn, 0, 0, 0)

	want := "Function(#1): ():\n" +
		"\tBASIC_BLOCK(@0):\n" +
		"\t\tRETURN();"
	require.Equal(t, want, pf.print(t))
}

// TestPrinterAddWithResultMatchesGoldenFormat is spec.md §8 scenario 3: a
// typed SSA result prints as "<type> %<id> = OPCODE(operands);".
func TestPrinterAddWithResultMatchesGoldenFormat(t *testing.T) {
	pf := newPrinterFixture(t)
	b := pf.builder

	decl := pf.functions.Add(0)
	_, fn := pf.cu.FunctionAdd(decl, 8)

	b.ValueAdd(fn, collab.DataType(fake.TypeI32)) // %0: the function's one parameter
	fn.ParamsCount = 1

	b.BasicBlockAdd(fn, 0)

	seven := pf.constants.Add(collab.DataType(fake.TypeI32), "7")
	sum, operands := b.InstrAdd(fn, OpcodeAdd, 0, collab.DataType(fake.TypeI32), 3)
	operands.Set(1, NewOperand(OperandValue, 0))
	operands.Set(2, NewOperand(OperandConstant, uint32(seven)))

	_, retOperands := b.InstrAdd(fn, OpcodeReturn, 0, 0, 1)
	retOperands.Set(0, NewOperand(OperandValue, uint32(sum)))

	want := "Function(#1): (%0: i32):\n" +
		"\tBASIC_BLOCK(@0):\n" +
		"\t\ti32 %1 = ADD(%0, 7);\n" +
		"\t\tRETURN(%1);"
	require.Equal(t, want, pf.print(t))
}

// TestPrinterSkipsTrapIntrinsic confirms slot 0's reserved __aml_trap
// function never appears in the dump, regardless of format.
func TestPrinterSkipsTrapIntrinsic(t *testing.T) {
	pf := newPrinterFixture(t)
	b := pf.builder
	_, fn := pf.cu.FunctionAdd(pf.functions.Add(0), 8)
	b.BasicBlockAdd(fn, 0)
	b.InstrAdd(fn, OpcodeReturn, 0, 0, 0)

	require.NotContains(t, pf.print(t), "__aml_trap")
}

// TestPrinterRendersBasicBlockParams is spec.md §8 scenario 4: a block
// parameter prints inside the BASIC_BLOCK header's parentheses, typed, and a
// BRANCH targeting that block carries the argument as a trailing operand.
func TestPrinterRendersBasicBlockParams(t *testing.T) {
	pf := newPrinterFixture(t)
	b := pf.builder
	_, fn := pf.cu.FunctionAdd(pf.functions.Add(0), 16)

	five := pf.constants.Add(collab.DataType(fake.TypeI32), "5")

	b.BasicBlockAdd(fn, 0)
	_, branchOperands := b.InstrAdd(fn, OpcodeBranch, 0, 0, 2)
	branchOperands.Set(0, NewOperand(OperandBasicBlock, 1))
	branchOperands.Set(1, NewOperand(OperandConstant, uint32(five)))

	blk1 := b.BasicBlockAdd(fn, 0)
	b.BasicBlockParamAdd(fn, blk1, collab.DataType(fake.TypeI32))
	b.InstrAdd(fn, OpcodeReturn, 0, 0, 0)

	lines := strings.Split(pf.print(t), "\n")
	require.Contains(t, lines, "\tBASIC_BLOCK(@0):")
	require.Contains(t, lines, "\t\tBRANCH(@1, 5);")
	require.Contains(t, lines, "\tBASIC_BLOCK(@1, %p0: i32):")
	require.Contains(t, lines, "\t\tRETURN();")
}

// TestPrinterFallThroughBranchIsVisible is spec.md §8 scenario 2: an
// unterminated block gets an implicit BRANCH to the block that follows it.
func TestPrinterFallThroughBranchIsVisible(t *testing.T) {
	pf := newPrinterFixture(t)
	b := pf.builder
	_, fn := pf.cu.FunctionAdd(pf.functions.Add(0), 16)

	b.BasicBlockAdd(fn, 0)
	b.BasicBlockAdd(fn, 0) // blk0 has no terminator: triggers the fall-through fixup
	b.InstrAdd(fn, OpcodeReturn, 0, 0, 0)

	lines := strings.Split(pf.print(t), "\n")
	require.Contains(t, lines, "\t\tBRANCH(@1);")
}

// TestPrinterSeparatesMultipleFunctionsWithBlankLine confirms functions are
// joined by exactly one blank line and the dump carries no trailing newline.
func TestPrinterSeparatesMultipleFunctionsWithBlankLine(t *testing.T) {
	pf := newPrinterFixture(t)
	b := pf.builder

	_, fn1 := pf.cu.FunctionAdd(pf.functions.Add(0), 8)
	b.BasicBlockAdd(fn1, 0)
	b.InstrAdd(fn1, OpcodeReturn, 0, 0, 0)

	_, fn2 := pf.cu.FunctionAdd(pf.functions.Add(0), 8)
	b.BasicBlockAdd(fn2, 0)
	b.InstrAdd(fn2, OpcodeReturn, 0, 0, 0)

	text := pf.print(t)
	require.False(t, strings.HasSuffix(text, "\n"), "dump must not end with a trailing newline")
	parts := strings.Split(text, "\n\n")
	require.Len(t, parts, 2, "functions must be separated by exactly one blank line")
}
