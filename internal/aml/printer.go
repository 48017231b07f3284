package aml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/shaderlang/aml/internal/collab"
)

// Printer renders a CompilationUnit as the textual dump format spec.md
// §4.F describes: a header line per function (`Function(#idx): name(params):`),
// one tab-indented `BASIC_BLOCK(@idx, params...):` line per basic block, and
// one two-tab-indented `OPCODE(operands);` line per instruction, with the
// instruction's own defined value printed as a typed `type %idx = ` prefix
// when it has one. The printed form is a diagnostic, never a persistence
// format: nothing in this package parses it back.
type Printer struct {
	Constants collab.ConstantTable
	Strings   collab.StringInterner
	Globals   collab.GlobalVariableTable
	Functions collab.FunctionTable
	Enums     collab.EnumValueTable
	Types     collab.DataTypeSystem
	Locations collab.LocationRegistry

	// ShowLocations appends each instruction's source location as a trailing
	// comment. Off by default, matching spec.md §6's "the printed textual
	// form is stable only as a diagnostic" — with it off, output matches
	// spec.md §8's golden scenarios byte-for-byte.
	ShowLocations bool
}

// NewPrinter returns a Printer backed by the given external collaborators.
func NewPrinter(
	constants collab.ConstantTable,
	strings collab.StringInterner,
	globals collab.GlobalVariableTable,
	functions collab.FunctionTable,
	enums collab.EnumValueTable,
	types collab.DataTypeSystem,
	locations collab.LocationRegistry,
) *Printer {
	return &Printer{
		Constants: constants,
		Strings:   strings,
		Globals:   globals,
		Functions: functions,
		Enums:     enums,
		Types:     types,
		Locations: locations,
	}
}

// colorSet bundles the color.Color instances a single Print call uses, per
// spec.md §4.F: "data types cyan/blue, value/param indices yellow, block
// indices bright-cyan, names green, opcodes red."
type colorSet struct {
	typ, value, block, name, opcode *color.Color
}

func newColorSet(enabled bool) colorSet {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		c.EnableColor()
		if !enabled {
			c.DisableColor()
		}
		return c
	}
	return colorSet{
		typ:    mk(color.FgCyan),
		value:  mk(color.FgYellow),
		block:  mk(color.FgHiCyan),
		name:   mk(color.FgGreen),
		opcode: mk(color.FgRed),
	}
}

// Print writes cu's functions from UserStart onward to sink, skipping the
// reserved trap intrinsic at slot 0. Lines are newline-separated with no
// trailing newline, and functions are separated by a single blank line.
func (p *Printer) Print(sink collab.Sink, cu *CompilationUnit) {
	cs := newColorSet(sink.ColorEnabled)
	var lines []string
	for id := UserStart; int(id) < cu.FunctionCount(); id++ {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, p.functionLines(cs, cu, id)...)
	}
	fmt.Fprint(sink.Writer, strings.Join(lines, "\n"))
}

func (p *Printer) functionLines(cs colorSet, cu *CompilationUnit, id FunctionID) []string {
	fn := cu.Function(id)
	decl := cu.Decl(id)
	name, _ := p.Functions.Function(decl)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Function(#%d): ", id)
	cs.name.Fprint(&buf, p.Strings.StringOrEmpty(name))
	buf.WriteString("(")
	for i := 0; i < int(fn.ParamsCount); i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		cs.value.Fprintf(&buf, "%%%d", i)
		buf.WriteString(": ")
		cs.typ.Fprint(&buf, p.Types.String(fn.ValueDataType(ValueID(i))))
	}
	buf.WriteString("):")

	lines := []string{buf.String()}
	for b := 0; b < fn.BasicBlockCount(); b++ {
		lines = append(lines, p.basicBlockLines(cs, cu, fn, BasicBlockID(b))...)
	}
	return lines
}

func (p *Printer) basicBlockLines(cs colorSet, cu *CompilationUnit, fn *Function, id BasicBlockID) []string {
	blk := fn.BasicBlockAt(id)

	var buf bytes.Buffer
	buf.WriteString("\t")
	cs.opcode.Fprint(&buf, "BASIC_BLOCK")
	buf.WriteString("(")
	cs.block.Fprintf(&buf, "@%d", id)
	start, end := blk.Params()
	for i := start; i < end; i++ {
		buf.WriteString(", ")
		cs.value.Fprintf(&buf, "%%p%d", i)
		buf.WriteString(": ")
		cs.typ.Fprint(&buf, p.Types.String(fn.BasicBlockParamDataType(ValueID(i))))
	}
	buf.WriteString("):")

	lines := []string{buf.String()}

	words := fn.Words()
	// Skip the block's own BASIC_BLOCK header word: its sole operand is the
	// block's own index, already rendered as "@idx" above.
	header := words[blk.WordOffset]
	offset := blk.WordOffset + uint32(header>>16) + 2

	for int(offset) < len(words) {
		h := words[offset]
		opcode := Opcode(h & 0xffff)
		if opcode == OpcodeBasicBlock {
			break
		}
		operandCount := int(h >> 16)
		locationWord := collab.LocationID(words[offset+1])
		operands := OperandSlice(words[offset+2 : offset+2+uint32(operandCount)])

		lines = append(lines, p.instructionLine(cs, cu, fn, opcode, locationWord, operands))

		offset += uint32(operandCount) + 2
		if opcode.IsTerminator() {
			break
		}
	}
	return lines
}

func (p *Printer) instructionLine(
	cs colorSet,
	cu *CompilationUnit,
	fn *Function,
	op Opcode,
	location collab.LocationID,
	operands OperandSlice,
) string {
	var buf bytes.Buffer
	buf.WriteString("\t\t")

	start := 0
	if op.HasReturnValue() {
		result := operands.Get(0)
		cs.typ.Fprint(&buf, p.Types.String(fn.ValueDataType(result.ValueIndex())))
		buf.WriteString(" ")
		cs.value.Fprintf(&buf, "%%%d", result.ValueIndex())
		buf.WriteString(" = ")
		start = 1
	}

	cs.opcode.Fprint(&buf, op.String())
	buf.WriteString("(")
	for i := start; i < operands.Len(); i++ {
		if i > start {
			buf.WriteString(", ")
		}
		p.writeOperand(&buf, cs, fn, operands.Get(i))
	}
	buf.WriteString(");")

	if p.ShowLocations && p.Locations != nil {
		fmt.Fprintf(&buf, "  // %s", p.Locations.Describe(cu.Location(location)))
	}
	return buf.String()
}

func (p *Printer) writeOperand(buf *bytes.Buffer, cs colorSet, fn *Function, op Operand) {
	switch op.Kind() {
	case OperandValue:
		cs.value.Fprintf(buf, "%%%d", op.ValueIndex())
	case OperandConstant:
		p.Constants.PrintConstant(buf, collab.ConstantID(op.Aux()))
	case OperandBasicBlock:
		cs.block.Fprintf(buf, "@%d", op.BasicBlockIndex())
	case OperandBasicBlockParam:
		cs.value.Fprintf(buf, "%%p%d", op.BasicBlockParamIndex())
	case OperandDeclGlobalVariable:
		name, _ := p.Globals.GlobalVariable(collab.GlobalVariableDecl(op.Aux()))
		buf.WriteString("$")
		cs.name.Fprint(buf, p.Strings.StringOrEmpty(name))
	case OperandDeclFunction:
		name, _ := p.Functions.Function(collab.FunctionDecl(op.Aux()))
		buf.WriteString("$")
		cs.name.Fprint(buf, p.Strings.StringOrEmpty(name))
	case OperandDeclEnumValue:
		p.Constants.PrintConstant(buf, p.Enums.EnumValue(collab.EnumValueDecl(op.Aux())))
	case OperandDeclLocalVariable:
		bug(fn.logger, "printer: local variable operand reached AML (decl #%d)", op.Aux())
	case OperandDataType:
		cs.typ.Fprint(buf, p.Types.String(op.DataType()))
	default:
		bug(fn.logger, "printer: unknown operand kind %d", op.Kind())
	}
}
