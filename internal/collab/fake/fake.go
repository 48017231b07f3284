// Package fake provides minimal in-memory implementations of the collab
// interfaces, used only by AML's own tests and by cmd/amldump's demo
// subcommand. No non-test file under internal/aml depends on this package.
package fake

import (
	"fmt"
	"io"

	"github.com/shaderlang/aml/internal/collab"
)

// Strings is a trivial append-only string interner.
type Strings struct {
	values []string
}

// Intern adds s and returns its id.
func (s *Strings) Intern(str string) collab.StringID {
	s.values = append(s.values, str)
	return collab.StringID(len(s.values) - 1)
}

// StringOrEmpty implements collab.StringInterner.
func (s *Strings) StringOrEmpty(id collab.StringID) string {
	if int(id) >= len(s.values) {
		return ""
	}
	return s.values[id]
}

// Constants is a trivial constant table holding a type and a printable
// value per id.
type Constants struct {
	types  []collab.DataType
	values []string
}

// Add records a constant of the given type whose printable form is text.
func (c *Constants) Add(typ collab.DataType, text string) collab.ConstantID {
	c.types = append(c.types, typ)
	c.values = append(c.values, text)
	return collab.ConstantID(len(c.types) - 1)
}

// ConstantType implements collab.ConstantTable.
func (c *Constants) ConstantType(id collab.ConstantID) collab.DataType {
	return c.types[id]
}

// PrintConstant implements collab.ConstantTable.
func (c *Constants) PrintConstant(w io.Writer, id collab.ConstantID) {
	fmt.Fprint(w, c.values[id])
}

// DataTypes is a small, fixed data-type system sufficient for tests and the
// demo CLI: i32, i64, f32, f64, bool and a handful of function signatures.
type DataTypes struct {
	names      map[collab.DataType]string
	signatures map[collab.FunctionDecl]collab.DataType
}

const (
	// TypeInvalid is the zero value, reserved to mean "no type".
	TypeInvalid collab.DataType = iota
	TypeI32
	TypeI64
	TypeF32
	TypeF64
	TypeBool
	firstUserType
)

// NewDataTypes returns a DataTypes preloaded with the basic scalar types.
func NewDataTypes() *DataTypes {
	return &DataTypes{
		names: map[collab.DataType]string{
			TypeI32:  "i32",
			TypeI64:  "i64",
			TypeF32:  "f32",
			TypeF64:  "f64",
			TypeBool: "bool",
		},
		signatures: map[collab.FunctionDecl]collab.DataType{},
	}
}

// DeclareSignature registers decl's signature type, returning a fresh
// DataType handle for it.
func (d *DataTypes) DeclareSignature(decl collab.FunctionDecl, name string) collab.DataType {
	t := collab.DataType(len(d.names)) + firstUserType
	d.names[t] = name
	d.signatures[decl] = t
	return t
}

// String implements collab.DataTypeSystem.
func (d *DataTypes) String(t collab.DataType) string {
	if name, ok := d.names[t]; ok {
		return name
	}
	return fmt.Sprintf("type#%d", t)
}

// LowerASTToAML implements collab.DataTypeSystem. This fake data-type system
// uses the same handles for AST and AML types, so lowering is the identity.
func (d *DataTypes) LowerASTToAML(astType collab.DataType) collab.DataType {
	return astType
}

// SignatureOf implements collab.DataTypeSystem.
func (d *DataTypes) SignatureOf(decl collab.FunctionDecl) collab.DataType {
	return d.signatures[decl]
}

// LoweredEnumType implements collab.DataTypeSystem.
func (d *DataTypes) LoweredEnumType() collab.DataType {
	return TypeI32
}

// Globals is a trivial global-variable table.
type Globals struct {
	identifiers []collab.StringID
	types       []collab.DataType
}

// Add records a global variable, returning its declaration handle.
func (g *Globals) Add(identifier collab.StringID, typ collab.DataType) collab.GlobalVariableDecl {
	g.identifiers = append(g.identifiers, identifier)
	g.types = append(g.types, typ)
	return collab.GlobalVariableDecl(len(g.identifiers) - 1)
}

// GlobalVariable implements collab.GlobalVariableTable.
func (g *Globals) GlobalVariable(decl collab.GlobalVariableDecl) (collab.StringID, collab.DataType) {
	return g.identifiers[decl], g.types[decl]
}

// Functions is a trivial AST function table.
type Functions struct {
	identifiers []collab.StringID
}

// Add records a function declaration, returning its handle.
func (f *Functions) Add(identifier collab.StringID) collab.FunctionDecl {
	f.identifiers = append(f.identifiers, identifier)
	return collab.FunctionDecl(len(f.identifiers) - 1)
}

// Function implements collab.FunctionTable. The signature type is resolved
// separately via DataTypes.SignatureOf, matching spec.md's "return the
// function's signature type" rule which routes through the data-type system.
func (f *Functions) Function(decl collab.FunctionDecl) (collab.StringID, collab.DataType) {
	return f.identifiers[decl], collab.DataType(0)
}

// EnumValues is a trivial enum-value table.
type EnumValues struct {
	constants []collab.ConstantID
}

// Add records an enum value backed by the given constant.
func (e *EnumValues) Add(c collab.ConstantID) collab.EnumValueDecl {
	e.constants = append(e.constants, c)
	return collab.EnumValueDecl(len(e.constants) - 1)
}

// EnumValue implements collab.EnumValueTable.
func (e *EnumValues) EnumValue(decl collab.EnumValueDecl) collab.ConstantID {
	return e.constants[decl]
}

// Locations is a trivial source-location registry; index 0 is always the
// "unknown location" sentinel.
type Locations struct {
	descriptions []string
}

// NewLocations returns a Locations with the unknown-location sentinel at
// index 0.
func NewLocations() *Locations {
	return &Locations{descriptions: []string{"<unknown>"}}
}

// Add records a diagnostic description, returning its LocationID.
func (l *Locations) Add(description string) collab.LocationID {
	l.descriptions = append(l.descriptions, description)
	return collab.LocationID(len(l.descriptions) - 1)
}

// Describe implements collab.LocationRegistry.
func (l *Locations) Describe(id collab.LocationID) string {
	if int(id) >= len(l.descriptions) {
		return "<unknown>"
	}
	return l.descriptions[id]
}
