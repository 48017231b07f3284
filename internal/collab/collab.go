// Package collab declares the interfaces AML expects from its external
// collaborators: the constant table, the string interner, the AST's
// global-variable and function tables, the enum-value table, the data-type
// system, and the diagnostic output sink. AML never implements these —
// they belong to the front end and the back end, named here only so the
// core can be built, type-checked, and tested on its own.
package collab

import "io"

// StringID is an opaque reference into the string interner.
type StringID uint32

// ConstantID is an opaque reference into the constant table.
type ConstantID uint32

// GlobalVariableDecl is an opaque reference into the AST's global-variable
// table.
type GlobalVariableDecl uint32

// FunctionDecl is an opaque reference into the AST's function table.
type FunctionDecl uint32

// EnumValueDecl is an opaque reference into the AST's enum-value table.
type EnumValueDecl uint32

// DataType is an opaque handle managed by the data-type system. AML never
// interprets its bits; it only threads the value through.
type DataType uint32

// LocationID indexes the source-location table. AML stores only the index;
// the table itself lives outside this module.
type LocationID uint32

// ConstantTable resolves constant ids to their type and printable form.
type ConstantTable interface {
	// ConstantType returns the data type of the constant.
	ConstantType(id ConstantID) DataType
	// PrintConstant writes the constant's value to w for diagnostic output.
	PrintConstant(w io.Writer, id ConstantID)
}

// StringInterner resolves string ids, returning "" for an absent id (per
// spec.md's string_get_or_empty).
type StringInterner interface {
	StringOrEmpty(id StringID) string
}

// GlobalVariableTable resolves global-variable declarations.
type GlobalVariableTable interface {
	GlobalVariable(decl GlobalVariableDecl) (identifier StringID, typ DataType)
}

// FunctionTable resolves function declarations to their identifier and
// signature type.
type FunctionTable interface {
	Function(decl FunctionDecl) (identifier StringID, signature DataType)
}

// EnumValueTable resolves enum-value declarations to the constant backing
// them.
type EnumValueTable interface {
	EnumValue(decl EnumValueDecl) ConstantID
}

// DataTypeSystem names and lowers data types.
type DataTypeSystem interface {
	// String returns the printable form of a data type.
	String(t DataType) string
	// LowerASTToAML lowers a front-end AST type to its AML representation.
	LowerASTToAML(astType DataType) DataType
	// SignatureOf returns the data type representing a function's
	// signature, as seen by DECL_FUNCTION operands.
	SignatureOf(decl FunctionDecl) DataType
	// LoweredEnumType returns the basic signed-integer type enum values
	// are lowered to, per spec.md's DECL_ENUM_VALUE resolution rule.
	LoweredEnumType() DataType
}

// LocationRegistry maps a LocationID, assigned externally, to a
// human-readable description used only by the printer's optional
// diagnostic output.
type LocationRegistry interface {
	Describe(id LocationID) string
}

// Sink is the printer's output target: an io.Writer plus the ANSI-color
// toggle named in spec.md §4.F ("a boolean ascii_colors_enabled").
type Sink struct {
	io.Writer
	ColorEnabled bool
}
