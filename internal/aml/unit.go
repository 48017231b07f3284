package aml

import "github.com/shaderlang/aml/internal/collab"

// FunctionID indexes CompilationUnit.functions. Slot 0 is reserved for the
// trap intrinsic every compilation unit carries implicitly; real,
// user-visible functions start at UserStart.
type FunctionID uint32

// UserStart is the first FunctionID a caller may bind a real function to.
// Slot 0 is reserved by the registry itself for "__aml_trap", the
// intrinsic every AML program can call on an irrecoverable runtime
// condition without needing it declared by the AST's function table. Its
// body is a single block holding one UNREACHABLE instruction.
const UserStart FunctionID = 1

// trapIdentifier is the reserved name of slot 0, used in diagnostics; the
// Printer never prints slot 0.
const trapIdentifier = "__aml_trap"

// CompilationUnit is spec.md §4.E's registry: an ordered collection of
// Functions addressed by FunctionID, plus the source-location table the
// word stream's location words index into.
type CompilationUnit struct {
	alloc *Allocator

	functions []*Function
	decls     []collab.FunctionDecl // decls[id] is the AST decl functions[id] implements, absent for slot 0

	locations []collab.LocationID
}

// NewCompilationUnit returns an empty registry with slot 0 already bound to
// the trap intrinsic.
func NewCompilationUnit(alloc *Allocator) *CompilationUnit {
	cu := &CompilationUnit{alloc: alloc}
	trap := alloc.Alloc(1)
	b := NewBuilder()
	b.BasicBlockAdd(trap, 0)
	b.InstrAdd(trap, OpcodeUnreachable, 0, 0, 0)
	cu.functions = append(cu.functions, trap)
	cu.decls = append(cu.decls, 0)
	cu.locations = append(cu.locations, 0)
	return cu
}

// FunctionAdd allocates a new Function sized for approximately maxInstrs
// instructions, binds it to decl, and returns its FunctionID.
func (cu *CompilationUnit) FunctionAdd(decl collab.FunctionDecl, maxInstrs int) (FunctionID, *Function) {
	fn := cu.alloc.Alloc(maxInstrs)
	id := FunctionID(len(cu.functions))
	cu.functions = append(cu.functions, fn)
	cu.decls = append(cu.decls, decl)
	return id, fn
}

// Function returns the Function bound to id.
func (cu *CompilationUnit) Function(id FunctionID) *Function { return cu.functions[id] }

// Decl returns the AST function declaration id is bound to. It is invalid
// to call this on slot 0 (the trap intrinsic, which has no AST decl).
func (cu *CompilationUnit) Decl(id FunctionID) collab.FunctionDecl {
	if id == 0 {
		bug(nopLoggerForPanics, "compilation_unit: slot 0 (%s) has no AST declaration", trapIdentifier)
	}
	return cu.decls[id]
}

// FunctionCount returns the number of functions registered, including the
// reserved trap intrinsic at slot 0.
func (cu *CompilationUnit) FunctionCount() int { return len(cu.functions) }

// LocationAdd appends a source location to the registry's location table
// and returns the LocationID the word stream's location words should carry.
func (cu *CompilationUnit) LocationAdd(id collab.LocationID) collab.LocationID {
	ret := collab.LocationID(len(cu.locations))
	cu.locations = append(cu.locations, id)
	return ret
}

// Location resolves a location word back to the external LocationID it was
// registered with.
func (cu *CompilationUnit) Location(id collab.LocationID) collab.LocationID {
	return cu.locations[id]
}

// Deinit releases every Function this unit owns back to the allocator.
func (cu *CompilationUnit) Deinit() {
	for _, fn := range cu.functions {
		cu.alloc.Dealloc(fn)
	}
	cu.functions = nil
	cu.decls = nil
	cu.locations = nil
}
