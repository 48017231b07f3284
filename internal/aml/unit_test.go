package aml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shaderlang/aml/internal/collab"
)

func TestCompilationUnitReservesTrapSlot(t *testing.T) {
	cu := NewCompilationUnit(NewAllocator(NewConfig()))
	require.Equal(t, 1, cu.FunctionCount())
	require.NotNil(t, cu.Function(0))
}

func TestCompilationUnitFunctionAddStartsAtUserStart(t *testing.T) {
	cu := NewCompilationUnit(NewAllocator(NewConfig()))
	id, fn := cu.FunctionAdd(collab.FunctionDecl(5), 16)
	require.Equal(t, UserStart, id)
	require.Same(t, fn, cu.Function(id))
	require.Equal(t, collab.FunctionDecl(5), cu.Decl(id))
}

func TestCompilationUnitDeclOnTrapSlotPanics(t *testing.T) {
	cu := NewCompilationUnit(NewAllocator(NewConfig()))
	require.Panics(t, func() {
		cu.Decl(0)
	})
}

func TestCompilationUnitLocationRoundTrip(t *testing.T) {
	cu := NewCompilationUnit(NewAllocator(NewConfig()))
	id := cu.LocationAdd(collab.LocationID(42))
	require.Equal(t, collab.LocationID(42), cu.Location(id))
}

func TestCompilationUnitDeinitReleasesFunctions(t *testing.T) {
	a := NewAllocator(NewConfig())
	cu := NewCompilationUnit(a)
	_, fn := cu.FunctionAdd(collab.FunctionDecl(1), 16)
	cu.Deinit()

	// The deallocated function must be recyclable from the allocator.
	got := a.Alloc(16)
	require.Same(t, fn, got)
}
