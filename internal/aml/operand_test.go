package aml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shaderlang/aml/internal/collab"
)

func TestOperandRoundTrip(t *testing.T) {
	cases := []struct {
		kind OperandKind
		aux  uint32
	}{
		{OperandValue, 0},
		{OperandValue, 12345},
		{OperandConstant, 1},
		{OperandBasicBlock, 7},
		{OperandBasicBlockParam, 2},
		{OperandDeclGlobalVariable, 99},
		{OperandDeclFunction, 1},
		{OperandDeclEnumValue, 3},
		{OperandDataType, 4},
	}
	for _, c := range cases {
		op := NewOperand(c.kind, c.aux)
		require.Equal(t, c.kind, op.Kind())
		require.Equal(t, c.aux, op.Aux())
	}
}

func TestOperandAuxOverflowPanics(t *testing.T) {
	require.Panics(t, func() {
		NewOperand(OperandValue, 1<<29)
	})
}

func TestOperandDataTypeResolvesValue(t *testing.T) {
	a := NewAllocator(NewConfig())
	fn := a.Alloc(8)
	b := NewBuilder()
	v := b.ValueAdd(fn, collab.DataType(42))

	op := NewOperand(OperandValue, uint32(v))
	got := OperandDataType(fn, nil, nil, nil, op)
	require.Equal(t, collab.DataType(42), got)
}

func TestOperandDataTypeResolvesBasicBlockParam(t *testing.T) {
	a := NewAllocator(NewConfig())
	fn := a.Alloc(8)
	b := NewBuilder()
	blk := b.BasicBlockAdd(fn, 0)
	p := b.BasicBlockParamAdd(fn, blk, collab.DataType(7))

	op := NewOperand(OperandBasicBlockParam, uint32(p))
	got := OperandDataType(fn, nil, nil, nil, op)
	require.Equal(t, collab.DataType(7), got)
}

func TestOperandDataTypeRawDataType(t *testing.T) {
	a := NewAllocator(NewConfig())
	fn := a.Alloc(8)

	op := NewOperand(OperandDataType, 9)
	got := OperandDataType(fn, nil, nil, nil, op)
	require.Equal(t, collab.DataType(9), got)
}

func TestOperandDataTypeBasicBlockPanics(t *testing.T) {
	a := NewAllocator(NewConfig())
	fn := a.Alloc(8)
	op := NewOperand(OperandBasicBlock, 0)
	require.Panics(t, func() {
		OperandDataType(fn, nil, nil, nil, op)
	})
}
