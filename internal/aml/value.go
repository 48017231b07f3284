package aml

import "github.com/shaderlang/aml/internal/collab"

// ValueID indexes either function.values (an OperandValue operand) or
// function.basicBlockParams (an OperandBasicBlockParam operand), depending
// on which table it is used with. spec.md §3 defines both tables as an
// ordered sequence of "Value{data_type}".
type ValueID uint32

// valueRecord is the Value{data_type} entry spec.md §3 describes: a typed
// slot in either function.values or function.basicBlockParams.
type valueRecord struct {
	DataType collab.DataType
}
