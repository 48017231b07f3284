// Package aml implements the Abstract Machine Language: the SSA-style,
// basic-block-structured intermediate representation sitting between this
// shader compiler's AST lowering stage and its back-end code generator.
//
// The package is built around four pieces, leaf-first:
//
//   - Pool, a thread-safe bump arena (see pool.go).
//   - Allocator, a size-class-bucketed, lock-free pool of Function records
//     built on top of Pool (see allocator.go).
//   - Builder, the append-only API used to populate a Function with values,
//     basic blocks, block parameters, and instructions (see builder.go).
//   - Printer, a textual dump of a CompilationUnit used for debugging and
//     golden tests (see printer.go).
//
// A Function's instructions are stored inline as a packed stream of 32-bit
// words rather than as a linked graph of instruction objects, so that
// forward iteration and printing touch one contiguous allocation per
// function. Operands are a uniform 4-bit-kind/28-bit-index tagged integer
// (see operand.go) in the same spirit as a tagged Value or tagged pointer
// scheme elsewhere in this kind of IR.
package aml
