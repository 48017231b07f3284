// Command amldump builds a small fixed AML program through the public
// builder API and prints it, as a runnable demonstration of the package
// independent of any real front end.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shaderlang/aml/internal/aml"
	"github.com/shaderlang/aml/internal/collab"
	"github.com/shaderlang/aml/internal/collab/fake"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		colorFlag bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "amldump",
		Short: "Build and print a sample AML compilation unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), colorFlag, verbose)
		},
	}
	cmd.Flags().BoolVar(&colorFlag, "color", false, "force ANSI-colored output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging of pool growth and recycling")
	return cmd
}

func run(w io.Writer, colorFlag, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("amldump: building logger: %w", err)
		}
		logger = l
	}

	cfg := aml.NewConfig().WithLogger(logger)
	alloc := aml.NewAllocator(cfg)
	cu := aml.NewCompilationUnit(alloc)
	b := aml.NewBuilder()

	strs := &fake.Strings{}
	types := fake.NewDataTypes()
	functions := &fake.Functions{}
	globals := &fake.Globals{}
	enums := &fake.EnumValues{}
	constants := &fake.Constants{}
	locations := fake.NewLocations()

	buildSampleProgram(b, cu, strs, types, functions, constants, locations)

	printer := aml.NewPrinter(constants, strs, globals, functions, enums, types, locations)
	sink := collab.Sink{Writer: w, ColorEnabled: colorFlag || !color.NoColor}
	printer.Print(sink, cu)
	return nil
}

// buildSampleProgram builds max(a, b) for two i32 parameters, exercising a
// conditional branch, block parameters, and a multi-predecessor merge
// block, to demonstrate enough of the builder surface for a smoke test.
func buildSampleProgram(
	b *aml.Builder,
	cu *aml.CompilationUnit,
	strs *fake.Strings,
	types *fake.DataTypes,
	functions *fake.Functions,
	constants *fake.Constants,
	locations *fake.Locations,
) {
	name := strs.Intern("max")
	decl := functions.Add(name)
	types.DeclareSignature(decl, "func(i32, i32) -> i32")

	_, fn := cu.FunctionAdd(decl, 32)
	a := b.ValueAdd(fn, collab.DataType(fake.TypeI32))
	bb := b.ValueAdd(fn, collab.DataType(fake.TypeI32))
	fn.ParamsCount = 2

	b.BasicBlockAdd(fn, 0)

	cmpLoc := cu.LocationAdd(locations.Add("max.aml:2:9"))
	cmp, cmpOperands := b.InstrAdd(fn, aml.OpcodeGreaterThan, cmpLoc, collab.DataType(fake.TypeBool), 3)
	cmpOperands.Set(1, aml.NewOperand(aml.OperandValue, uint32(a)))
	cmpOperands.Set(2, aml.NewOperand(aml.OperandValue, uint32(bb)))

	// Reserve the successor block ids now so the conditional branch can
	// reference them before they exist; BasicBlockAdd is append-only, so we
	// build the branch operands in two passes: block ids first, bodies after.
	thenBlockID := aml.BasicBlockID(1)
	elseBlockID := aml.BasicBlockID(2)
	mergeBlockID := aml.BasicBlockID(3)

	branchLoc := cu.LocationAdd(locations.Add("max.aml:2:5"))
	_, branchOperands := b.InstrAdd(fn, aml.OpcodeBranchConditional, branchLoc, 0, 3)
	branchOperands.Set(0, aml.NewOperand(aml.OperandValue, uint32(cmp)))
	branchOperands.Set(1, aml.NewOperand(aml.OperandBasicBlock, uint32(thenBlockID)))
	branchOperands.Set(2, aml.NewOperand(aml.OperandBasicBlock, uint32(elseBlockID)))

	thenBlock := b.BasicBlockAdd(fn, 0)
	thenBranchLoc := cu.LocationAdd(locations.Add("max.aml:2:14"))
	_, thenOperands := b.InstrAdd(fn, aml.OpcodeBranch, thenBranchLoc, 0, 2)
	thenOperands.Set(0, aml.NewOperand(aml.OperandBasicBlock, uint32(mergeBlockID)))
	thenOperands.Set(1, aml.NewOperand(aml.OperandValue, uint32(a)))

	elseBlock := b.BasicBlockAdd(fn, 0)
	elseBranchLoc := cu.LocationAdd(locations.Add("max.aml:2:21"))
	_, elseOperands := b.InstrAdd(fn, aml.OpcodeBranch, elseBranchLoc, 0, 2)
	elseOperands.Set(0, aml.NewOperand(aml.OperandBasicBlock, uint32(mergeBlockID)))
	elseOperands.Set(1, aml.NewOperand(aml.OperandValue, uint32(bb)))

	mergeBlock := b.BasicBlockAdd(fn, 0)
	result := b.BasicBlockParamAdd(fn, mergeBlock, collab.DataType(fake.TypeI32))

	retLoc := cu.LocationAdd(locations.Add("max.aml:2:1"))
	_, retOperands := b.InstrAdd(fn, aml.OpcodeReturn, retLoc, 0, 1)
	retOperands.Set(0, aml.NewOperand(aml.OperandBasicBlockParam, uint32(result)))

	_ = thenBlock
	_ = elseBlock
}
