package aml

import (
	"fmt"

	"go.uber.org/zap"
)

// bug aborts on an invariant violation or otherwise invalid internal state.
// Per spec.md §7, these are compiler bugs, never front-end user errors, and
// are never propagated as an error value: the lowering pass is expected to
// have produced a well-formed AML before calling into this package.
func bug(logger *zap.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.DPanic("AML: BUG: " + msg)
	panic("AML: BUG: " + msg)
}

// exhausted aborts on a resource-exhaustion condition: a pool over its
// ReserveCap, or a size class at or beyond KMax. Per spec.md §4.B/§7, there
// is no recovery path; callers are expected to have sized ReserveCap/KMax
// for their worst-case input.
func exhausted(logger *zap.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("AML: resource exhausted: " + msg)
	panic("AML: resource exhausted: " + msg)
}
