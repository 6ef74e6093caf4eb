package simulate

import (
	"fmt"

	"github.com/Sultan099/ganache/core/types"
)

// InitError marks the deterministic, pre-VM failure recorded by Initialize
// when gas is insufficient to cover the intrinsic cost. It is stored on the
// Simulator rather than returned, so Run can still synthesize a zero-gas
// result carrying it; override-validation errors are a separate
// initialization failure kind, returned directly from Initialize and never
// reaching this type.
type InitError struct {
	ExceptionError string
}

func (e *InitError) Error() string { return e.ExceptionError }

// CallError wraps a non-nil-exceptionError EVMResult so callers can extract
// revert data and gas used before the failure. PartialAccessList is set
// only when CreateAccessList's inner run raises — the last access list the
// tracker produced before the failing iteration.
type CallError struct {
	Result            *EVMResult
	PartialAccessList types.AccessList
}

func (e *CallError) Error() string {
	return fmt.Sprintf("call error: %s", e.Result.ExceptionError)
}

// NonConvergence is raised when CreateAccessList exceeds MaxIterations
// without two consecutive equal lists.
type NonConvergence struct {
	Iterations int
}

func (e *NonConvergence) Error() string {
	return fmt.Sprintf("access list did not converge after %d iterations", e.Iterations)
}
