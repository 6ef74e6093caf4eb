package simulate

import (
	"math/big"

	"github.com/Sultan099/ganache/core/types"
)

// SimulationTransaction is the Simulator's input. Absence of To signals
// contract creation.
type SimulationTransaction struct {
	From       types.Address
	To         *types.Address
	Gas        uint64
	GasPrice   *big.Int
	Value      *big.Int
	Data       []byte
	Block      types.RuntimeBlock
	AccessList types.AccessList
}

// EVMResult is the outcome of one run. ExceptionError is empty on success;
// non-empty values surface a VM-internal failure.
type EVMResult struct {
	ReturnValue    []byte
	GasUsed        uint64
	ExceptionError string
	Logs           []*types.Log
}

// Exception kinds an EVMResult.ExceptionError may carry. These give the RPC
// boundary a stable name for each VM failure mode instead of leaking the
// interpreter's raw error text.
const (
	ExceptionOutOfGas          = "OUT_OF_GAS"
	ExceptionReverted          = "REVERTED"
	ExceptionInvalidOpcode     = "INVALID_OPCODE"
	ExceptionStackUnderflow    = "STACK_UNDERFLOW"
	ExceptionStackOverflow     = "STACK_OVERFLOW"
	ExceptionInvalidJump       = "INVALID_JUMP"
	ExceptionWriteProtection   = "WRITE_PROTECTION"
	ExceptionInsufficientFunds = "INSUFFICIENT_FUNDS"
	ExceptionMaxCallDepth      = "MAX_CALL_DEPTH_EXCEEDED"
	ExceptionInternal          = "INTERNAL_ERROR"
)
