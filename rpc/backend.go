package rpc

import (
	"fmt"
	"math/big"

	"github.com/Sultan099/ganache/core/state"
	"github.com/Sultan099/ganache/core/types"
)

// Backend is the one thing the RPC layer needs from whatever runs the
// actual chain: a state snapshot and matching runtime block context for a
// given block tag, plus the chain ID the simulated transaction should carry.
// A single in-memory node, a forked remote client, or a deterministic test
// fixture can all implement it.
type Backend interface {
	StateAndBlock(number BlockNumber) (*state.MemoryStateDB, types.RuntimeBlock, error)
	ChainID() *big.Int
	SuggestGasPrice() *big.Int
}

// ErrUnknownBlock is returned by a Backend when number does not resolve to
// a known snapshot.
type ErrUnknownBlock struct{ Number BlockNumber }

func (e *ErrUnknownBlock) Error() string {
	return fmt.Sprintf("unknown block: %d", e.Number)
}
