// Package chain supplies the minimal rpc.Backend a standalone ganache node
// needs: a single seeded state snapshot, no block production, no P2P. The
// simulation core treats the chain as an external collaborator behind the
// rpc.Backend interface; this is the simplest thing that satisfies that
// contract for local development against a fixed or externally-seeded
// state.
package chain

import (
	"math/big"

	"github.com/Sultan099/ganache/core/state"
	"github.com/Sultan099/ganache/core/types"
	"github.com/Sultan099/ganache/rpc"
)

// MemoryBackend serves every block tag (latest, pending, earliest, or any
// number) from the same seeded MemoryStateDB and RuntimeBlock. It never
// mutates the state it was built with — every simulate.Simulator call
// receives a fresh Copy() via Initialize, never this db directly.
type MemoryBackend struct {
	db      *state.MemoryStateDB
	block   types.RuntimeBlock
	chainID *big.Int
}

// NewMemoryBackend builds a backend around a pre-seeded state database and
// the runtime block every simulation should observe.
func NewMemoryBackend(db *state.MemoryStateDB, block types.RuntimeBlock, chainID *big.Int) *MemoryBackend {
	return &MemoryBackend{db: db, block: block, chainID: chainID}
}

func (b *MemoryBackend) StateAndBlock(_ rpc.BlockNumber) (*state.MemoryStateDB, types.RuntimeBlock, error) {
	return b.db, b.block, nil
}

func (b *MemoryBackend) ChainID() *big.Int { return b.chainID }

func (b *MemoryBackend) SuggestGasPrice() *big.Int { return big.NewInt(1_000_000_000) }

// StateDB exposes the backing database for seeding accounts before the
// server starts (balances, deployed contract code).
func (b *MemoryBackend) StateDB() *state.MemoryStateDB { return b.db }
