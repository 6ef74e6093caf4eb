package simulate

import (
	"github.com/Sultan099/ganache/core/state"
)

// Overlay is the copy-on-write view a Simulator runs against. It shares no
// mutable state with whatever MemoryStateDB it was built from: NewOverlay
// takes a deep Copy() up front, so nothing the simulation does — including a
// run that panics or a fixed-point loop that never converges — can reach the
// parent.
//
// Per-run isolation during the access-list fixed-point loop is narrower than
// the whole-overlay copy: Checkpoint/Revert wrap the journal's own
// snapshot/revert so only a single run's mutations are undone between
// iterations, while the sender's nonce bump and balance debit from
// Initialize survive.
type Overlay struct {
	db *state.MemoryStateDB
}

// NewOverlay builds a fresh overlay over parent.
func NewOverlay(parent *state.MemoryStateDB) *Overlay {
	return &Overlay{db: parent.Copy()}
}

// StateDB exposes the underlying store for wiring into the EVM.
func (o *Overlay) StateDB() *state.MemoryStateDB { return o.db }

// Checkpoint marks a point that Revert can later undo back to.
func (o *Overlay) Checkpoint() int { return o.db.Snapshot() }

// Revert discards every mutation made since id.
func (o *Overlay) Revert(id int) { o.db.RevertToSnapshot(id) }

// ApplyOverrides runs the override patches from initialize.
func (o *Overlay) ApplyOverrides(overrides OverrideMap) error {
	if len(overrides) == 0 {
		return nil
	}
	return ApplyOverrides(o.db, overrides)
}
