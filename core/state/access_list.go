package state

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Sultan099/ganache/core/types"
)

// WarmSet tracks the addresses and storage slots touched during a run, per
// EIP-2929. The simulator's access-list builder reads it back after each
// fixed-point iteration (see core/simulate) instead of keeping a second,
// parallel tracker.
type WarmSet struct {
	addresses map[types.Address]int // address -> index into slots, or -1 if no slots
	slots     []mapset.Set[types.Hash]
}

func newWarmSet() *WarmSet {
	return &WarmSet{
		addresses: make(map[types.Address]int),
	}
}

// AddAddress adds an address to the warm set. Returns true if the address
// was already present.
func (al *WarmSet) AddAddress(addr types.Address) bool {
	if _, ok := al.addresses[addr]; ok {
		return true
	}
	al.addresses[addr] = -1
	return false
}

// AddSlot adds a (address, slot) pair to the warm set. Returns whether the
// address and slot were already present.
func (al *WarmSet) AddSlot(addr types.Address, slot types.Hash) (addrPresent bool, slotPresent bool) {
	idx, addrPresent := al.addresses[addr]
	if addrPresent && idx != -1 {
		if al.slots[idx].Contains(slot) {
			return true, true
		}
		al.slots[idx].Add(slot)
		return true, false
	}
	al.addresses[addr] = len(al.slots)
	al.slots = append(al.slots, mapset.NewThreadUnsafeSet(slot))
	return addrPresent, false
}

// ContainsAddress returns whether the address is in the warm set.
func (al *WarmSet) ContainsAddress(addr types.Address) bool {
	_, ok := al.addresses[addr]
	return ok
}

// ContainsSlot returns whether the address and slot are in the warm set.
func (al *WarmSet) ContainsSlot(addr types.Address, slot types.Hash) (addressOk bool, slotOk bool) {
	idx, ok := al.addresses[addr]
	if !ok {
		return false, false
	}
	if idx == -1 {
		return true, false
	}
	return true, al.slots[idx].Contains(slot)
}

// Addresses enumerates every address currently in the warm set.
func (al *WarmSet) Addresses() []types.Address {
	out := make([]types.Address, 0, len(al.addresses))
	for addr := range al.addresses {
		out = append(out, addr)
	}
	return out
}

// SlotsFor enumerates every slot touched for addr. Returns nil if addr has
// no recorded slot accesses.
func (al *WarmSet) SlotsFor(addr types.Address) []types.Hash {
	idx, ok := al.addresses[addr]
	if !ok || idx == -1 {
		return nil
	}
	return al.slots[idx].ToSlice()
}

// Copy returns a deep copy of the warm set.
func (al *WarmSet) Copy() *WarmSet {
	cp := &WarmSet{
		addresses: make(map[types.Address]int, len(al.addresses)),
		slots:     make([]mapset.Set[types.Hash], len(al.slots)),
	}
	for k, v := range al.addresses {
		cp.addresses[k] = v
	}
	for i, slotSet := range al.slots {
		cp.slots[i] = slotSet.Clone()
	}
	return cp
}

// DeleteAddress removes an address from the warm set. Used during revert.
func (al *WarmSet) DeleteAddress(addr types.Address) {
	delete(al.addresses, addr)
}

// DeleteSlot removes a slot from an address in the warm set. Used during revert.
func (al *WarmSet) DeleteSlot(addr types.Address, slot types.Hash) {
	idx, ok := al.addresses[addr]
	if !ok || idx == -1 {
		return
	}
	al.slots[idx].Remove(slot)
}
