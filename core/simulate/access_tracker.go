package simulate

import (
	"github.com/Sultan099/ganache/core/state"
	"github.com/Sultan099/ganache/core/types"
)

// AddressSet is a small set of addresses, used for the exclusion and
// storage-only filters in BuildAccessList.
type AddressSet map[types.Address]struct{}

func newAddressSet(addrs ...types.Address) AddressSet {
	s := make(AddressSet, len(addrs))
	for _, a := range addrs {
		s[a] = struct{}{}
	}
	return s
}

func (s AddressSet) has(addr types.Address) bool {
	_, ok := s[addr]
	return ok
}

// BuildAccessList snapshots the warm-address/warm-slot tracker populated by
// one EVM run into a canonical access list:
//
//   - exclude (caller, precompiles) never appear.
//   - storageOnly (the callee) appears only if at least one of its slots
//     was touched; otherwise it is omitted entirely, not included with an
//     empty storageKeys list.
//
// The result is already canonicalized (deduped, sorted) so two snapshots
// can be compared with types.Equal without further normalization.
func BuildAccessList(warm *state.WarmSet, exclude, storageOnly AddressSet) types.AccessList {
	var out types.AccessList
	for _, addr := range warm.Addresses() {
		if exclude.has(addr) {
			continue
		}
		slots := warm.SlotsFor(addr)
		if storageOnly.has(addr) && len(slots) == 0 {
			continue
		}
		out = append(out, types.AccessTuple{Address: addr, StorageKeys: slots})
	}
	return out.Canonicalize()
}
