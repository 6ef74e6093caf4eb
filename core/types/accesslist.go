package types

import "sort"

// AccessTuple is one entry of an EIP-2930 access list: an address together
// with the storage slots the transaction declares it will touch.
type AccessTuple struct {
	Address     Address `json:"address"`
	StorageKeys []Hash  `json:"storageKeys"`
}

// AccessList is an ordered sequence of AccessTuple. Equality between two
// access lists is order-insensitive (see Canonicalize / Equal).
type AccessList []AccessTuple

// Canonicalize returns a new AccessList with duplicate storage keys removed
// per entry, slots sorted lexicographically, duplicate addresses merged, and
// the outer list sorted by address.
func (al AccessList) Canonicalize() AccessList {
	byAddr := make(map[Address]map[Hash]struct{}, len(al))
	order := make([]Address, 0, len(al))
	for _, tuple := range al {
		set, ok := byAddr[tuple.Address]
		if !ok {
			set = make(map[Hash]struct{}, len(tuple.StorageKeys))
			byAddr[tuple.Address] = set
			order = append(order, tuple.Address)
		}
		for _, k := range tuple.StorageKeys {
			set[k] = struct{}{}
		}
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].Hex() < order[j].Hex()
	})
	out := make(AccessList, 0, len(order))
	for _, addr := range order {
		set := byAddr[addr]
		keys := make([]Hash, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Hex() < keys[j].Hex() })
		out = append(out, AccessTuple{Address: addr, StorageKeys: keys})
	}
	return out
}

// Equal compares two access lists as sets of (address, {slots}), ignoring
// ordering and duplication on both sides.
func Equal(a, b AccessList) bool {
	ca, cb := a.Canonicalize(), b.Canonicalize()
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i].Address != cb[i].Address {
			return false
		}
		if len(ca[i].StorageKeys) != len(cb[i].StorageKeys) {
			return false
		}
		for j := range ca[i].StorageKeys {
			if ca[i].StorageKeys[j] != cb[i].StorageKeys[j] {
				return false
			}
		}
	}
	return true
}
