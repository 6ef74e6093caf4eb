package simulate

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/Sultan099/ganache/core/state"
	"github.com/Sultan099/ganache/core/types"
)

// CallOverride is the pre-execution state patch for one address. State and
// StateDiff are mutually exclusive: State replaces the account's entire
// storage trie, StateDiff merges into it. Both carry raw
// hex strings rather than parsed values because the wire-format validation
// rules (exact 64-hex-character slots) are part of the external contract.
type CallOverride struct {
	Code      *string
	Nonce     *string
	Balance   *string
	State     map[string]string
	StateDiff map[string]string
}

// OverrideMap is keyed by the address the override applies to.
type OverrideMap map[types.Address]*CallOverride

// ApplyOverrides applies every override in addr order, for determinism,
// onto db. Called once during initialize, before any per-iteration
// checkpoint.
func ApplyOverrides(db *state.MemoryStateDB, overrides OverrideMap) error {
	addrs := make([]types.Address, 0, len(overrides))
	for addr := range overrides {
		addrs = append(addrs, addr)
	}
	sortAddresses(addrs)

	for _, addr := range addrs {
		ov := overrides[addr]
		if ov.State != nil && ov.StateDiff != nil {
			return fmt.Errorf("both state and stateDiff overrides specified")
		}

		if ov.Nonce != nil || ov.Balance != nil || ov.Code != nil {
			if !db.Exist(addr) {
				db.CreateAccount(addr)
			}
		}
		if ov.Nonce != nil {
			n, err := parseQuantity(*ov.Nonce)
			if err != nil {
				return fmt.Errorf("State override data not valid. Received: %s", *ov.Nonce)
			}
			db.SetNonce(addr, n.Uint64())
		}
		if ov.Balance != nil {
			b, err := parseQuantity(*ov.Balance)
			if err != nil {
				return fmt.Errorf("State override data not valid. Received: %s", *ov.Balance)
			}
			delta := new(big.Int).Sub(b, db.GetBalance(addr))
			if delta.Sign() >= 0 {
				db.AddBalance(addr, delta)
			} else {
				db.SubBalance(addr, new(big.Int).Neg(delta))
			}
		}
		if ov.Code != nil {
			code, err := parseBytes(*ov.Code)
			if err != nil {
				return fmt.Errorf("State override data not valid. Received: %s", *ov.Code)
			}
			db.SetCode(addr, code)
		}

		if ov.State != nil {
			db.ClearStorage(addr)
			if err := applyStorageOverride("State", db, addr, ov.State); err != nil {
				return err
			}
		}
		if ov.StateDiff != nil {
			if err := applyStorageOverride("StateDiff", db, addr, ov.StateDiff); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyStorageOverride validates and writes one address's slot map. label
// is "State" or "StateDiff", matching the error-message prefix callers see.
func applyStorageOverride(label string, db *state.MemoryStateDB, addr types.Address, slots map[string]string) error {
	for keyStr, valStr := range slots {
		key, err := validateSlot(label, "slot", keyStr)
		if err != nil {
			return err
		}
		val, err := validateSlot(label, "data", valStr)
		if err != nil {
			return err
		}
		db.SetState(addr, types.BytesToHash(key), types.BytesToHash(val))
	}
	return nil
}

// validateSlot enforces the wire rule that a 0x-prefixed slot key or value
// must decode to exactly 32 bytes (64 hex characters). field is "slot" or
// "data" — matching "State override slot ..." versus "State override data ...".
func validateSlot(label, field, s string) ([]byte, error) {
	body := strings.TrimPrefix(s, "0x")
	if _, err := hex.DecodeString(body); err != nil {
		return nil, fmt.Errorf("%s override data not valid. Received: %s", label, s)
	}
	if len(body) != 64 {
		return nil, fmt.Errorf("%s override %s must be a 64 character hex string. Received %d character string.", label, field, len(body))
	}
	b, _ := hex.DecodeString(body)
	return b, nil
}

// parseQuantity parses a hex quantity, treating "" and "0x" as zero per the
// reference-node convention.
func parseQuantity(s string) (*big.Int, error) {
	body := strings.TrimPrefix(s, "0x")
	if body == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(body, 16)
	if !ok {
		return nil, fmt.Errorf("invalid quantity: %s", s)
	}
	return n, nil
}

// parseBytes parses a hex byte string, treating "" and "0x" as empty.
func parseBytes(s string) ([]byte, error) {
	body := strings.TrimPrefix(s, "0x")
	if body == "" {
		return []byte{}, nil
	}
	if len(body)%2 == 1 {
		body = "0" + body
	}
	return hex.DecodeString(body)
}

func sortAddresses(addrs []types.Address) {
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Hex() < addrs[j].Hex() })
}
