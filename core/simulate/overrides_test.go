package simulate

import (
	"strings"
	"testing"

	"github.com/Sultan099/ganache/core/state"
	"github.com/Sultan099/ganache/core/types"
)

func TestApplyOverridesStateReplacesStorage(t *testing.T) {
	db := state.NewMemoryStateDB()
	existing := types.HexToHash("0x01")
	db.SetState(addrA, existing, types.HexToHash("0xff"))

	newSlot := "0x0000000000000000000000000000000000000000000000000000000000000002"
	newVal := "0x0000000000000000000000000000000000000000000000000000000000000009"
	overrides := OverrideMap{
		addrA: &CallOverride{State: map[string]string{newSlot: newVal}},
	}
	if err := ApplyOverrides(db, overrides); err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}

	if got := db.GetState(addrA, existing); got != (types.Hash{}) {
		t.Fatalf("pre-existing slot survived a State override: %s", got.Hex())
	}
	if got := db.GetState(addrA, types.HexToHash(newSlot)); got != types.HexToHash(newVal) {
		t.Fatalf("new slot = %s, want %s", got.Hex(), newVal)
	}
}

func TestApplyOverridesStateDiffMerges(t *testing.T) {
	db := state.NewMemoryStateDB()
	existing := types.HexToHash("0x01")
	db.SetState(addrA, existing, types.HexToHash("0xff"))

	newSlot := "0x0000000000000000000000000000000000000000000000000000000000000002"
	newVal := "0x0000000000000000000000000000000000000000000000000000000000000009"
	overrides := OverrideMap{
		addrA: &CallOverride{StateDiff: map[string]string{newSlot: newVal}},
	}
	if err := ApplyOverrides(db, overrides); err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}

	if got := db.GetState(addrA, existing); got != types.HexToHash("0xff") {
		t.Fatalf("pre-existing slot dropped by a StateDiff override: %s", got.Hex())
	}
	if got := db.GetState(addrA, types.HexToHash(newSlot)); got != types.HexToHash(newVal) {
		t.Fatalf("new slot = %s, want %s", got.Hex(), newVal)
	}
}

func TestApplyOverridesRejectsShortSlot(t *testing.T) {
	db := state.NewMemoryStateDB()
	overrides := OverrideMap{
		addrA: &CallOverride{State: map[string]string{"0x01": "0x02"}},
	}
	err := ApplyOverrides(db, overrides)
	if err == nil {
		t.Fatal("expected rejection of a short slot key")
	}
	if !strings.Contains(err.Error(), "State override slot must be a 64 character hex string") {
		t.Fatalf("err = %q, want the verbatim 64-character-hex-string message", err.Error())
	}
}
