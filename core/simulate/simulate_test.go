package simulate

import (
	"math/big"
	"testing"

	"github.com/Sultan099/ganache/core/state"
	"github.com/Sultan099/ganache/core/types"
)

func newTestDB() *state.MemoryStateDB {
	return state.NewMemoryStateDB()
}

func testBlock() types.RuntimeBlock {
	return types.RuntimeBlock{
		Number:   big.NewInt(1),
		Time:     0,
		BaseFee:  big.NewInt(0),
		GasLimit: 30_000_000,
	}
}

var (
	addrA = types.HexToAddress("0x1000000000000000000000000000000000000a")
	addrB = types.HexToAddress("0x1000000000000000000000000000000000000b")
	addrC = types.HexToAddress("0x1000000000000000000000000000000000000c")
)

// A plain value transfer between two empty accounts costs exactly the base
// transaction gas, with EIP-2929 active.
func TestRunEmptyTransfer(t *testing.T) {
	db := newTestDB()
	db.AddBalance(addrA, big.NewInt(1_000_000))

	tx := SimulationTransaction{
		From:     addrA,
		To:       &addrB,
		Gas:      100000,
		GasPrice: big.NewInt(0),
		Value:    big.NewInt(15),
		Block:    testBlock(),
	}

	sim := NewSimulator(nil)
	if err := sim.Initialize(db, DefaultChainRules(), tx, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	result, err := sim.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.GasUsed != 21000 {
		t.Fatalf("gasUsed = %d, want 21000", result.GasUsed)
	}
	if result.ExceptionError != "" {
		t.Fatalf("unexpected exception: %s", result.ExceptionError)
	}
}

// A contract reads BALANCE(B). Expect accessList = [{address: B,
// storageKeys: []}] — callee C is excluded (no storage touched), B is
// included with no storage keys since it isn't in the callee-storage-only
// set.
func TestCreateAccessListCrossAddressBalance(t *testing.T) {
	db := newTestDB()
	db.AddBalance(addrA, big.NewInt(1_000_000))
	db.AddBalance(addrB, big.NewInt(42))

	// PUSH20 <B> BALANCE POP STOP
	code := append([]byte{byte(0x73)}, addrB.Bytes()...)
	code = append(code, 0x31, 0x50, 0x00)
	db.SetCode(addrC, code)

	tx := SimulationTransaction{
		From:     addrA,
		To:       &addrC,
		Gas:      100000,
		GasPrice: big.NewInt(0),
		Value:    big.NewInt(0),
		Block:    testBlock(),
	}

	sim := NewSimulator(nil)
	if err := sim.Initialize(db, DefaultChainRules(), tx, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	accessList, _, err := sim.CreateAccessList(nil)
	if err != nil {
		t.Fatalf("CreateAccessList: %v", err)
	}
	if len(accessList) != 1 {
		t.Fatalf("accessList = %+v, want exactly one tuple", accessList)
	}
	if accessList[0].Address != addrB {
		t.Fatalf("accessList[0].Address = %s, want %s", accessList[0].Address.Hex(), addrB.Hex())
	}
	if len(accessList[0].StorageKeys) != 0 {
		t.Fatalf("accessList[0].StorageKeys = %v, want empty", accessList[0].StorageKeys)
	}
}

// On a block with EIP2929 disabled, CreateAccessList degrades to an empty
// list instead of the callee's real touched-address list.
func TestCreateAccessListEmptyWhenEIP2929Disabled(t *testing.T) {
	db := newTestDB()
	db.AddBalance(addrA, big.NewInt(1_000_000))
	db.AddBalance(addrB, big.NewInt(42))

	// PUSH20 <B> BALANCE POP STOP
	code := append([]byte{byte(0x73)}, addrB.Bytes()...)
	code = append(code, 0x31, 0x50, 0x00)
	db.SetCode(addrC, code)

	tx := SimulationTransaction{
		From:     addrA,
		To:       &addrC,
		Gas:      100000,
		GasPrice: big.NewInt(0),
		Value:    big.NewInt(0),
		Block:    testBlock(),
	}

	rules := DefaultChainRules()
	rules.EIP2929 = false

	sim := NewSimulator(nil)
	if err := sim.Initialize(db, rules, tx, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	accessList, gasUsed, err := sim.CreateAccessList(nil)
	if err != nil {
		t.Fatalf("CreateAccessList: %v", err)
	}
	if len(accessList) != 0 {
		t.Fatalf("accessList = %+v, want empty", accessList)
	}
	if gasUsed == 0 {
		t.Fatalf("gasUsed = 0, want the plain execution's gas cost")
	}
}

// CreateAccessList is idempotent when fed its own output as the seed.
func TestCreateAccessListIdempotent(t *testing.T) {
	db := newTestDB()
	db.AddBalance(addrA, big.NewInt(1_000_000))

	slot := types.HexToHash("0x01")
	// PUSH1 0x01 SLOAD POP STOP
	code := []byte{0x60, 0x01, 0x54, 0x50, 0x00}
	db.SetCode(addrC, code)
	db.SetState(addrC, slot, types.HexToHash("0x07"))

	tx := SimulationTransaction{
		From:     addrA,
		To:       &addrC,
		Gas:      100000,
		GasPrice: big.NewInt(0),
		Value:    big.NewInt(0),
		Block:    testBlock(),
	}

	sim1 := NewSimulator(nil)
	if err := sim1.Initialize(db, DefaultChainRules(), tx, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	list1, gas1, err := sim1.CreateAccessList(nil)
	if err != nil {
		t.Fatalf("CreateAccessList: %v", err)
	}

	tx.AccessList = list1
	sim2 := NewSimulator(nil)
	if err := sim2.Initialize(db, DefaultChainRules(), tx, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	list2, gas2, err := sim2.CreateAccessList(list1)
	if err != nil {
		t.Fatalf("CreateAccessList (seeded): %v", err)
	}

	if !types.Equal(list1, list2) {
		t.Fatalf("list1 = %+v, list2 = %+v: not equal", list1, list2)
	}
	if gas1 != gas2 {
		t.Fatalf("gas1 = %d, gas2 = %d", gas1, gas2)
	}
}

// Insufficient gas never invokes the EVM and fails deterministically.
func TestRunInsufficientIntrinsicGas(t *testing.T) {
	db := newTestDB()
	db.AddBalance(addrA, big.NewInt(1_000_000))

	tx := SimulationTransaction{
		From:     addrA,
		To:       &addrB,
		Gas:      100,
		GasPrice: big.NewInt(0),
		Value:    big.NewInt(0),
		Block:    testBlock(),
	}

	sim := NewSimulator(nil)
	if err := sim.Initialize(db, DefaultChainRules(), tx, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	_, err := sim.Run()
	callErr, ok := err.(*CallError)
	if !ok {
		t.Fatalf("err = %v (%T), want *CallError", err, err)
	}
	if callErr.Result.ExceptionError != ExceptionOutOfGas {
		t.Fatalf("ExceptionError = %s, want %s", callErr.Result.ExceptionError, ExceptionOutOfGas)
	}
}

// Conflicting overrides are rejected verbatim, before any EVM call.
func TestConflictingOverridesRejected(t *testing.T) {
	db := newTestDB()
	tx := SimulationTransaction{
		From:     addrA,
		To:       &addrB,
		Gas:      100000,
		GasPrice: big.NewInt(0),
		Value:    big.NewInt(0),
		Block:    testBlock(),
	}
	overrides := OverrideMap{
		addrA: &CallOverride{
			State:     map[string]string{},
			StateDiff: map[string]string{},
		},
	}

	sim := NewSimulator(nil)
	err := sim.Initialize(db, DefaultChainRules(), tx, overrides)
	if err == nil {
		t.Fatal("expected rejection, got nil")
	}
	if err.Error() != "both state and stateDiff overrides specified" {
		t.Fatalf("err = %q, want verbatim rejection message", err.Error())
	}
}

// Overriding code to "" writes the canonical empty code hash.
func TestOverrideEmptyCode(t *testing.T) {
	db := newTestDB()
	db.SetCode(addrA, []byte{0x60, 0x01})

	empty := ""
	overrides := OverrideMap{addrA: &CallOverride{Code: &empty}}
	if err := ApplyOverrides(db, overrides); err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}
	if db.GetCodeHash(addrA) != types.EmptyCodeHash {
		t.Fatalf("codeHash = %s, want %s", db.GetCodeHash(addrA).Hex(), types.EmptyCodeHash.Hex())
	}
	if db.GetCodeSize(addrA) != 0 {
		t.Fatalf("codeSize = %d, want 0", db.GetCodeSize(addrA))
	}
}

// The parent database is untouched after a simulation runs and is
// discarded without ever being committed.
func TestIsolationFromParent(t *testing.T) {
	db := newTestDB()
	db.AddBalance(addrA, big.NewInt(1_000_000))
	before := db.GetBalance(addrA)

	tx := SimulationTransaction{
		From:     addrA,
		To:       &addrB,
		Gas:      100000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(15),
		Block:    testBlock(),
	}
	sim := NewSimulator(nil)
	if err := sim.Initialize(db, DefaultChainRules(), tx, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, err := sim.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if db.GetBalance(addrA).Cmp(before) != 0 {
		t.Fatalf("parent balance mutated: before=%s after=%s", before, db.GetBalance(addrA))
	}
}
