package simulate

import (
	"errors"
	"math/big"

	"github.com/Sultan099/ganache/core/state"
	"github.com/Sultan099/ganache/core/types"
	"github.com/Sultan099/ganache/core/vm"
)

// ChainRules gates the two feature sets initialize itself branches on —
// EIP-2929 warm/cold accounting and EIP-2930 declared access lists — on top
// of the EVM's own fork rules. A block whose rules disable EIP2929 degrades
// to an empty generated access list.
type ChainRules struct {
	EIP2929 bool
	EIP2930 bool
	vm.ForkRules
}

// DefaultChainRules turns on every rule the simulator supports.
func DefaultChainRules() ChainRules {
	return ChainRules{EIP2929: true, EIP2930: true, ForkRules: vm.DefaultForkRules()}
}

type lifecycleState int

const (
	lifecycleEmpty lifecycleState = iota
	lifecycleInitialized
	lifecycleConsumed
)

// Simulator orchestrates one transaction simulation: built per request, used
// once for either Run or CreateAccessList, then discarded. Its overlay is
// never committed back to whatever MemoryStateDB it was built from.
type Simulator struct {
	lifecycle lifecycleState

	overlay *Overlay
	evm     *vm.EVM
	ctx     ContextToken
	obs     Observer

	rules ChainRules
	tx    SimulationTransaction

	intrinsic       uint64
	executionBudget uint64
	initErr         *InitError
	lastIterations  int

	exclude     AddressSet
	storageOnly AddressSet
}

// NewSimulator builds an empty Simulator. obs may be nil; step/before/after
// events are simply not delivered in that case.
func NewSimulator(obs Observer) *Simulator {
	return &Simulator{obs: obs}
}

// Iterations reports how many fixed-point passes the most recent
// CreateAccessList call took. Zero until CreateAccessList has run.
func (s *Simulator) Iterations() int { return s.lastIterations }

// Initialize prepares the overlay, EVM, and execution budget for one run.
// parent is a MemoryStateDB already pinned to tx.Block's state (the caller
// is responsible for resolving which snapshot that is; the simulator only
// ever copies it).
func (s *Simulator) Initialize(parent *state.MemoryStateDB, rules ChainRules, tx SimulationTransaction, overrides OverrideMap) error {
	if s.lifecycle != lifecycleEmpty {
		panic("simulate: Initialize called more than once on the same Simulator")
	}
	s.rules = rules
	s.tx = tx

	// Copy() alone is the isolation barrier here; there is no parent write
	// path to gate with an explicit checkpoint.
	s.overlay = NewOverlay(parent)

	blockCtx := vm.BlockContext{
		GetHash:     func(uint64) types.Hash { return types.Hash{} },
		BlockNumber: tx.Block.Number,
		Time:        tx.Block.Time,
		Coinbase:    tx.Block.Coinbase,
		GasLimit:    tx.Block.GasLimit,
		BaseFee:     tx.Block.BaseFee,
		PrevRandao:  tx.Block.PrevRandao,
	}
	txCtx := vm.TxContext{Origin: tx.From, GasPrice: tx.GasPrice}
	s.ctx = newContextToken()
	s.evm = vm.NewEVMWithState(blockCtx, txCtx, vm.Config{
		Debug:  s.obs != nil,
		Tracer: newObserverTracer(s.obs, s.ctx),
	}, s.overlay.StateDB())
	s.evm.SetForkRules(rules.ForkRules)

	isCreation := tx.To == nil
	intrinsic, err := IntrinsicGas(tx.Data, isCreation, rules.ForkRules)
	if err != nil {
		return err
	}
	s.intrinsic = intrinsic

	// Fired unconditionally, even if the budget check below records an
	// InitError and no EVM step ever runs.
	if s.obs != nil {
		s.obs.Before(s.ctx)
	}

	if tx.Gas < intrinsic {
		s.initErr = &InitError{ExceptionError: ExceptionOutOfGas}
		s.lifecycle = lifecycleInitialized
		return nil
	}
	s.executionBudget = tx.Gas - intrinsic

	// Pre-warm, overrides, declared access list, sender debit.
	exclude := newAddressSet(tx.From)
	storageOnly := AddressSet{}
	if rules.EIP2929 {
		for i := 1; i <= 0x0a; i++ {
			exclude[types.BytesToAddress([]byte{byte(i)})] = struct{}{}
		}
		s.evm.PreWarmAccessList(tx.From, tx.To)
		if tx.To != nil {
			storageOnly[*tx.To] = struct{}{}
		}
	}
	s.exclude = exclude
	s.storageOnly = storageOnly

	if err := s.overlay.ApplyOverrides(overrides); err != nil {
		return err
	}

	if rules.EIP2930 {
		warmAccessList(s.overlay.StateDB(), tx.AccessList)
	}

	db := s.overlay.StateDB()
	if !db.Exist(tx.From) {
		db.CreateAccount(tx.From)
	}
	db.SetNonce(tx.From, db.GetNonce(tx.From)+1)
	upfront := new(big.Int).Mul(new(big.Int).SetUint64(tx.Gas), tx.GasPrice)
	db.SubBalance(tx.From, upfront)

	// Overrides and the sender debit are now the pre-execution baseline;
	// SSTORE gas accounting should treat them as "already committed", not
	// as a dirty write the first SSTORE in the run would see as the
	// original value.
	db.FinalizePreState()

	s.lifecycle = lifecycleInitialized
	return nil
}

// Run executes the transaction once against the prepared overlay.
func (s *Simulator) Run() (*EVMResult, error) {
	if s.lifecycle != lifecycleInitialized {
		panic("simulate: Run called before Initialize or after consumption")
	}
	defer func() { s.lifecycle = lifecycleConsumed }()

	if s.initErr != nil {
		result := &EVMResult{GasUsed: 0, ExceptionError: s.initErr.ExceptionError}
		return result, &CallError{Result: result}
	}

	result := s.runOnce()
	if result.ExceptionError != "" {
		return result, &CallError{Result: result}
	}
	if s.obs != nil {
		s.obs.After(s.ctx, result)
	}
	return result, nil
}

// CreateAccessList runs the fixed-point loop that derives the minimal
// access list a transaction needs. seed, if non-nil, was already warmed
// into the overlay during Initialize (it is part of tx.AccessList) and also
// seeds `previous` here, so an already-optimal caller-supplied list
// converges in a single iteration.
//
// On a block whose rules disable EIP2929, warm/cold accounting doesn't
// exist, so there is nothing for an access list to optimize: the loop is
// skipped and an empty list is returned after a single plain execution.
// Run's own gas accounting is unaffected either way — only access-list
// derivation depends on this flag.
func (s *Simulator) CreateAccessList(seed types.AccessList) (types.AccessList, uint64, error) {
	if s.lifecycle != lifecycleInitialized {
		panic("simulate: CreateAccessList called before Initialize or after consumption")
	}
	defer func() { s.lifecycle = lifecycleConsumed }()

	if s.initErr != nil {
		result := &EVMResult{GasUsed: 0, ExceptionError: s.initErr.ExceptionError}
		return nil, 0, &CallError{Result: result}
	}

	if !s.rules.EIP2929 {
		result := s.runOnce()
		if result.ExceptionError != "" {
			return types.AccessList{}, 0, &CallError{Result: result}
		}
		if s.obs != nil {
			s.obs.After(s.ctx, result)
		}
		return types.AccessList{}, result.GasUsed, nil
	}

	previous := seed.Canonicalize()

	for iteration := 0; iteration < MaxIterations; iteration++ {
		s.lastIterations = iteration + 1
		checkpoint := s.overlay.Checkpoint()
		result := s.runOnce()
		current := BuildAccessList(s.overlay.StateDB().WarmSet(), s.exclude, s.storageOnly)
		s.overlay.Revert(checkpoint)

		if result.ExceptionError != "" {
			return current, 0, &CallError{Result: result, PartialAccessList: current}
		}

		if types.Equal(previous, current) {
			dataFee, err := AccessListDataFee(current)
			if err != nil {
				return nil, 0, err
			}
			gasUsed := result.GasUsed + dataFee
			if s.obs != nil {
				s.obs.After(s.ctx, result)
			}
			return current, gasUsed, nil
		}

		// Warm the tentative list so the next iteration's gas costs (and
		// therefore its control flow) reflect it: two identical lists in a
		// row is what proves the fixed point, and warming is what lets the
		// loop reach one.
		warmAccessList(s.overlay.StateDB(), current)
		previous = current
	}

	return nil, 0, &NonConvergence{Iterations: MaxIterations}
}

// runOnce invokes the EVM once with the stored call parameters and
// assembles an EVMResult. Shared by Run and each CreateAccessList iteration.
func (s *Simulator) runOnce() *EVMResult {
	db := s.overlay.StateDB()

	var (
		ret     []byte
		gasLeft uint64
		err     error
	)
	if s.tx.To == nil {
		ret, _, gasLeft, err = s.evm.Create(s.tx.From, s.tx.Data, s.executionBudget, s.tx.Value)
	} else {
		ret, gasLeft, err = s.evm.Call(s.tx.From, *s.tx.To, s.tx.Data, s.executionBudget, s.tx.Value)
	}

	gasUsed := s.executionBudget - gasLeft + s.intrinsic
	result := &EVMResult{
		ReturnValue: ret,
		GasUsed:     gasUsed,
		Logs:        db.GetLogs(types.Hash{}),
	}
	if err != nil {
		result.ExceptionError = exceptionKind(err)
	}
	return result
}

func exceptionKind(err error) string {
	switch {
	case errors.Is(err, vm.ErrExecutionReverted):
		return ExceptionReverted
	case errors.Is(err, vm.ErrOutOfGas):
		return ExceptionOutOfGas
	case errors.Is(err, vm.ErrInvalidOpCode):
		return ExceptionInvalidOpcode
	case errors.Is(err, vm.ErrStackUnderflow):
		return ExceptionStackUnderflow
	case errors.Is(err, vm.ErrStackOverflow):
		return ExceptionStackOverflow
	case errors.Is(err, vm.ErrInvalidJump):
		return ExceptionInvalidJump
	case errors.Is(err, vm.ErrWriteProtection):
		return ExceptionWriteProtection
	case errors.Is(err, vm.ErrInsufficientBalance):
		return ExceptionInsufficientFunds
	case errors.Is(err, vm.ErrMaxCallDepthExceeded):
		return ExceptionMaxCallDepth
	default:
		return ExceptionInternal
	}
}

func warmAccessList(db *state.MemoryStateDB, list types.AccessList) {
	for _, tuple := range list {
		db.AddAddressToAccessList(tuple.Address)
		for _, slot := range tuple.StorageKeys {
			db.AddSlotToAccessList(tuple.Address, slot)
		}
	}
}
