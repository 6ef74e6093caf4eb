package simulate

import (
	"math/big"
	"sync/atomic"

	"github.com/Sultan099/ganache/core/types"
	"github.com/Sultan099/ganache/core/vm"
)

// ContextToken correlates every event from one simulation run: a freshly
// generated, monotonically increasing, opaque token. Subscribers must treat
// it as opaque and correlate by value, never by identity of the Simulator.
type ContextToken uint64

var nextContextToken uint64

func newContextToken() ContextToken {
	return ContextToken(atomic.AddUint64(&nextContextToken, 1))
}

// Step is one EVM opcode step, delivered synchronously with execution.
type Step struct {
	PC     uint64
	Op     vm.OpCode
	Gas    uint64
	Cost   uint64
	Stack  []*big.Int
	Memory []byte
	Depth  int
}

// Observer is the four-channel subscription surface a simulation run
// publishes to: before, per-step, console.log, and after. An interface
// owned by the orchestrator plays the role an event-emitter library would
// in a dynamically-typed host.
type Observer interface {
	Before(ctx ContextToken)
	Step(ctx ContextToken, step Step)
	ConsoleLog(ctx ContextToken, args []byte)
	After(ctx ContextToken, result *EVMResult)
}

// consoleLogAddress is the well-known Hardhat-style console.log precompile
// address. A CALL to it during a step is treated as a console.log site.
var consoleLogAddress = types.HexToAddress("0x000000000000000000636F6e736f6c652e6c6f67")

// observerTracer bridges the EVM's step-level EVMLogger hook to an
// Observer, so the orchestrator never hands the interpreter anything but a
// vm.EVMLogger. Before and After are fired by the Simulator itself: Before
// fires unconditionally during initialization, once intrinsic gas is known
// and ahead of the check that tx.Gas covers it, and After with the run's
// EVMResult, whose GasUsed includes intrinsic gas but not the access-list
// data fee CreateAccessList adds to its own returned total. Only Step and ConsoleLog come
// from CaptureState, since those need the interpreter's live stack and
// memory.
type observerTracer struct {
	obs Observer
	ctx ContextToken
}

func newObserverTracer(obs Observer, ctx ContextToken) *observerTracer {
	return &observerTracer{obs: obs, ctx: ctx}
}

func (t *observerTracer) CaptureStart(from, to types.Address, create bool, input []byte, gas uint64, value *big.Int) {
}

func (t *observerTracer) CaptureState(pc uint64, op vm.OpCode, gas, cost uint64, stack *vm.Stack, memory *vm.Memory, depth int, err error) {
	if t.obs == nil {
		return
	}
	data := stack.Data()
	stackCopy := make([]*big.Int, len(data))
	for i, v := range data {
		stackCopy[i] = new(big.Int).Set(v)
	}
	t.obs.Step(t.ctx, Step{PC: pc, Op: op, Gas: gas, Cost: cost, Stack: stackCopy, Memory: memory.Data(), Depth: depth})

	if op == vm.CALL && len(data) >= 7 {
		addr := bigToAddressLocal(data[len(data)-2])
		if addr == consoleLogAddress {
			argsOffset := data[len(data)-4].Uint64()
			argsSize := data[len(data)-5].Uint64()
			t.obs.ConsoleLog(t.ctx, memory.Get(int64(argsOffset), int64(argsSize)))
		}
	}
}

func (t *observerTracer) CaptureEnd(output []byte, gasUsed uint64, err error) {}

func bigToAddressLocal(v *big.Int) types.Address {
	return types.BytesToAddress(v.Bytes())
}
