package rpc

import (
	"encoding/binary"
	"fmt"

	"github.com/Sultan099/ganache/core/simulate"
	"github.com/Sultan099/ganache/core/types"
	"github.com/Sultan099/ganache/log"
)

var apiLog = log.Default().Module("rpc")

// EthAPI implements the eth_call and eth_createAccessList methods against a
// Backend, each request running through a freshly-built simulate.Simulator
// and never touching the backend's real state.
type EthAPI struct {
	backend Backend
	rules   simulate.ChainRules
}

// NewEthAPI builds an EthAPI over backend using the given chain rules
// (defaults to simulate.DefaultChainRules() if the caller has no reason to
// deviate).
func NewEthAPI(backend Backend, rules simulate.ChainRules) *EthAPI {
	return &EthAPI{backend: backend, rules: rules}
}

// CallResult is the JSON result of eth_call: the return data, hex-encoded.
type CallResult struct {
	ReturnData string `json:"data"`
}

// AccessListResult is the JSON result of eth_createAccessList.
type AccessListResult struct {
	AccessList []AccessTupleArg `json:"accessList"`
	GasUsed    string           `json:"gasUsed"`
	Error      string           `json:"error,omitempty"`
}

// Call implements eth_call: runs the transaction once and returns its
// return data, or a decoded revert reason on failure.
func (api *EthAPI) Call(args CallArgs, blockNumber BlockNumber, overrides StateOverride) (*CallResult, error) {
	db, block, err := api.backend.StateAndBlock(blockNumber)
	if err != nil {
		return nil, err
	}

	tx, err := api.buildTransaction(args, block)
	if err != nil {
		return nil, err
	}
	overrideMap, err := toOverrideMap(overrides)
	if err != nil {
		return nil, err
	}

	sim := simulate.NewSimulator(nil)
	if err := sim.Initialize(db, api.rules, tx, overrideMap); err != nil {
		return nil, err
	}

	result, err := sim.Run()
	if err != nil {
		return nil, callErrorToRPC(err)
	}
	apiLog.Debug("eth_call", "gasUsed", result.GasUsed)
	return &CallResult{ReturnData: encodeBytes(result.ReturnValue)}, nil
}

// CreateAccessList implements eth_createAccessList: runs the fixed-point
// access-list generation loop and returns the minimal access list and the
// gas the transaction would use with it applied.
func (api *EthAPI) CreateAccessList(args CallArgs, blockNumber BlockNumber, overrides StateOverride) (*AccessListResult, error) {
	db, block, err := api.backend.StateAndBlock(blockNumber)
	if err != nil {
		return nil, err
	}

	tx, err := api.buildTransaction(args, block)
	if err != nil {
		return nil, err
	}
	overrideMap, err := toOverrideMap(overrides)
	if err != nil {
		return nil, err
	}

	sim := simulate.NewSimulator(nil)
	if err := sim.Initialize(db, api.rules, tx, overrideMap); err != nil {
		return nil, err
	}

	accessList, gasUsed, err := sim.CreateAccessList(tx.AccessList)
	metrics.accessListIters.Observe(float64(sim.Iterations()))
	if err != nil {
		if callErr, ok := err.(*simulate.CallError); ok {
			return &AccessListResult{
				AccessList: encodeAccessList(callErr.PartialAccessList),
				GasUsed:    "0x0",
				Error:      callErr.Result.ExceptionError,
			}, nil
		}
		return nil, err
	}
	apiLog.Debug("eth_createAccessList", "tuples", len(accessList), "gasUsed", gasUsed)
	return &AccessListResult{AccessList: encodeAccessList(accessList), GasUsed: encodeUint64(gasUsed)}, nil
}

func (api *EthAPI) buildTransaction(args CallArgs, block types.RuntimeBlock) (simulate.SimulationTransaction, error) {
	var from types.Address
	if args.From != nil {
		from = types.HexToAddress(*args.From)
	}
	var to *types.Address
	if args.To != nil {
		t := types.HexToAddress(*args.To)
		to = &t
	}
	gasPrice := parseBigInt(args.GasPrice)
	gasLimit := parseUint64(args.Gas, block.GasLimit)

	return simulate.SimulationTransaction{
		From:       from,
		To:         to,
		Gas:        gasLimit,
		GasPrice:   gasPrice,
		Value:      parseBigInt(args.Value),
		Data:       args.data(),
		Block:      block,
		AccessList: parseAccessList(args.AccessList),
	}, nil
}

func toOverrideMap(overrides StateOverride) (simulate.OverrideMap, error) {
	if len(overrides) == 0 {
		return nil, nil
	}
	out := make(simulate.OverrideMap, len(overrides))
	for addrHex, ov := range overrides {
		out[types.HexToAddress(addrHex)] = &simulate.CallOverride{
			Code:      ov.Code,
			Nonce:     ov.Nonce,
			Balance:   ov.Balance,
			State:     ov.State,
			StateDiff: ov.StateDiff,
		}
	}
	return out, nil
}

// revertSelector is the Solidity Error(string) selector, the convention
// every revert-with-reason contract encodes its message behind.
var revertSelector = []byte{0x08, 0xc3, 0x79, 0xa2}

// decodeRevertReason extracts the human-readable string from ABI-encoded
// revert data produced by `revert("reason")`. Returns "" if data doesn't
// match the Error(string) shape.
func decodeRevertReason(data []byte) string {
	if len(data) < 4+32+32 || !bytesEqual(data[:4], revertSelector) {
		return ""
	}
	offset := binary.BigEndian.Uint64(data[4+24 : 4+32])
	strStart := 4 + int(offset)
	if strStart+32 > len(data) {
		return ""
	}
	length := binary.BigEndian.Uint64(data[strStart+24 : strStart+32])
	strDataStart := strStart + 32
	if strDataStart+int(length) > len(data) {
		return ""
	}
	return string(data[strDataStart : strDataStart+int(length)])
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// callErrorToRPC turns a *simulate.CallError into an error carrying a
// decoded revert reason when one is present, matching the RevertError shape
// JSON-RPC clients expect from a reverted eth_call.
func callErrorToRPC(err error) error {
	callErr, ok := err.(*simulate.CallError)
	if !ok {
		return err
	}
	if callErr.Result.ExceptionError == simulate.ExceptionReverted {
		if reason := decodeRevertReason(callErr.Result.ReturnValue); reason != "" {
			return fmt.Errorf("execution reverted: %s", reason)
		}
		return fmt.Errorf("execution reverted")
	}
	return fmt.Errorf("%s", callErr.Result.ExceptionError)
}
