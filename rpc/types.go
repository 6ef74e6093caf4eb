// Package rpc exposes eth_call and eth_createAccessList over JSON-RPC,
// backed by the ephemeral simulation core in core/simulate. It intentionally
// does not implement the rest of the eth_ namespace (filters, subscriptions,
// the transaction pool, block/receipt retrieval) — those sit on a real chain
// backend this module doesn't have.
package rpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/Sultan099/ganache/core/types"
)

// BlockNumber identifies the block a call should run against.
type BlockNumber int64

const (
	LatestBlockNumber  BlockNumber = -1
	PendingBlockNumber BlockNumber = -2
	EarliestBlockNumber BlockNumber = 0
)

func (bn *BlockNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid block number: %s", string(data))
		}
		*bn = BlockNumber(n)
		return nil
	}
	switch s {
	case "latest", "":
		*bn = LatestBlockNumber
	case "pending":
		*bn = PendingBlockNumber
	case "earliest":
		*bn = EarliestBlockNumber
	default:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid block number: %s", s)
		}
		*bn = BlockNumber(n)
	}
	return nil
}

// CallArgs is the JSON shape of eth_call / eth_createAccessList's first
// parameter.
type CallArgs struct {
	From       *string          `json:"from"`
	To         *string          `json:"to"`
	Gas        *string          `json:"gas"`
	GasPrice   *string          `json:"gasPrice"`
	Value      *string          `json:"value"`
	Data       *string          `json:"data"`
	Input      *string          `json:"input"`
	AccessList []AccessTupleArg `json:"accessList"`
}

// AccessTupleArg is the JSON shape of one EIP-2930 access list entry.
type AccessTupleArg struct {
	Address     string   `json:"address"`
	StorageKeys []string `json:"storageKeys"`
}

// AccountOverride is the JSON shape of one entry in a state override map.
// State and StateDiff are mutually exclusive.
type AccountOverride struct {
	Balance   *string           `json:"balance"`
	Nonce     *string           `json:"nonce"`
	Code      *string           `json:"code"`
	State     map[string]string `json:"state"`
	StateDiff map[string]string `json:"stateDiff"`
}

// StateOverride maps address (hex string) to the override applied to it.
type StateOverride map[string]AccountOverride

// data returns the call input, preferring "input" over "data" the way
// go-ethereum-style clients do.
func (a *CallArgs) data() []byte {
	if a.Input != nil {
		return fromHex(*a.Input)
	}
	if a.Data != nil {
		return fromHex(*a.Data)
	}
	return nil
}

func fromHex(s string) []byte {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b := make([]byte, len(s)/2)
	for i := range b {
		hi := unhex(s[2*i])
		lo := unhex(s[2*i+1])
		b[i] = hi<<4 | lo
	}
	return b
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func encodeUint64(n uint64) string { return "0x" + strconv.FormatUint(n, 16) }

func encodeBytes(b []byte) string {
	if len(b) == 0 {
		return "0x"
	}
	return "0x" + fmt.Sprintf("%x", b)
}

func encodeAccessList(list types.AccessList) []AccessTupleArg {
	out := make([]AccessTupleArg, len(list))
	for i, tuple := range list {
		keys := make([]string, len(tuple.StorageKeys))
		for j, k := range tuple.StorageKeys {
			keys[j] = k.Hex()
		}
		out[i] = AccessTupleArg{Address: tuple.Address.Hex(), StorageKeys: keys}
	}
	return out
}

func parseAccessList(args []AccessTupleArg) types.AccessList {
	if len(args) == 0 {
		return nil
	}
	out := make(types.AccessList, len(args))
	for i, a := range args {
		keys := make([]types.Hash, len(a.StorageKeys))
		for j, k := range a.StorageKeys {
			keys[j] = types.HexToHash(k)
		}
		out[i] = types.AccessTuple{Address: types.HexToAddress(a.Address), StorageKeys: keys}
	}
	return out
}

func parseBigInt(s *string) *big.Int {
	if s == nil || *s == "" || *s == "0x" {
		return big.NewInt(0)
	}
	v := new(big.Int)
	str := *s
	if len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X') {
		v.SetString(str[2:], 16)
	} else {
		v.SetString(str, 10)
	}
	return v
}

func parseUint64(s *string, fallback uint64) uint64 {
	if s == nil || *s == "" || *s == "0x" {
		return fallback
	}
	str := *s
	if len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X') {
		n, err := strconv.ParseUint(str[2:], 16, 64)
		if err == nil {
			return n
		}
	}
	return fallback
}
