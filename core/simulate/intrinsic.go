package simulate

import (
	"errors"

	"github.com/Sultan099/ganache/core/types"
	"github.com/Sultan099/ganache/core/vm"
)

// Base per-transaction gas costs (Yellow Paper plus the EIPs named below).
const (
	TxGas               uint64 = 21000
	TxCreateGas         uint64 = 32000
	TxDataZeroGas       uint64 = 4
	TxDataNonZeroGas    uint64 = 16
	TxGasContractCreation uint64 = TxGas + TxCreateGas

	// TxAccessListAddressGas and TxAccessListStorageKeyGas (EIP-2930) price
	// each entry of a declared access list; charged separately from
	// IntrinsicGas, in AccessListDataFee.
	TxAccessListAddressGas    uint64 = 2400
	TxAccessListStorageKeyGas uint64 = 1900

	// InitCodeWordGas (EIP-3860) prices contract-creation init code per
	// 32-byte word, on top of TxCreateGas.
	InitCodeWordGas uint64 = 2
)

var ErrGasUint64Overflow = errors.New("gas uint64 overflow")

// IntrinsicGas is the base cost of a transaction before any EVM execution:
// the fixed per-transaction fee, the per-byte calldata fee, the
// contract-creation surcharge, and — when rules.EIP3860 is set — the
// per-word init-code fee. It never touches state and never includes the
// access-list surcharge — that is AccessListDataFee, added by the caller
// when relevant: intrinsic and access-list cost are reported separately.
//
// The contract-creation surcharge itself (TxGasContractCreation, a
// Homestead-era change) is applied unconditionally: nothing in this
// codebase's fork model reaches back before Homestead, so there is no
// rules flag for it to key off of.
func IntrinsicGas(data []byte, isCreation bool, rules vm.ForkRules) (uint64, error) {
	var gas uint64
	if isCreation {
		gas = TxGasContractCreation
	} else {
		gas = TxGas
	}

	gas, err := addCalldataGas(gas, data)
	if err != nil {
		return 0, err
	}

	if isCreation && rules.EIP3860 {
		words := toWordSize(uint64(len(data)))
		wordGas := words * InitCodeWordGas
		if words > 0 && wordGas/InitCodeWordGas != words {
			return 0, ErrGasUint64Overflow
		}
		var overflow bool
		gas, overflow = addGas(gas, wordGas)
		if overflow {
			return 0, ErrGasUint64Overflow
		}
	}

	return gas, nil
}

// addCalldataGas folds the zero/non-zero calldata byte cost into gas.
func addCalldataGas(gas uint64, data []byte) (uint64, error) {
	if len(data) == 0 {
		return gas, nil
	}
	var zeros uint64
	for _, b := range data {
		if b == 0 {
			zeros++
		}
	}
	nonZeros := uint64(len(data)) - zeros

	if nonZeros > 0 {
		nzGas := nonZeros * TxDataNonZeroGas
		if nzGas/TxDataNonZeroGas != nonZeros {
			return 0, ErrGasUint64Overflow
		}
		var overflow bool
		gas, overflow = addGas(gas, nzGas)
		if overflow {
			return 0, ErrGasUint64Overflow
		}
	}
	if zeros > 0 {
		zGas := zeros * TxDataZeroGas
		if zGas/TxDataZeroGas != zeros {
			return 0, ErrGasUint64Overflow
		}
		var overflow bool
		gas, overflow = addGas(gas, zGas)
		if overflow {
			return 0, ErrGasUint64Overflow
		}
	}
	return gas, nil
}

func addGas(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum < a
}

func toWordSize(size uint64) uint64 {
	if size > (1<<64-1)-31 {
		return (1<<64 - 1) / 32
	}
	return (size + 31) / 32
}

// AccessListDataFee is the EIP-2930 surcharge for a declared access list:
// a flat per-address fee plus a per-storage-key fee. Computed separately
// from IntrinsicGas and added into the reported gasUsed by createAccessList.
func AccessListDataFee(list types.AccessList) (uint64, error) {
	var gas uint64
	for _, tuple := range list {
		var overflow bool
		gas, overflow = addGas(gas, TxAccessListAddressGas)
		if overflow {
			return 0, ErrGasUint64Overflow
		}
		keyGas := uint64(len(tuple.StorageKeys)) * TxAccessListStorageKeyGas
		if len(tuple.StorageKeys) > 0 && keyGas/TxAccessListStorageKeyGas != uint64(len(tuple.StorageKeys)) {
			return 0, ErrGasUint64Overflow
		}
		gas, overflow = addGas(gas, keyGas)
		if overflow {
			return 0, ErrGasUint64Overflow
		}
	}
	return gas, nil
}
