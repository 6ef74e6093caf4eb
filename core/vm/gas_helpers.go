package vm

import (
	"math"

	"github.com/holiman/uint256"
)

// GasCopy is the per-word cost for copy opcodes (CALLDATACOPY, CODECOPY, RETURNDATACOPY, EXTCODECOPY).
const GasCopy uint64 = 3

func toWordSize(size uint64) uint64 {
	if size == 0 {
		return 0
	}
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}

// safeAdd and safeMul widen into a 256-bit accumulator before checking for
// overflow, rather than bounding the inputs first (uint64 bounds checks on a
// product are themselves prone to off-by-one mistakes). Memory-expansion gas
// in particular multiplies attacker-controlled word counts together
// (words*words/512), which overflows uint64 well within reach of a
// maliciously crafted offset/size pair.
func safeAdd(a, b uint64) uint64 {
	var x, y uint256.Int
	x.SetUint64(a)
	y.SetUint64(b)
	x.Add(&x, &y)
	if !x.IsUint64() {
		return math.MaxUint64
	}
	return x.Uint64()
}

func safeMul(a, b uint64) uint64 {
	var x, y uint256.Int
	x.SetUint64(a)
	y.SetUint64(b)
	x.Mul(&x, &y)
	if !x.IsUint64() {
		return math.MaxUint64
	}
	return x.Uint64()
}

func isZeroHash(val [32]byte) bool {
	for _, b := range val {
		if b != 0 {
			return false
		}
	}
	return true
}

// SstoreGas computes the gas cost and refund for an SSTORE operation, per
// EIP-2200 as amended by EIP-3529. When cold is set (the caller found the
// slot not yet in the access list), the EIP-2929 cold-slot surcharge is
// included in the returned gas.
func SstoreGas(original, current, newVal [32]byte, cold bool) (gas uint64, refund int64) {
	if cold {
		gas += ColdSloadCost
	}

	if current == newVal {
		gas += WarmStorageReadCost
		return gas, 0
	}

	if original == current {
		if isZeroHash(original) {
			gas += GasSstoreSet
			return gas, 0
		}
		gas += GasSstoreReset
		if isZeroHash(newVal) {
			refund = int64(SstoreClearsScheduleRefund)
		}
		return gas, refund
	}

	gas += WarmStorageReadCost
	if !isZeroHash(original) {
		if isZeroHash(current) && !isZeroHash(newVal) {
			refund -= int64(SstoreClearsScheduleRefund)
		} else if !isZeroHash(current) && isZeroHash(newVal) {
			refund += int64(SstoreClearsScheduleRefund)
		}
	}
	if original == newVal {
		if isZeroHash(original) {
			refund += int64(GasSstoreSet) - int64(WarmStorageReadCost)
		} else {
			refund += int64(GasSstoreReset) - int64(WarmStorageReadCost)
		}
	}
	return gas, refund
}

// CallGas applies the 63/64 rule (EIP-150): the caller keeps 1/64th of its
// remaining gas, the rest is available to pass to the callee.
func CallGas(availableGas, requestedGas uint64) uint64 {
	maxGas := availableGas - availableGas/CallGasFraction
	if requestedGas > maxGas {
		return maxGas
	}
	return requestedGas
}
