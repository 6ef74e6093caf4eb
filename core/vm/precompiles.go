package vm

import (
	"crypto/sha256"
	"errors"

	"github.com/Sultan099/ganache/core/types"
)

// PrecompiledContract is the interface for native precompiled contracts.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// PrecompiledContractsMinimal wires only the precompiles a call simulation
// can execute without a specialized crypto dependency: identity and sha256.
// ecrecover/ripemd160/bigModExp/bn254/blake2f/kzg all need secp256k1, bn254,
// or KZG trusted-setup libraries this module doesn't carry (see DESIGN.md);
// calling them during a simulated transaction returns a plain "not
// implemented" error rather than a wrong answer.
var PrecompiledContractsMinimal = map[types.Address]PrecompiledContract{
	types.BytesToAddress([]byte{1}):    unimplementedPrecompile{},
	types.BytesToAddress([]byte{2}):    &sha256hash{},
	types.BytesToAddress([]byte{3}):    unimplementedPrecompile{},
	types.BytesToAddress([]byte{4}):    &dataCopy{},
	types.BytesToAddress([]byte{5}):    unimplementedPrecompile{},
	types.BytesToAddress([]byte{6}):    unimplementedPrecompile{},
	types.BytesToAddress([]byte{7}):    unimplementedPrecompile{},
	types.BytesToAddress([]byte{8}):    unimplementedPrecompile{},
	types.BytesToAddress([]byte{9}):    unimplementedPrecompile{},
	types.BytesToAddress([]byte{0x0a}): unimplementedPrecompile{},
}

var ErrPrecompileNotImplemented = errors.New("precompile: not implemented in the simulation core")

// unimplementedPrecompile occupies a precompile address with no implementation here.
type unimplementedPrecompile struct{}

func (unimplementedPrecompile) RequiredGas(input []byte) uint64 { return 0 }
func (unimplementedPrecompile) Run(input []byte) ([]byte, error) {
	return nil, ErrPrecompileNotImplemented
}

func IsPrecompiledContract(addr types.Address) bool {
	_, ok := PrecompiledContractsMinimal[addr]
	return ok
}

func RunPrecompiledContract(addr types.Address, input []byte, gas uint64) ([]byte, uint64, error) {
	p, ok := PrecompiledContractsMinimal[addr]
	if !ok {
		return nil, gas, errors.New("not a precompiled contract")
	}
	gasCost := p.RequiredGas(input)
	if gas < gasCost {
		return nil, 0, ErrOutOfGas
	}
	output, err := p.Run(input)
	return output, gas - gasCost, err
}

func wordCount(length int) uint64 {
	return uint64((length + 31) / 32)
}

// sha256hash is precompile 0x02.
type sha256hash struct{}

func (c *sha256hash) RequiredGas(input []byte) uint64 {
	return 60 + 12*wordCount(len(input))
}

func (c *sha256hash) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// dataCopy (identity) is precompile 0x04.
type dataCopy struct{}

func (c *dataCopy) RequiredGas(input []byte) uint64 {
	return 15 + 3*wordCount(len(input))
}

func (c *dataCopy) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}
