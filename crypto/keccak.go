// Package crypto provides the hash primitives the state overlay and the EVM
// need: address/contract-address derivation and storage-trie keys are all
// Keccak256 under the hood.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/Sultan099/ganache/core/types"
)

// Keccak256 returns the Keccak256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Keccak256Hash returns the Keccak256 digest as a types.Hash.
func Keccak256Hash(data ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(data...))
}
