package types

import "math/big"

// RuntimeBlock is the header view the EVM observes during a simulated call.
// It deliberately carries only the fields the EVM's BlockContext needs, not
// a full consensus header.
type RuntimeBlock struct {
	Number     *big.Int
	Time       uint64
	BaseFee    *big.Int
	PrevRandao Hash
	Coinbase   Address
	GasLimit   uint64
}
