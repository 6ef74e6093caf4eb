package simulate

import (
	"testing"

	"github.com/Sultan099/ganache/core/types"
	"github.com/Sultan099/ganache/core/vm"
)

// IntrinsicGas matches the reference gas schedule for all combinations of
// (empty data, zero bytes, non-zero bytes) x (creation?).
func TestIntrinsicGas(t *testing.T) {
	rules := vm.DefaultForkRules()
	cases := []struct {
		name       string
		data       []byte
		isCreation bool
		want       uint64
	}{
		{"empty call", nil, false, TxGas},
		{"empty creation", nil, true, TxGasContractCreation},
		{"zero bytes call", []byte{0, 0, 0}, false, TxGas + 3*TxDataZeroGas},
		{"non-zero bytes call", []byte{1, 2, 3}, false, TxGas + 3*TxDataNonZeroGas},
		{"mixed bytes call", []byte{0, 1, 0, 2}, false, TxGas + 2*TxDataZeroGas + 2*TxDataNonZeroGas},
		{"non-zero bytes creation", []byte{1, 2, 3}, true, TxGasContractCreation + 3*TxDataNonZeroGas + InitCodeWordGas},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := IntrinsicGas(c.data, c.isCreation, rules)
			if err != nil {
				t.Fatalf("IntrinsicGas: %v", err)
			}
			if got != c.want {
				t.Fatalf("IntrinsicGas(%v, %v) = %d, want %d", c.data, c.isCreation, got, c.want)
			}
		})
	}
}

// With EIP3860 off, a contract creation's init-code word fee is skipped
// even though the Homestead creation surcharge and calldata fee still apply.
func TestIntrinsicGasPreEIP3860SkipsInitCodeWordFee(t *testing.T) {
	rules := vm.ForkRules{}
	data := []byte{1, 2, 3}
	got, err := IntrinsicGas(data, true, rules)
	if err != nil {
		t.Fatalf("IntrinsicGas: %v", err)
	}
	want := TxGasContractCreation + 3*TxDataNonZeroGas
	if got != want {
		t.Fatalf("IntrinsicGas = %d, want %d", got, want)
	}
}

func TestAccessListDataFee(t *testing.T) {
	al := types.AccessList{
		{
			Address: addrC,
			StorageKeys: []types.Hash{
				types.HexToHash("0x01"),
				types.HexToHash("0x02"),
			},
		},
	}
	fee, err := AccessListDataFee(al)
	if err != nil {
		t.Fatalf("AccessListDataFee: %v", err)
	}
	want := TxAccessListAddressGas + 2*TxAccessListStorageKeyGas
	if fee != want {
		t.Fatalf("fee = %d, want %d", fee, want)
	}
}
