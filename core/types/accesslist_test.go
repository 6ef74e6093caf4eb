package types

import "testing"

func TestCanonicalizeDedupesAndSorts(t *testing.T) {
	a1 := HexToAddress("0x01")
	a2 := HexToAddress("0x02")
	k1 := HexToHash("0x01")
	k2 := HexToHash("0x02")

	al := AccessList{
		{Address: a2, StorageKeys: []Hash{k2, k1, k1}},
		{Address: a1, StorageKeys: nil},
		{Address: a2, StorageKeys: []Hash{k1}},
	}

	got := al.Canonicalize()
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 (duplicate address merged)", len(got))
	}
	if got[0].Address != a1 || got[1].Address != a2 {
		t.Fatalf("got = %+v, want address-sorted order", got)
	}
	if len(got[1].StorageKeys) != 2 {
		t.Fatalf("got[1].StorageKeys = %v, want 2 deduped keys", got[1].StorageKeys)
	}
}

func TestEqualIgnoresOrderAndDuplicates(t *testing.T) {
	a1 := HexToAddress("0x01")
	a2 := HexToAddress("0x02")
	k1 := HexToHash("0x01")

	left := AccessList{
		{Address: a1, StorageKeys: []Hash{k1}},
		{Address: a2, StorageKeys: nil},
	}
	right := AccessList{
		{Address: a2, StorageKeys: nil},
		{Address: a1, StorageKeys: []Hash{k1, k1}},
	}

	if !Equal(left, right) {
		t.Fatalf("Equal(%+v, %+v) = false, want true", left, right)
	}
}

func TestEqualDetectsDifference(t *testing.T) {
	a1 := HexToAddress("0x01")
	left := AccessList{{Address: a1, StorageKeys: nil}}
	right := AccessList{}

	if Equal(left, right) {
		t.Fatal("Equal(non-empty, empty) = true, want false")
	}
}
