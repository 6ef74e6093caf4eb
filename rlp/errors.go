package rlp

import "errors"

// ErrValueTooLarge is returned when a value has no supported RLP encoding.
var ErrValueTooLarge = errors.New("rlp: value too large")
