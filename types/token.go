// Package types provides common value types used across Market.
package types

import (
	"fmt"
	"strconv"
)

// Amount represents a quantity of the native token in its smallest unit.
// All arithmetic is integer-only — no floating point.
type Amount uint64

// Tokens creates an Amount from a raw token count.
func Tokens(n uint64) Amount { return Amount(n) }

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// Add adds two amounts.
func (a Amount) Add(other Amount) Amount { return a + other }

// Sub subtracts another amount. Panics on underflow (programming error —
// callers must never subtract more than they hold).
func (a Amount) Sub(other Amount) Amount {
	if other > a {
		panic(fmt.Sprintf("types: amount underflow: %d - %d", a, other))
	}
	return a - other
}

// SplitFee divides the amount into a seller payment and a platform fee for
// the given fee percentage. The fee is rounded down:
//
//	fee    = floor(a * percent / 100)
//	seller = a - fee
//
// so seller + fee == a for every percent in [0, 100].
func (a Amount) SplitFee(percent uint8) (seller, fee Amount) {
	if percent > 100 {
		panic(fmt.Sprintf("types: fee percent out of range: %d", percent))
	}
	// Split the multiplication to stay overflow-safe for the full uint64
	// range: a = 100q + r, so floor(a*p/100) = q*p + floor(r*p/100).
	q, r := uint64(a)/100, uint64(a)%100
	f := Amount(q*uint64(percent) + r*uint64(percent)/100)
	return a - f, f
}

// String returns the amount as a plain base-10 token count.
func (a Amount) String() string { return strconv.FormatUint(uint64(a), 10) }

// Height is a logical timestamp supplied by the host environment,
// typically a block height. It is monotonically non-decreasing.
type Height uint64

// Identity is an opaque principal identifier supplied by the host's
// identity layer (an account address, a public key hash, etc). Market
// trusts it as authoritative and never inspects its content.
type Identity string

// IsZero returns true for the empty identity.
func (i Identity) IsZero() bool { return i == "" }

func (i Identity) String() string { return string(i) }
