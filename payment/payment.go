// Package payment defines the token-transfer boundary between Market and
// the host's payment subsystem.
//
// Market treats a transfer as atomic and all-or-nothing: it either moves
// the full amount or fails cleanly with no partial movement. The Bank type
// in this package is a complete in-memory implementation for tests and
// single-process embedding.
package payment

import (
	"context"
	"errors"
	"sync"

	"github.com/cipherbay/market/types"
)

// ErrInsufficientFunds is returned when the paying identity does not hold
// the transfer amount.
var ErrInsufficientFunds = errors.New("payment: insufficient funds")

// Engine is the transfer primitive supplied by the host token subsystem.
type Engine interface {
	// Transfer moves amount from one identity to the other. A zero amount
	// must succeed without side effects.
	Transfer(ctx context.Context, from, to types.Identity, amount types.Amount) error
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(ctx context.Context, from, to types.Identity, amount types.Amount) error

// Transfer implements Engine.
func (f EngineFunc) Transfer(ctx context.Context, from, to types.Identity, amount types.Amount) error {
	return f(ctx, from, to, amount)
}

// Bank is an in-memory token ledger implementing Engine.
type Bank struct {
	mu       sync.Mutex
	balances map[types.Identity]types.Amount
}

// NewBank creates an empty Bank.
func NewBank() *Bank {
	return &Bank{balances: make(map[types.Identity]types.Amount)}
}

// Deposit credits the identity with amount, creating the account if needed.
func (b *Bank) Deposit(identity types.Identity, amount types.Amount) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[identity] += amount
}

// Balance returns the identity's current balance. Unknown identities hold
// zero.
func (b *Bank) Balance(identity types.Identity) types.Amount {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[identity]
}

// Transfer implements Engine. Both legs happen under one lock, so a
// transfer is never observable half-applied.
func (b *Bank) Transfer(_ context.Context, from, to types.Identity, amount types.Amount) error {
	if amount.IsZero() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[from] < amount {
		return ErrInsufficientFunds
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}
