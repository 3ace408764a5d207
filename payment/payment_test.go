package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/cipherbay/market/types"
)

func TestBankTransfer(t *testing.T) {
	ctx := context.Background()
	b := NewBank()
	b.Deposit("alice", 1000)

	if err := b.Transfer(ctx, "alice", "bob", 300); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if got := b.Balance("alice"); got != 700 {
		t.Errorf("alice balance: got %d, want 700", got)
	}
	if got := b.Balance("bob"); got != 300 {
		t.Errorf("bob balance: got %d, want 300", got)
	}
}

func TestBankInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	b := NewBank()
	b.Deposit("alice", 100)

	err := b.Transfer(ctx, "alice", "bob", 101)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	// Nothing moved.
	if b.Balance("alice") != 100 || b.Balance("bob") != 0 {
		t.Errorf("balances changed on failed transfer: alice=%d bob=%d",
			b.Balance("alice"), b.Balance("bob"))
	}
}

func TestBankUnknownPayer(t *testing.T) {
	ctx := context.Background()
	b := NewBank()
	if err := b.Transfer(ctx, "ghost", "bob", 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
}

func TestBankZeroTransfer(t *testing.T) {
	ctx := context.Background()
	b := NewBank()

	// Zero transfers succeed even for identities with no balance.
	if err := b.Transfer(ctx, "ghost", "bob", 0); err != nil {
		t.Fatalf("zero transfer failed: %v", err)
	}
}

func TestEngineFunc(t *testing.T) {
	var called bool
	var e Engine = EngineFunc(func(_ context.Context, from, to types.Identity, amount types.Amount) error {
		called = true
		return nil
	})
	if err := e.Transfer(context.Background(), "a", "b", 1); err != nil || !called {
		t.Fatalf("EngineFunc adapter misbehaves: err=%v called=%v", err, called)
	}
}
