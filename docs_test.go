package market_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	market "github.com/cipherbay/market"
	"github.com/cipherbay/market/payment"
	"github.com/cipherbay/market/store/memory"
)

// TestDocumentationExamples verifies that the examples in the package
// documentation compile and behave as documented.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store and payment engine (memory/bank for demo, use
		// PostgreSQL and a real token subsystem in production).
		bank := payment.NewBank()
		m := market.New(memory.New(), bank, "admin",
			market.WithLogger(slog.Default()),
			market.WithListingCacheTTL(30*time.Second),
		)

		ctx := context.Background()
		if err := m.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer m.Stop()

		// Sellers list assets.
		id, err := m.CreateListing(ctx, "alice", market.Tokens(1000),
			"hourly GPS traces, 2025", "geodata", "b64:encrypted-key-material")
		if err != nil {
			t.Fatal(err)
		}

		// Buyers purchase and then retrieve the credential.
		bank.Deposit("bob", 1000)
		receipt, err := m.Purchase(ctx, "bob", id)
		if err != nil {
			t.Fatal(err)
		}
		if receipt.SellerPayment+receipt.PlatformFee != receipt.Price {
			t.Errorf("split does not conserve price: %+v", receipt)
		}

		key, err := m.AccessKey(ctx, "bob", id)
		if err != nil {
			t.Fatal(err)
		}
		if key != "b64:encrypted-key-material" {
			t.Errorf("key: got %q", key)
		}
	})
}
