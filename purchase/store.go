package purchase

import (
	"context"

	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/types"
)

// Store is the settlement-facing slice of the storage interface.
type Store interface {
	// RecordSale commits the bookkeeping of one completed purchase in a
	// single transaction: upserts the purchase record for (buyer, listing),
	// creates or updates the seller's profile (completed_sales + 1,
	// last_interaction_at = rec.PurchasedAt), and increments the global
	// completed-transaction counter. Either all of it persists or none.
	RecordSale(ctx context.Context, rec *Record) error

	// Purchase returns the record for (buyer, listing) or
	// market.ErrPurchaseNotFound.
	Purchase(ctx context.Context, buyer types.Identity, listingID id.ListingID) (*Record, error)
}
