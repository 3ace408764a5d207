package listing

import (
	"context"

	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/types"
)

// Store is the listing-facing slice of the storage interface.
type Store interface {
	// Create allocates the next listing id, persists the listing together
	// with its access credential, and advances the id counter — all in one
	// commit. The assigned id is written back into l and returned.
	Create(ctx context.Context, l *Listing, cred *AccessCredential) (id.ListingID, error)

	// Get returns the listing or market.ErrListingNotFound.
	Get(ctx context.Context, listingID id.ListingID) (*Listing, error)

	// UpdatePrice mutates only the price field.
	UpdatePrice(ctx context.Context, listingID id.ListingID, price types.Amount) error

	// Deactivate sets Active to false. The transition is one-way.
	Deactivate(ctx context.Context, listingID id.ListingID) error

	// Credential returns the paired access credential or
	// market.ErrListingNotFound.
	Credential(ctx context.Context, listingID id.ListingID) (*AccessCredential, error)

	// NextID returns the id the next successful Create will assign.
	NextID(ctx context.Context) (id.ListingID, error)
}
