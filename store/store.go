// Package store defines the unified storage interface for all Market
// tables and counters.
package store

import (
	"context"

	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/participant"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/types"
)

// DefaultFeePercent is the platform fee a fresh store starts with.
const DefaultFeePercent uint8 = 2

// Store is the unified storage interface. The sub-interfaces in the
// listing, participant, and purchase packages are declared explicitly here
// rather than embedded, to keep every method visible in one place.
//
// Atomicity contract: Create and RecordSale each commit all of their
// writes or none of them. No entity is ever physically deleted — listings
// are only deactivated.
type Store interface {
	// Listing methods
	CreateListing(ctx context.Context, l *listing.Listing, cred *listing.AccessCredential) (id.ListingID, error)
	GetListing(ctx context.Context, listingID id.ListingID) (*listing.Listing, error)
	UpdateListingPrice(ctx context.Context, listingID id.ListingID, price types.Amount) error
	DeactivateListing(ctx context.Context, listingID id.ListingID) error
	GetCredential(ctx context.Context, listingID id.ListingID) (*listing.AccessCredential, error)
	NextListingID(ctx context.Context) (id.ListingID, error)

	// Settlement methods
	RecordSale(ctx context.Context, rec *purchase.Record) error
	GetPurchase(ctx context.Context, buyer types.Identity, listingID id.ListingID) (*purchase.Record, error)

	// Profile methods
	GetProfile(ctx context.Context, identity types.Identity) (*participant.Profile, error)

	// Platform counters
	PlatformFee(ctx context.Context) (uint8, error)
	SetPlatformFee(ctx context.Context, percent uint8) error
	TotalCompletedTransactions(ctx context.Context) (uint64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
