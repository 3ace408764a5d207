// Package plugin provides an extensible plugin system for Market.
// Plugins can hook into marketplace lifecycle events to extend
// functionality without touching the settlement path.
package plugin

import (
	"context"

	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, m interface{}) error
}

// OnShutdown is called when the engine is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Listing lifecycle hooks
// ──────────────────────────────────────────────────

// OnListingCreated is called after a listing and its credential are stored.
type OnListingCreated interface {
	Plugin
	OnListingCreated(ctx context.Context, l *listing.Listing) error
}

// OnPriceUpdated is called after a seller changes a listing's price.
type OnPriceUpdated interface {
	Plugin
	OnPriceUpdated(ctx context.Context, l *listing.Listing, oldPrice, newPrice types.Amount) error
}

// OnListingDeactivated is called after a listing is taken off the market.
type OnListingDeactivated interface {
	Plugin
	OnListingDeactivated(ctx context.Context, listingID id.ListingID) error
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted is called after a purchase has fully settled: both
// payments executed and all bookkeeping committed.
type OnPurchaseCompleted interface {
	Plugin
	OnPurchaseCompleted(ctx context.Context, receipt *purchase.Receipt) error
}

// OnCredentialReleased is called after a buyer retrieves an access
// credential. The credential value itself is never passed to hooks.
type OnCredentialReleased interface {
	Plugin
	OnCredentialReleased(ctx context.Context, buyer types.Identity, listingID id.ListingID) error
}

// ──────────────────────────────────────────────────
// Administration hooks
// ──────────────────────────────────────────────────

// OnFeeUpdated is called after the administrator changes the platform fee.
type OnFeeUpdated interface {
	Plugin
	OnFeeUpdated(ctx context.Context, oldPercent, newPercent uint8) error
}
