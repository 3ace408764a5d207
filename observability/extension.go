// Package observability provides a metrics extension for Market that
// records lifecycle event counts and settlement volumes.
package observability

import (
	"context"

	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/plugin"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnInit               = (*MetricsExtension)(nil)
	_ plugin.OnListingCreated     = (*MetricsExtension)(nil)
	_ plugin.OnPriceUpdated       = (*MetricsExtension)(nil)
	_ plugin.OnListingDeactivated = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseCompleted  = (*MetricsExtension)(nil)
	_ plugin.OnCredentialReleased = (*MetricsExtension)(nil)
	_ plugin.OnFeeUpdated         = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// Gauge interface for metric gauges.
type Gauge interface {
	Set(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
	Gauge(name string) Gauge
}

// MetricsExtension records marketplace lifecycle metrics.
// Register it as a Market plugin to automatically track activity.
type MetricsExtension struct {
	factory MetricFactory

	// Listing metrics
	ListingsCreated     Counter
	PricesUpdated       Counter
	ListingsDeactivated Counter

	// Settlement metrics
	PurchasesCompleted Counter
	SettlementVolume   Counter
	FeeRevenue         Counter
	PurchaseAmount     Histogram

	// Access metrics
	CredentialsReleased Counter

	// Administration metrics
	FeeUpdates     Counter
	CurrentFeeRate Gauge
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Listing metrics
		ListingsCreated:     factory.Counter("market_listings_created_total"),
		PricesUpdated:       factory.Counter("market_listing_price_updates_total"),
		ListingsDeactivated: factory.Counter("market_listings_deactivated_total"),

		// Settlement metrics
		PurchasesCompleted: factory.Counter("market_purchases_completed_total"),
		SettlementVolume:   factory.Counter("market_settlement_volume_tokens_total"),
		FeeRevenue:         factory.Counter("market_fee_revenue_tokens_total"),
		PurchaseAmount:     factory.Histogram("market_purchase_amount_tokens"),

		// Access metrics
		CredentialsReleased: factory.Counter("market_credentials_released_total"),

		// Administration metrics
		FeeUpdates:     factory.Counter("market_fee_updates_total"),
		CurrentFeeRate: factory.Gauge("market_platform_fee_percent"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Listing lifecycle hooks
// ──────────────────────────────────────────────────

// OnListingCreated implements plugin.OnListingCreated.
func (m *MetricsExtension) OnListingCreated(_ context.Context, _ *listing.Listing) error {
	m.ListingsCreated.Inc()
	return nil
}

// OnPriceUpdated implements plugin.OnPriceUpdated.
func (m *MetricsExtension) OnPriceUpdated(_ context.Context, _ *listing.Listing, _, _ types.Amount) error {
	m.PricesUpdated.Inc()
	return nil
}

// OnListingDeactivated implements plugin.OnListingDeactivated.
func (m *MetricsExtension) OnListingDeactivated(_ context.Context, _ id.ListingID) error {
	m.ListingsDeactivated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted implements plugin.OnPurchaseCompleted.
func (m *MetricsExtension) OnPurchaseCompleted(_ context.Context, r *purchase.Receipt) error {
	m.PurchasesCompleted.Inc()
	m.SettlementVolume.Add(float64(r.Price))
	m.FeeRevenue.Add(float64(r.PlatformFee))
	m.PurchaseAmount.Observe(float64(r.Price))
	return nil
}

// OnCredentialReleased implements plugin.OnCredentialReleased.
func (m *MetricsExtension) OnCredentialReleased(_ context.Context, _ types.Identity, _ id.ListingID) error {
	m.CredentialsReleased.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Administration hooks
// ──────────────────────────────────────────────────

// OnFeeUpdated implements plugin.OnFeeUpdated.
func (m *MetricsExtension) OnFeeUpdated(_ context.Context, _, newPercent uint8) error {
	m.FeeUpdates.Inc()
	m.CurrentFeeRate.Set(float64(newPercent))
	return nil
}
