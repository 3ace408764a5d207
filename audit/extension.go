// Package audit bridges marketplace lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular trail implementation. Callers inject a RecorderFunc
// adapter at wiring time. Credential values never appear in audit events,
// only the fact of their release.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/plugin"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnListingCreated     = (*Extension)(nil)
	_ plugin.OnPriceUpdated       = (*Extension)(nil)
	_ plugin.OnListingDeactivated = (*Extension)(nil)
	_ plugin.OnPurchaseCompleted  = (*Extension)(nil)
	_ plugin.OnCredentialReleased = (*Extension)(nil)
	_ plugin.OnFeeUpdated         = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
}

// Event is the audit record emitted for each marketplace action.
type Event struct {
	ID         id.ID          `json:"id"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *Event) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Extension bridges marketplace lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit" }

// ──────────────────────────────────────────────────
// Listing lifecycle hooks
// ──────────────────────────────────────────────────

// OnListingCreated implements plugin.OnListingCreated.
func (e *Extension) OnListingCreated(ctx context.Context, l *listing.Listing) error {
	return e.record(ctx, ActionListingCreated, SeverityInfo, OutcomeSuccess,
		ResourceListing, l.ID.String(), CategoryCatalog, string(l.Seller),
		"price", uint64(l.Price),
		"category", l.Category,
	)
}

// OnPriceUpdated implements plugin.OnPriceUpdated.
func (e *Extension) OnPriceUpdated(ctx context.Context, l *listing.Listing, oldPrice, newPrice types.Amount) error {
	return e.record(ctx, ActionPriceUpdated, SeverityInfo, OutcomeSuccess,
		ResourceListing, l.ID.String(), CategoryCatalog, string(l.Seller),
		"old_price", uint64(oldPrice),
		"new_price", uint64(newPrice),
	)
}

// OnListingDeactivated implements plugin.OnListingDeactivated.
func (e *Extension) OnListingDeactivated(ctx context.Context, listingID id.ListingID) error {
	return e.record(ctx, ActionListingDeactivated, SeverityInfo, OutcomeSuccess,
		ResourceListing, listingID.String(), CategoryCatalog, "")
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnPurchaseCompleted implements plugin.OnPurchaseCompleted.
func (e *Extension) OnPurchaseCompleted(ctx context.Context, r *purchase.Receipt) error {
	return e.record(ctx, ActionPurchaseCompleted, SeverityInfo, OutcomeSuccess,
		ResourcePurchase, r.ID.String(), CategorySettlement, string(r.Buyer),
		"listing_id", r.ListingID.String(),
		"seller", string(r.Seller),
		"price", uint64(r.Price),
		"seller_payment", uint64(r.SellerPayment),
		"platform_fee", uint64(r.PlatformFee),
	)
}

// OnCredentialReleased implements plugin.OnCredentialReleased. The
// credential value is deliberately absent from the event.
func (e *Extension) OnCredentialReleased(ctx context.Context, buyer types.Identity, listingID id.ListingID) error {
	return e.record(ctx, ActionCredentialReleased, SeverityInfo, OutcomeSuccess,
		ResourceCredential, listingID.String(), CategoryAccess, string(buyer))
}

// ──────────────────────────────────────────────────
// Administration hooks
// ──────────────────────────────────────────────────

// OnFeeUpdated implements plugin.OnFeeUpdated.
func (e *Extension) OnFeeUpdated(ctx context.Context, oldPercent, newPercent uint8) error {
	return e.record(ctx, ActionFeeUpdated, SeverityWarning, OutcomeSuccess,
		ResourcePlatform, "", CategoryAdmin, "",
		"old_percent", oldPercent,
		"new_percent", newPercent,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category, actor string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	var meta map[string]any
	if len(kvPairs) > 0 {
		meta = make(map[string]any, len(kvPairs)/2)
		for i := 0; i+1 < len(kvPairs); i += 2 {
			key, ok := kvPairs[i].(string)
			if !ok {
				key = fmt.Sprintf("%v", kvPairs[i])
			}
			meta[key] = kvPairs[i+1]
		}
	}

	evt := &Event{
		ID:         id.NewEventID(),
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Actor:      actor,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
