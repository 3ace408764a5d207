package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/purchase"
)

func testListing() *listing.Listing {
	return &listing.Listing{
		ID:          7,
		Seller:      "alice",
		Price:       1000,
		Description: "tide gauge readings",
		Category:    "sensors",
		Active:      true,
	}
}

func TestListingCreatedEvent(t *testing.T) {
	trail := NewTrail()
	ext := New(trail)

	if err := ext.OnListingCreated(context.Background(), testListing()); err != nil {
		t.Fatal(err)
	}

	events := trail.Events()
	if len(events) != 1 {
		t.Fatalf("events: got %d, want 1", len(events))
	}
	evt := events[0]
	if evt.Action != ActionListingCreated {
		t.Errorf("action: got %q", evt.Action)
	}
	if evt.Resource != ResourceListing || evt.ResourceID != "7" {
		t.Errorf("resource: got %q/%q", evt.Resource, evt.ResourceID)
	}
	if evt.Actor != "alice" {
		t.Errorf("actor: got %q", evt.Actor)
	}
	if evt.ID.IsNil() {
		t.Error("event id not assigned")
	}
	if evt.Metadata["price"] != uint64(1000) {
		t.Errorf("price metadata: got %v", evt.Metadata["price"])
	}
}

func TestPurchaseCompletedEventCarriesSplit(t *testing.T) {
	trail := NewTrail()
	ext := New(trail)

	receipt := &purchase.Receipt{
		ListingID:     7,
		Buyer:         "bob",
		Seller:        "alice",
		Price:         1000,
		SellerPayment: 980,
		PlatformFee:   20,
		FeePercent:    2,
	}
	if err := ext.OnPurchaseCompleted(context.Background(), receipt); err != nil {
		t.Fatal(err)
	}

	evt := trail.Events()[0]
	if evt.Metadata["seller_payment"] != uint64(980) || evt.Metadata["platform_fee"] != uint64(20) {
		t.Errorf("split metadata: %v", evt.Metadata)
	}
	if evt.Actor != "bob" {
		t.Errorf("actor: got %q", evt.Actor)
	}
}

func TestCredentialReleaseOmitsKeyMaterial(t *testing.T) {
	trail := NewTrail()
	ext := New(trail)

	if err := ext.OnCredentialReleased(context.Background(), "bob", 7); err != nil {
		t.Fatal(err)
	}

	evt := trail.Events()[0]
	if evt.Action != ActionCredentialReleased {
		t.Errorf("action: got %q", evt.Action)
	}
	if len(evt.Metadata) != 0 {
		t.Errorf("credential event must carry no metadata, got %v", evt.Metadata)
	}
}

func TestDisabledActionIsSkipped(t *testing.T) {
	trail := NewTrail()
	ext := New(trail, WithDisabledActions(ActionCredentialReleased))

	_ = ext.OnCredentialReleased(context.Background(), "bob", 7)
	_ = ext.OnListingDeactivated(context.Background(), 7)

	events := trail.Events()
	if len(events) != 1 {
		t.Fatalf("events: got %d, want 1", len(events))
	}
	if events[0].Action != ActionListingDeactivated {
		t.Errorf("surviving action: got %q", events[0].Action)
	}
}

func TestEnabledActionsWhitelist(t *testing.T) {
	trail := NewTrail()
	ext := New(trail, WithEnabledActions(ActionFeeUpdated))

	_ = ext.OnListingCreated(context.Background(), testListing())
	_ = ext.OnFeeUpdated(context.Background(), 2, 5)

	events := trail.Events()
	if len(events) != 1 || events[0].Action != ActionFeeUpdated {
		t.Fatalf("whitelist not honored: %d events", len(events))
	}
}

func TestRecorderErrorDoesNotPropagate(t *testing.T) {
	failing := RecorderFunc(func(context.Context, *Event) error {
		return errors.New("trail unavailable")
	})
	ext := New(failing, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	if err := ext.OnListingDeactivated(context.Background(), 7); err != nil {
		t.Errorf("recorder failure leaked to caller: %v", err)
	}
}
