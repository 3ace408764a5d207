package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/types"
)

type recordingPlugin struct {
	name    string
	events  []string
	hookErr error
}

func (p *recordingPlugin) Name() string { return p.name }

func (p *recordingPlugin) OnListingCreated(_ context.Context, l *listing.Listing) error {
	p.events = append(p.events, "created:"+l.ID.String())
	return p.hookErr
}

func (p *recordingPlugin) OnPurchaseCompleted(_ context.Context, r *purchase.Receipt) error {
	p.events = append(p.events, "purchased:"+r.ListingID.String())
	return p.hookErr
}

func (p *recordingPlugin) OnFeeUpdated(_ context.Context, _, _ uint8) error {
	p.events = append(p.events, "fee")
	return p.hookErr
}

type bareNamePlugin struct{ name string }

func (p bareNamePlugin) Name() string { return p.name }

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(bareNamePlugin{"a"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := r.Register(bareNamePlugin{"a"}); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if r.Count() != 1 {
		t.Errorf("count: got %d, want 1", r.Count())
	}
}

func TestDispatchOnlyToImplementers(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	rec := &recordingPlugin{name: "rec"}
	if err := r.Register(rec); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(bareNamePlugin{"bare"}); err != nil {
		t.Fatal(err)
	}

	r.EmitListingCreated(ctx, &listing.Listing{ID: 3})
	r.EmitPurchaseCompleted(ctx, &purchase.Receipt{ListingID: 3})
	r.EmitFeeUpdated(ctx, 2, 5)
	// rec does not implement OnListingDeactivated; must not panic.
	r.EmitListingDeactivated(ctx, id.ListingID(3))
	r.EmitCredentialReleased(ctx, types.Identity("buyer"), 3)

	want := []string{"created:3", "purchased:3", "fee"}
	if len(rec.events) != len(want) {
		t.Fatalf("events: got %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d: got %q, want %q", i, rec.events[i], want[i])
		}
	}
}

func TestHookErrorDoesNotPropagate(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	rec := &recordingPlugin{name: "failing", hookErr: errors.New("boom")}
	if err := r.Register(rec); err != nil {
		t.Fatal(err)
	}

	// Emit must swallow the hook error; the settlement path never fails
	// because a plugin did.
	r.EmitListingCreated(ctx, &listing.Listing{ID: 1})
	if len(rec.events) != 1 {
		t.Fatalf("hook not called: %v", rec.events)
	}
}

func TestGetAndList(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(bareNamePlugin{"x"}); err != nil {
		t.Fatal(err)
	}
	if got := r.Get("x"); got == nil {
		t.Error("Get returned nil for registered plugin")
	}
	if got := r.Get("missing"); got != nil {
		t.Error("Get returned non-nil for unknown plugin")
	}
	if got := len(r.List()); got != 1 {
		t.Errorf("List length: got %d, want 1", got)
	}
}
