package memory

import (
	"context"
	"errors"
	"testing"

	market "github.com/cipherbay/market"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/store"
)

func newListing(seller string) *listing.Listing {
	return &listing.Listing{
		Seller:      market.Identity(seller),
		Price:       100,
		Description: "weather sensor feed",
		Category:    "sensors",
		Active:      true,
		CreatedAt:   1,
	}
}

func TestCreateListingAllocatesSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	for want := market.ListingID(1); want <= 3; want++ {
		l := newListing("alice")
		got, err := s.CreateListing(ctx, l, &listing.AccessCredential{EncryptedKey: "k"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if got != want {
			t.Errorf("allocated id %d, want %d", got, want)
		}
		if l.ID != want {
			t.Errorf("id not written back: %d", l.ID)
		}
	}

	next, err := s.NextListingID(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if next != 4 {
		t.Errorf("next id: got %d, want 4", next)
	}
}

func TestCreateListingStoresCredential(t *testing.T) {
	ctx := context.Background()
	s := New()

	lid, err := s.CreateListing(ctx, newListing("alice"), &listing.AccessCredential{EncryptedKey: "secret-blob"})
	if err != nil {
		t.Fatal(err)
	}

	cred, err := s.GetCredential(ctx, lid)
	if err != nil {
		t.Fatalf("credential: %v", err)
	}
	if cred.EncryptedKey != "secret-blob" {
		t.Errorf("credential: got %q", cred.EncryptedKey)
	}
	if cred.ListingID != lid {
		t.Errorf("credential listing id: got %d, want %d", cred.ListingID, lid)
	}
}

func TestGetListingReturnsClone(t *testing.T) {
	ctx := context.Background()
	s := New()
	lid, _ := s.CreateListing(ctx, newListing("alice"), &listing.AccessCredential{EncryptedKey: "k"})

	first, err := s.GetListing(ctx, lid)
	if err != nil {
		t.Fatal(err)
	}
	first.Price = 999999 // must not leak into the table

	second, err := s.GetListing(ctx, lid)
	if err != nil {
		t.Fatal(err)
	}
	if second.Price != 100 {
		t.Errorf("table state mutated through returned pointer: price %d", second.Price)
	}
}

func TestGetListingNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetListing(ctx, 9); !errors.Is(err, market.ErrListingNotFound) {
		t.Errorf("got %v, want ErrListingNotFound", err)
	}
}

func TestDeactivateIsSticky(t *testing.T) {
	ctx := context.Background()
	s := New()
	lid, _ := s.CreateListing(ctx, newListing("alice"), &listing.AccessCredential{EncryptedKey: "k"})

	if err := s.DeactivateListing(ctx, lid); err != nil {
		t.Fatal(err)
	}
	l, err := s.GetListing(ctx, lid)
	if err != nil {
		t.Fatal(err)
	}
	if l.Active {
		t.Error("listing still active after deactivation")
	}
	// Credential survives deactivation.
	if _, err := s.GetCredential(ctx, lid); err != nil {
		t.Errorf("credential lost on deactivation: %v", err)
	}
}

func TestRecordSaleUpsertsAndCounts(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := &purchase.Record{
		Buyer:       "bob",
		ListingID:   1,
		Seller:      "alice",
		AmountPaid:  100,
		PurchasedAt: 5,
	}
	if err := s.RecordSale(ctx, rec); err != nil {
		t.Fatal(err)
	}

	// Repeat sale of the same pair overwrites the record but counts again.
	again := rec.Clone()
	again.AmountPaid = 120
	again.PurchasedAt = 9
	if err := s.RecordSale(ctx, again); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPurchase(ctx, "bob", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.AmountPaid != 120 || got.PurchasedAt != 9 {
		t.Errorf("record not overwritten: %+v", got)
	}

	p, err := s.GetProfile(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if p.CompletedSales != 2 {
		t.Errorf("completed sales: got %d, want 2", p.CompletedSales)
	}
	if p.LastInteractionAt != 9 {
		t.Errorf("last interaction: got %d, want 9", p.LastInteractionAt)
	}
	if p.Rating != 0 {
		t.Errorf("rating touched by sale: %d", p.Rating)
	}

	total, err := s.TotalCompletedTransactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("total transactions: got %d, want 2", total)
	}
}

func TestGetPurchaseNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetPurchase(ctx, "bob", 1); !errors.Is(err, market.ErrPurchaseNotFound) {
		t.Errorf("got %v, want ErrPurchaseNotFound", err)
	}
}

func TestProfileNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetProfile(ctx, "nobody"); !errors.Is(err, market.ErrProfileNotFound) {
		t.Errorf("got %v, want ErrProfileNotFound", err)
	}
}

func TestPlatformFeeDefaultsAndUpdates(t *testing.T) {
	ctx := context.Background()
	s := New()

	fee, err := s.PlatformFee(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fee != store.DefaultFeePercent {
		t.Errorf("default fee: got %d, want %d", fee, store.DefaultFeePercent)
	}

	if err := s.SetPlatformFee(ctx, 15); err != nil {
		t.Fatal(err)
	}
	fee, _ = s.PlatformFee(ctx)
	if fee != 15 {
		t.Errorf("fee after update: got %d, want 15", fee)
	}
}
