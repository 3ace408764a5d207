package postgres

import (
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/participant"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/types"
)

// Row structs mirror table columns. Token amounts and heights are stored
// as BIGINT, so values above 1<<63-1 are out of range for this driver.

type listingRow struct {
	ID          int64
	Seller      string
	Price       int64
	Description string
	Category    string
	Active      bool
	CreatedAt   int64
}

func (r *listingRow) toListing() *listing.Listing {
	return &listing.Listing{
		ID:          id.ListingID(r.ID),
		Seller:      types.Identity(r.Seller),
		Price:       types.Amount(r.Price),
		Description: r.Description,
		Category:    r.Category,
		Active:      r.Active,
		CreatedAt:   types.Height(r.CreatedAt),
	}
}

type purchaseRow struct {
	Buyer       string
	ListingID   int64
	Seller      string
	AmountPaid  int64
	PurchasedAt int64
}

func (r *purchaseRow) toRecord() *purchase.Record {
	return &purchase.Record{
		Buyer:       types.Identity(r.Buyer),
		ListingID:   id.ListingID(r.ListingID),
		Seller:      types.Identity(r.Seller),
		AmountPaid:  types.Amount(r.AmountPaid),
		PurchasedAt: types.Height(r.PurchasedAt),
	}
}

type profileRow struct {
	Identity          string
	CompletedSales    int64
	Rating            int64
	LastInteractionAt int64
}

func (r *profileRow) toProfile() *participant.Profile {
	return &participant.Profile{
		Identity:          types.Identity(r.Identity),
		CompletedSales:    uint64(r.CompletedSales),
		Rating:            uint64(r.Rating),
		LastInteractionAt: types.Height(r.LastInteractionAt),
	}
}
