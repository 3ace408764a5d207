package mongo

import (
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/participant"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/types"
)

// Token amounts and heights are stored as int64, so values above 1<<63-1
// are out of range for this driver.

type listingModel struct {
	ID          int64  `bson:"_id"`
	Seller      string `bson:"seller"`
	Price       int64  `bson:"price"`
	Description string `bson:"description"`
	Category    string `bson:"category"`
	Active      bool   `bson:"active"`
	CreatedAt   int64  `bson:"created_at"`
}

func toListingModel(l *listing.Listing) *listingModel {
	return &listingModel{
		ID:          int64(l.ID),
		Seller:      string(l.Seller),
		Price:       int64(l.Price),
		Description: l.Description,
		Category:    l.Category,
		Active:      l.Active,
		CreatedAt:   int64(l.CreatedAt),
	}
}

func fromListingModel(m *listingModel) *listing.Listing {
	return &listing.Listing{
		ID:          id.ListingID(m.ID),
		Seller:      types.Identity(m.Seller),
		Price:       types.Amount(m.Price),
		Description: m.Description,
		Category:    m.Category,
		Active:      m.Active,
		CreatedAt:   types.Height(m.CreatedAt),
	}
}

type credentialModel struct {
	ListingID    int64  `bson:"_id"`
	EncryptedKey string `bson:"encrypted_key"`
}

type purchaseModel struct {
	Buyer       string `bson:"buyer"`
	ListingID   int64  `bson:"listing_id"`
	Seller      string `bson:"seller"`
	AmountPaid  int64  `bson:"amount_paid"`
	PurchasedAt int64  `bson:"purchased_at"`
}

func toPurchaseModel(r *purchase.Record) *purchaseModel {
	return &purchaseModel{
		Buyer:       string(r.Buyer),
		ListingID:   int64(r.ListingID),
		Seller:      string(r.Seller),
		AmountPaid:  int64(r.AmountPaid),
		PurchasedAt: int64(r.PurchasedAt),
	}
}

func fromPurchaseModel(m *purchaseModel) *purchase.Record {
	return &purchase.Record{
		Buyer:       types.Identity(m.Buyer),
		ListingID:   id.ListingID(m.ListingID),
		Seller:      types.Identity(m.Seller),
		AmountPaid:  types.Amount(m.AmountPaid),
		PurchasedAt: types.Height(m.PurchasedAt),
	}
}

type profileModel struct {
	Identity          string `bson:"_id"`
	CompletedSales    int64  `bson:"completed_sales"`
	Rating            int64  `bson:"rating"`
	LastInteractionAt int64  `bson:"last_interaction_at"`
}

func fromProfileModel(m *profileModel) *participant.Profile {
	return &participant.Profile{
		Identity:          types.Identity(m.Identity),
		CompletedSales:    uint64(m.CompletedSales),
		Rating:            uint64(m.Rating),
		LastInteractionAt: types.Height(m.LastInteractionAt),
	}
}

type paramsModel struct {
	ID                string `bson:"_id"`
	NextListingID     int64  `bson:"next_listing_id"`
	FeePercent        int32  `bson:"fee_percent"`
	TotalTransactions int64  `bson:"total_transactions"`
}
