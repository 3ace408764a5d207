// Package purchase defines purchase records and settlement receipts.
package purchase

import (
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/types"
)

// Record proves that a buyer paid for a listing. Exactly one record exists
// per (buyer, listing) pair; a repeat purchase of the same listing by the
// same buyer overwrites the amount and timestamp but cannot grant access
// rights the buyer does not already hold — credential release depends only
// on the record's existence.
type Record struct {
	Buyer       types.Identity `json:"buyer"`
	ListingID   id.ListingID   `json:"listing_id"`
	Seller      types.Identity `json:"seller"`
	AmountPaid  types.Amount   `json:"amount_paid"`
	PurchasedAt types.Height   `json:"purchased_at"`
}

// Clone returns a copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// Receipt is the settlement breakdown returned from a successful purchase
// and handed to lifecycle hooks. SellerPayment + PlatformFee == Price.
type Receipt struct {
	ID            id.ID          `json:"id"`
	ListingID     id.ListingID   `json:"listing_id"`
	Buyer         types.Identity `json:"buyer"`
	Seller        types.Identity `json:"seller"`
	Price         types.Amount   `json:"price"`
	SellerPayment types.Amount   `json:"seller_payment"`
	PlatformFee   types.Amount   `json:"platform_fee"`
	FeePercent    uint8          `json:"fee_percent"`
	CompletedAt   types.Height   `json:"completed_at"`
}
