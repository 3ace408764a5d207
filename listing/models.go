// Package listing defines the Listing entity and its paired access
// credential.
package listing

import (
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/types"
)

// Field limits enforced at creation time.
const (
	MaxDescriptionLen  = 256
	MaxCategoryLen     = 64
	MaxEncryptedKeyLen = 512
)

// Listing is a seller's offer to sell access to a described data asset at
// a price. Seller and ID never change after creation; Price is mutable only
// by the seller; Active transitions true→false exactly once and never back.
type Listing struct {
	ID          id.ListingID   `json:"id"`
	Seller      types.Identity `json:"seller"`
	Price       types.Amount   `json:"price"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Active      bool           `json:"active"`
	CreatedAt   types.Height   `json:"created_at"`
}

// Clone returns a copy of the listing. Stores hand out clones so callers
// cannot mutate table state through a returned pointer.
func (l *Listing) Clone() *Listing {
	c := *l
	return &c
}

// AccessCredential is the opaque encrypted key unlocking the data asset a
// listing refers to. It is created atomically with its listing, immutable
// thereafter, and released only through the purchase-gated read path. The
// ledger never inspects or validates its content beyond length bounds.
type AccessCredential struct {
	ListingID    id.ListingID `json:"listing_id"`
	EncryptedKey string       `json:"encrypted_key"`
}
