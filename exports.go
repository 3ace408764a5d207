package market

import (
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/types"
)

// Re-export common types for convenience so users don't have to import the
// types and id packages for everyday calls.

// Amount is re-exported from the types package.
type Amount = types.Amount

// Height is re-exported from the types package.
type Height = types.Height

// Identity is re-exported from the types package.
type Identity = types.Identity

// ListingID is re-exported from the id package.
type ListingID = id.ListingID

// Tokens is the Amount constructor, re-exported.
var Tokens = types.Tokens
