package participant

import (
	"context"

	"github.com/cipherbay/market/types"
)

// Store is the profile-facing slice of the storage interface.
type Store interface {
	// Profile returns the identity's profile or market.ErrProfileNotFound
	// if the identity has never completed a sale.
	Profile(ctx context.Context, identity types.Identity) (*Profile, error)
}
