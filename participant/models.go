// Package participant tracks per-identity marketplace reputation.
package participant

import "github.com/cipherbay/market/types"

// Profile is the aggregate reputation record for one identity. It is
// created lazily on the identity's first completed sale and never deleted.
// CompletedSales only ever grows. Rating is reserved — the purchase flow
// reads through it but never writes it.
type Profile struct {
	Identity          types.Identity `json:"identity"`
	CompletedSales    uint64         `json:"completed_sales"`
	Rating            uint64         `json:"rating"`
	LastInteractionAt types.Height   `json:"last_interaction_at"`
}

// Clone returns a copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	return &c
}
