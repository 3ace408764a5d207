package market

import "errors"

// Sentinel errors for every caller-visible failure. Operations surface the
// first violated precondition and perform no partial mutation; discriminate
// with errors.Is.
var (
	// Validation errors. ErrInvalidPrice also covers an out-of-range
	// platform fee — the fee is a percentage of the price and shares its
	// range rules.
	ErrInvalidPrice     = errors.New("market: price out of range")
	ErrInvalidParameter = errors.New("market: invalid parameter")

	// Listing errors
	ErrListingNotFound  = errors.New("market: listing not found")
	ErrDuplicateListing = errors.New("market: listing id already in use")

	// Settlement errors
	ErrInsufficientBalance = errors.New("market: insufficient balance")

	// Authorization errors
	ErrUnauthorizedBuyer = errors.New("market: caller has no purchase rights here")
	ErrNotOwner          = errors.New("market: caller is not the listing owner")
	ErrNotAdministrator  = errors.New("market: caller is not the administrator")

	// Lookup errors used by store drivers
	ErrProfileNotFound  = errors.New("market: profile not found")
	ErrPurchaseNotFound = errors.New("market: no purchase record")
)
