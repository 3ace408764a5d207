package audit

// Action constants for audit events.
const (
	// Listing actions
	ActionListingCreated     = "listing.created"
	ActionPriceUpdated       = "listing.price_updated"
	ActionListingDeactivated = "listing.deactivated"

	// Settlement actions
	ActionPurchaseCompleted  = "purchase.completed"
	ActionCredentialReleased = "credential.released"

	// Administration actions
	ActionFeeUpdated = "platform.fee_updated"
)

// Resource constants for audit events.
const (
	ResourceListing    = "listing"
	ResourcePurchase   = "purchase"
	ResourceCredential = "credential"
	ResourcePlatform   = "platform"
)

// Category constants for audit events.
const (
	CategoryCatalog    = "catalog"
	CategorySettlement = "settlement"
	CategoryAccess     = "access"
	CategoryAdmin      = "admin"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
