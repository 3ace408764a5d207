package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cipherbay/market/clock"
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/participant"
	"github.com/cipherbay/market/payment"
	"github.com/cipherbay/market/plugin"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/store"
	"github.com/cipherbay/market/types"
)

// Market is the marketplace ledger engine. It owns the listing, profile,
// purchase, and credential tables (through a Store) and settles purchases
// against an external payment Engine.
//
// All operations are serialized: one operation runs to completion before
// the next begins, and every operation either fully commits or leaves no
// observable state change.
type Market struct {
	store store.Store
	pay   payment.Engine
	admin types.Identity

	plugins *plugin.Registry
	logger  *slog.Logger
	clock   clock.Clock

	// listingCache serves the read-only GetListing path. Entries are
	// invalidated write-through under mu, so a cached read can never
	// observe a stale price or activity flag.
	listingCache *gocache.Cache
	cacheTTL     time.Duration

	// mu serializes every operation against the tables and counters.
	mu sync.Mutex
}

// New creates a Market over the given store and payment engine. admin is
// the administrator identity, bound once here and immutable afterward; it
// receives the platform fee on every purchase and is the only identity
// allowed to change the fee.
func New(s store.Store, pay payment.Engine, admin types.Identity, opts ...Option) *Market {
	m := &Market{
		store:    s,
		pay:      pay,
		admin:    admin,
		plugins:  plugin.NewRegistry(),
		logger:   slog.Default(),
		clock:    clock.NewLogical(0),
		cacheTTL: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.listingCache = gocache.New(m.cacheTTL, 2*m.cacheTTL)
	return m
}

// Option configures a Market instance.
type Option func(*Market)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Market) {
		m.logger = logger
		m.plugins.WithLogger(logger)
	}
}

// WithClock sets the logical clock supplying created_at / purchased_at
// timestamps. Defaults to a Logical clock starting at height 0.
func WithClock(c clock.Clock) Option {
	return func(m *Market) {
		m.clock = c
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(m *Market) {
		_ = m.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithListingCacheTTL sets how long GetListing results may be served from
// cache. Entries are still invalidated immediately on any mutation.
func WithListingCacheTTL(ttl time.Duration) Option {
	return func(m *Market) {
		m.cacheTTL = ttl
	}
}

// Administrator returns the fixed administrator identity.
func (m *Market) Administrator() types.Identity { return m.admin }

// Plugins returns the plugin registry.
func (m *Market) Plugins() *plugin.Registry { return m.plugins }

// Start migrates the store and initializes plugins.
func (m *Market) Start(ctx context.Context) error {
	if err := m.store.Migrate(ctx); err != nil {
		return err
	}

	m.plugins.EmitInit(ctx, m)

	m.logger.Info("market started",
		"administrator", m.admin,
		"cache_ttl", m.cacheTTL,
	)
	return nil
}

// Stop shuts the engine down.
func (m *Market) Stop() error {
	m.plugins.EmitShutdown(context.Background())
	return m.store.Close()
}

// ──────────────────────────────────────────────────
// Listing lifecycle
// ──────────────────────────────────────────────────

// CreateListing stores a new listing owned by seller together with its
// access credential and returns the assigned id. Ids are strictly
// increasing starting at 1. The credential is permanently bound to the id
// regardless of later listing mutations.
func (m *Market) CreateListing(ctx context.Context, seller types.Identity, price types.Amount, description, category, encryptedKey string) (id.ListingID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seller.IsZero() {
		return 0, fmt.Errorf("%w: empty seller identity", ErrInvalidParameter)
	}
	if price.IsZero() {
		return 0, ErrInvalidPrice
	}
	if description == "" || len(description) > listing.MaxDescriptionLen {
		return 0, fmt.Errorf("%w: description must be 1..%d chars", ErrInvalidParameter, listing.MaxDescriptionLen)
	}
	if category == "" || len(category) > listing.MaxCategoryLen {
		return 0, fmt.Errorf("%w: category must be 1..%d chars", ErrInvalidParameter, listing.MaxCategoryLen)
	}
	if encryptedKey == "" || len(encryptedKey) > listing.MaxEncryptedKeyLen {
		return 0, fmt.Errorf("%w: encrypted key must be 1..%d chars", ErrInvalidParameter, listing.MaxEncryptedKeyLen)
	}

	l := &listing.Listing{
		Seller:      seller,
		Price:       price,
		Description: description,
		Category:    category,
		Active:      true,
		CreatedAt:   m.clock.Now(),
	}
	cred := &listing.AccessCredential{EncryptedKey: encryptedKey}

	listingID, err := m.store.CreateListing(ctx, l, cred)
	if err != nil {
		return 0, err
	}

	m.listingCache.Delete(listingID.String())
	m.plugins.EmitListingCreated(ctx, l.Clone())
	m.logger.Info("listing created",
		"listing_id", listingID,
		"seller", seller,
		"price", price,
		"category", category,
	)
	return listingID, nil
}

// UpdateListingPrice changes the listing's price. Only the seller may call
// it; every other field is left untouched.
func (m *Market) UpdateListingPrice(ctx context.Context, caller types.Identity, listingID id.ListingID, newPrice types.Amount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.lookupListing(ctx, listingID)
	if err != nil {
		return err
	}
	if caller != l.Seller {
		return ErrNotOwner
	}
	if newPrice.IsZero() {
		return ErrInvalidPrice
	}

	if err := m.store.UpdateListingPrice(ctx, listingID, newPrice); err != nil {
		return err
	}

	m.listingCache.Delete(listingID.String())
	updated := l.Clone()
	updated.Price = newPrice
	m.plugins.EmitPriceUpdated(ctx, updated, l.Price, newPrice)
	return nil
}

// DeactivateListing takes the listing off the market. Only the seller may
// call it. The transition is one-way: no operation reactivates a listing.
func (m *Market) DeactivateListing(ctx context.Context, caller types.Identity, listingID id.ListingID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.lookupListing(ctx, listingID)
	if err != nil {
		return err
	}
	if caller != l.Seller {
		return ErrNotOwner
	}

	if err := m.store.DeactivateListing(ctx, listingID); err != nil {
		return err
	}

	m.listingCache.Delete(listingID.String())
	m.plugins.EmitListingDeactivated(ctx, listingID)
	m.logger.Info("listing deactivated", "listing_id", listingID, "seller", caller)
	return nil
}

// ──────────────────────────────────────────────────
// Settlement
// ──────────────────────────────────────────────────

// Purchase settles a purchase of the listing by buyer: it computes the fee
// split, executes both payment transfers, records the purchase, and
// updates the seller's profile and the global transaction counter. The
// whole operation is all-or-nothing — if anything fails, no payment and no
// table write remains observable.
//
// A buyer repurchasing the same listing is charged again and counted
// again; the purchase record's amount and timestamp are overwritten. This
// cannot grant or revoke access rights, which depend only on the record's
// existence.
func (m *Market) Purchase(ctx context.Context, buyer types.Identity, listingID id.ListingID) (*purchase.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if buyer.IsZero() {
		return nil, fmt.Errorf("%w: empty buyer identity", ErrInvalidParameter)
	}
	if err := m.checkAllocated(ctx, listingID); err != nil {
		return nil, err
	}

	l, err := m.store.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.Active {
		return nil, ErrListingNotFound
	}
	if buyer == l.Seller {
		return nil, ErrUnauthorizedBuyer
	}

	feePercent, err := m.store.PlatformFee(ctx)
	if err != nil {
		return nil, err
	}
	sellerPayment, platformFee := l.Price.SplitFee(feePercent)

	// Dual transfer. The payment engine is external, so there is no
	// enclosing transaction: if the second leg fails the first is
	// compensated by a refund before the error surfaces.
	if err := m.pay.Transfer(ctx, buyer, l.Seller, sellerPayment); err != nil {
		return nil, m.paymentError(err)
	}
	if err := m.pay.Transfer(ctx, buyer, m.admin, platformFee); err != nil {
		m.refund(ctx, l.Seller, buyer, sellerPayment)
		return nil, m.paymentError(err)
	}

	now := m.clock.Now()
	rec := &purchase.Record{
		Buyer:       buyer,
		ListingID:   listingID,
		Seller:      l.Seller,
		AmountPaid:  l.Price,
		PurchasedAt: now,
	}
	if err := m.store.RecordSale(ctx, rec); err != nil {
		m.refund(ctx, l.Seller, buyer, sellerPayment)
		m.refund(ctx, m.admin, buyer, platformFee)
		return nil, fmt.Errorf("market: record sale: %w", err)
	}

	receipt := &purchase.Receipt{
		ID:            id.NewReceiptID(),
		ListingID:     listingID,
		Buyer:         buyer,
		Seller:        l.Seller,
		Price:         l.Price,
		SellerPayment: sellerPayment,
		PlatformFee:   platformFee,
		FeePercent:    feePercent,
		CompletedAt:   now,
	}

	m.plugins.EmitPurchaseCompleted(ctx, receipt)
	m.logger.Info("purchase completed",
		"listing_id", listingID,
		"buyer", buyer,
		"seller", l.Seller,
		"price", l.Price,
		"platform_fee", platformFee,
	)
	return receipt, nil
}

// AccessKey releases the listing's encrypted key to buyer. It succeeds
// only if a purchase record exists for this exact (buyer, listing) pair —
// the sole privacy boundary of the system.
func (m *Market) AccessKey(ctx context.Context, buyer types.Identity, listingID id.ListingID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAllocated(ctx, listingID); err != nil {
		return "", err
	}

	if _, err := m.store.GetPurchase(ctx, buyer, listingID); err != nil {
		if errors.Is(err, ErrPurchaseNotFound) {
			return "", ErrUnauthorizedBuyer
		}
		return "", err
	}

	cred, err := m.store.GetCredential(ctx, listingID)
	if err != nil {
		return "", err
	}

	m.plugins.EmitCredentialReleased(ctx, buyer, listingID)
	return cred.EncryptedKey, nil
}

// ──────────────────────────────────────────────────
// Administration
// ──────────────────────────────────────────────────

// SetPlatformFee changes the platform fee percentage. Only the
// administrator may call it; percent must be at most 100.
func (m *Market) SetPlatformFee(ctx context.Context, caller types.Identity, percent uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if caller != m.admin {
		return ErrNotAdministrator
	}
	if percent > 100 {
		return fmt.Errorf("%w: fee percent %d exceeds 100", ErrInvalidPrice, percent)
	}

	old, err := m.store.PlatformFee(ctx)
	if err != nil {
		return err
	}
	if err := m.store.SetPlatformFee(ctx, percent); err != nil {
		return err
	}

	m.plugins.EmitFeeUpdated(ctx, old, percent)
	m.logger.Info("platform fee updated", "old_percent", old, "new_percent", percent)
	return nil
}

// ──────────────────────────────────────────────────
// Read-only queries
// ──────────────────────────────────────────────────

// GetListing returns the listing, or (nil, nil) if the id was never
// allocated. Deactivated listings are still returned — absence and
// inactivity are different states on the query path.
func (m *Market) GetListing(ctx context.Context, listingID id.ListingID) (*listing.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cached, ok := m.listingCache.Get(listingID.String()); ok {
		return cached.(*listing.Listing).Clone(), nil
	}

	l, err := m.store.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			return nil, nil
		}
		return nil, err
	}

	m.listingCache.SetDefault(listingID.String(), l.Clone())
	return l, nil
}

// GetProfile returns the identity's participant profile, or (nil, nil) if
// the identity has never completed a sale.
func (m *Market) GetProfile(ctx context.Context, identity types.Identity) (*participant.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.store.GetProfile(ctx, identity)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// TotalTransactions returns the number of completed purchases.
func (m *Market) TotalTransactions(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.TotalCompletedTransactions(ctx)
}

// CurrentFee returns the platform fee percentage.
func (m *Market) CurrentFee(ctx context.Context) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.PlatformFee(ctx)
}

// ──────────────────────────────────────────────────
// Internals
// ──────────────────────────────────────────────────

// checkAllocated rejects ids at or beyond the allocation counter. Ids
// below it fall through to the table lookup, which reports absence as
// ErrListingNotFound.
func (m *Market) checkAllocated(ctx context.Context, listingID id.ListingID) error {
	next, err := m.store.NextListingID(ctx)
	if err != nil {
		return err
	}
	if listingID >= next {
		return fmt.Errorf("%w: listing id %d not yet allocated", ErrInvalidParameter, listingID)
	}
	return nil
}

// lookupListing resolves a listing id for a mutating operation: range
// check, then table lookup.
func (m *Market) lookupListing(ctx context.Context, listingID id.ListingID) (*listing.Listing, error) {
	if err := m.checkAllocated(ctx, listingID); err != nil {
		return nil, err
	}
	return m.store.GetListing(ctx, listingID)
}

// paymentError maps engine failures to the caller-visible taxonomy.
func (m *Market) paymentError(err error) error {
	if errors.Is(err, payment.ErrInsufficientFunds) {
		return fmt.Errorf("%w: %v", ErrInsufficientBalance, err)
	}
	return fmt.Errorf("market: payment transfer: %w", err)
}

// refund issues a compensating transfer after a partially executed
// settlement. With a well-behaved engine the funds just arrived at from,
// so the refund cannot fail; if it somehow does, the failure is logged —
// there is nothing further the ledger can do about external funds.
func (m *Market) refund(ctx context.Context, from, to types.Identity, amount types.Amount) {
	if amount.IsZero() {
		return
	}
	if err := m.pay.Transfer(ctx, from, to, amount); err != nil {
		m.logger.Error("refund failed",
			"from", from,
			"to", to,
			"amount", amount,
			"error", err,
		)
	}
}
