// Package memory provides an in-memory Store for tests and single-process
// embedding. It is the reference implementation of the storage semantics:
// every other driver must match its behavior.
package memory

import (
	"context"
	"fmt"
	"sync"

	market "github.com/cipherbay/market"
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/participant"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/store"
	"github.com/cipherbay/market/types"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	listings    map[id.ListingID]*listing.Listing
	credentials map[id.ListingID]*listing.AccessCredential
	purchases   map[purchaseKey]*purchase.Record
	profiles    map[types.Identity]*participant.Profile

	nextListingID id.ListingID
	feePercent    uint8
	totalSales    uint64
}

type purchaseKey struct {
	buyer     types.Identity
	listingID id.ListingID
}

// New creates an empty Store with the default platform fee.
func New() *Store {
	return &Store{
		listings:      make(map[id.ListingID]*listing.Listing),
		credentials:   make(map[id.ListingID]*listing.AccessCredential),
		purchases:     make(map[purchaseKey]*purchase.Record),
		profiles:      make(map[types.Identity]*participant.Profile),
		nextListingID: 1,
		feePercent:    store.DefaultFeePercent,
	}
}

// ==================== Listing store ====================

func (s *Store) CreateListing(_ context.Context, l *listing.Listing, cred *listing.AccessCredential) (id.ListingID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.nextListingID
	// Unreachable under correct counter management, but checked anyway:
	// an active listing must never be overwritten.
	if existing, ok := s.listings[next]; ok && existing.Active {
		return 0, market.ErrDuplicateListing
	}

	stored := l.Clone()
	stored.ID = next
	s.listings[next] = stored
	s.credentials[next] = &listing.AccessCredential{
		ListingID:    next,
		EncryptedKey: cred.EncryptedKey,
	}
	s.nextListingID++

	l.ID = next
	return next, nil
}

func (s *Store) GetListing(_ context.Context, listingID id.ListingID) (*listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.listings[listingID]; ok {
		return l.Clone(), nil
	}
	return nil, market.ErrListingNotFound
}

func (s *Store) UpdateListingPrice(_ context.Context, listingID id.ListingID, price types.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[listingID]
	if !ok {
		return market.ErrListingNotFound
	}
	l.Price = price
	return nil
}

func (s *Store) DeactivateListing(_ context.Context, listingID id.ListingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[listingID]
	if !ok {
		return market.ErrListingNotFound
	}
	l.Active = false
	return nil
}

func (s *Store) GetCredential(_ context.Context, listingID id.ListingID) (*listing.AccessCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.credentials[listingID]; ok {
		cc := *c
		return &cc, nil
	}
	return nil, market.ErrListingNotFound
}

func (s *Store) NextListingID(_ context.Context) (id.ListingID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextListingID, nil
}

// ==================== Settlement store ====================

func (s *Store) RecordSale(_ context.Context, rec *purchase.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Buyer.IsZero() || rec.Seller.IsZero() {
		return fmt.Errorf("memory: record sale: incomplete record")
	}

	s.purchases[purchaseKey{rec.Buyer, rec.ListingID}] = rec.Clone()

	p, ok := s.profiles[rec.Seller]
	if !ok {
		p = &participant.Profile{Identity: rec.Seller}
		s.profiles[rec.Seller] = p
	}
	p.CompletedSales++
	p.LastInteractionAt = rec.PurchasedAt

	s.totalSales++
	return nil
}

func (s *Store) GetPurchase(_ context.Context, buyer types.Identity, listingID id.ListingID) (*purchase.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.purchases[purchaseKey{buyer, listingID}]; ok {
		return rec.Clone(), nil
	}
	return nil, market.ErrPurchaseNotFound
}

// ==================== Profile store ====================

func (s *Store) GetProfile(_ context.Context, identity types.Identity) (*participant.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[identity]; ok {
		return p.Clone(), nil
	}
	return nil, market.ErrProfileNotFound
}

// ==================== Platform counters ====================

func (s *Store) PlatformFee(_ context.Context) (uint8, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feePercent, nil
}

func (s *Store) SetPlatformFee(_ context.Context, percent uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feePercent = percent
	return nil
}

func (s *Store) TotalCompletedTransactions(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalSales, nil
}

// ==================== Core ====================

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }
