// Package postgres provides a PostgreSQL-backed Store using pgx.
//
// Every mutating operation runs in one committed transaction, which is
// what upholds the engine's all-or-nothing contract on this driver. The
// singleton counters row is locked FOR UPDATE during id allocation so two
// processes sharing a database cannot allocate the same listing id.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	market "github.com/cipherbay/market"
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/participant"
	"github.com/cipherbay/market/purchase"
	ledgerstore "github.com/cipherbay/market/store"
	"github.com/cipherbay/market/types"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL store from a connection string.
func New(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("market/postgres: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("market/postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("market/postgres: ping: %w", err)
	}

	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

// Pool returns the underlying connection pool for direct access.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Migrate creates the schema and seeds the counters row.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("market/postgres: migrate: %w", err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ==================== Listing store ====================

func (s *Store) CreateListing(ctx context.Context, l *listing.Listing, cred *listing.AccessCredential) (id.ListingID, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return 0, fmt.Errorf("market/postgres: begin create listing: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var next int64
	err = tx.QueryRow(ctx,
		`SELECT next_listing_id FROM market_params WHERE singleton FOR UPDATE`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("market/postgres: lock params: %w", err)
	}

	// Defensive collision check, unreachable under correct counter
	// management: never overwrite an active listing.
	var active bool
	err = tx.QueryRow(ctx,
		`SELECT active FROM market_listings WHERE id = $1`, next,
	).Scan(&active)
	switch {
	case err == nil:
		if active {
			return 0, market.ErrDuplicateListing
		}
	case !errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("market/postgres: collision check: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO market_listings (id, seller, price, description, category, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		next, string(l.Seller), int64(l.Price), l.Description, l.Category, l.Active, int64(l.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("market/postgres: insert listing: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO market_credentials (listing_id, encrypted_key) VALUES ($1, $2)`,
		next, cred.EncryptedKey,
	)
	if err != nil {
		return 0, fmt.Errorf("market/postgres: insert credential: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE market_params SET next_listing_id = next_listing_id + 1 WHERE singleton`,
	)
	if err != nil {
		return 0, fmt.Errorf("market/postgres: advance counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("market/postgres: commit create listing: %w", err)
	}

	l.ID = id.ListingID(next)
	return l.ID, nil
}

func (s *Store) GetListing(ctx context.Context, listingID id.ListingID) (*listing.Listing, error) {
	var m listingRow
	err := s.pool.QueryRow(ctx,
		`SELECT id, seller, price, description, category, active, created_at
		 FROM market_listings WHERE id = $1`, int64(listingID),
	).Scan(&m.ID, &m.Seller, &m.Price, &m.Description, &m.Category, &m.Active, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, market.ErrListingNotFound
		}
		return nil, fmt.Errorf("market/postgres: get listing: %w", err)
	}
	return m.toListing(), nil
}

func (s *Store) UpdateListingPrice(ctx context.Context, listingID id.ListingID, price types.Amount) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE market_listings SET price = $1 WHERE id = $2`,
		int64(price), int64(listingID),
	)
	if err != nil {
		return fmt.Errorf("market/postgres: update price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return market.ErrListingNotFound
	}
	return nil
}

func (s *Store) DeactivateListing(ctx context.Context, listingID id.ListingID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE market_listings SET active = FALSE WHERE id = $1`,
		int64(listingID),
	)
	if err != nil {
		return fmt.Errorf("market/postgres: deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return market.ErrListingNotFound
	}
	return nil
}

func (s *Store) GetCredential(ctx context.Context, listingID id.ListingID) (*listing.AccessCredential, error) {
	var key string
	err := s.pool.QueryRow(ctx,
		`SELECT encrypted_key FROM market_credentials WHERE listing_id = $1`,
		int64(listingID),
	).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, market.ErrListingNotFound
		}
		return nil, fmt.Errorf("market/postgres: get credential: %w", err)
	}
	return &listing.AccessCredential{ListingID: listingID, EncryptedKey: key}, nil
}

func (s *Store) NextListingID(ctx context.Context) (id.ListingID, error) {
	var next int64
	err := s.pool.QueryRow(ctx,
		`SELECT next_listing_id FROM market_params WHERE singleton`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("market/postgres: next listing id: %w", err)
	}
	return id.ListingID(next), nil
}

// ==================== Settlement store ====================

func (s *Store) RecordSale(ctx context.Context, rec *purchase.Record) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("market/postgres: begin record sale: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx,
		`INSERT INTO market_purchases (buyer, listing_id, seller, amount_paid, purchased_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (buyer, listing_id) DO UPDATE
		 SET seller = EXCLUDED.seller,
		     amount_paid = EXCLUDED.amount_paid,
		     purchased_at = EXCLUDED.purchased_at`,
		string(rec.Buyer), int64(rec.ListingID), string(rec.Seller),
		int64(rec.AmountPaid), int64(rec.PurchasedAt),
	)
	if err != nil {
		return fmt.Errorf("market/postgres: upsert purchase: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO market_profiles (identity, completed_sales, rating, last_interaction_at)
		 VALUES ($1, 1, 0, $2)
		 ON CONFLICT (identity) DO UPDATE
		 SET completed_sales = market_profiles.completed_sales + 1,
		     last_interaction_at = EXCLUDED.last_interaction_at`,
		string(rec.Seller), int64(rec.PurchasedAt),
	)
	if err != nil {
		return fmt.Errorf("market/postgres: upsert profile: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE market_params SET total_transactions = total_transactions + 1 WHERE singleton`,
	)
	if err != nil {
		return fmt.Errorf("market/postgres: advance total: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("market/postgres: commit record sale: %w", err)
	}
	return nil
}

func (s *Store) GetPurchase(ctx context.Context, buyer types.Identity, listingID id.ListingID) (*purchase.Record, error) {
	var m purchaseRow
	err := s.pool.QueryRow(ctx,
		`SELECT buyer, listing_id, seller, amount_paid, purchased_at
		 FROM market_purchases WHERE buyer = $1 AND listing_id = $2`,
		string(buyer), int64(listingID),
	).Scan(&m.Buyer, &m.ListingID, &m.Seller, &m.AmountPaid, &m.PurchasedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, market.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("market/postgres: get purchase: %w", err)
	}
	return m.toRecord(), nil
}

// ==================== Profile store ====================

func (s *Store) GetProfile(ctx context.Context, identity types.Identity) (*participant.Profile, error) {
	var m profileRow
	err := s.pool.QueryRow(ctx,
		`SELECT identity, completed_sales, rating, last_interaction_at
		 FROM market_profiles WHERE identity = $1`, string(identity),
	).Scan(&m.Identity, &m.CompletedSales, &m.Rating, &m.LastInteractionAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, market.ErrProfileNotFound
		}
		return nil, fmt.Errorf("market/postgres: get profile: %w", err)
	}
	return m.toProfile(), nil
}

// ==================== Platform counters ====================

func (s *Store) PlatformFee(ctx context.Context) (uint8, error) {
	var pct int16
	err := s.pool.QueryRow(ctx,
		`SELECT fee_percent FROM market_params WHERE singleton`,
	).Scan(&pct)
	if err != nil {
		return 0, fmt.Errorf("market/postgres: platform fee: %w", err)
	}
	return uint8(pct), nil
}

func (s *Store) SetPlatformFee(ctx context.Context, percent uint8) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE market_params SET fee_percent = $1 WHERE singleton`, int16(percent),
	)
	if err != nil {
		return fmt.Errorf("market/postgres: set platform fee: %w", err)
	}
	return nil
}

func (s *Store) TotalCompletedTransactions(ctx context.Context) (uint64, error) {
	var total int64
	err := s.pool.QueryRow(ctx,
		`SELECT total_transactions FROM market_params WHERE singleton`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("market/postgres: total transactions: %w", err)
	}
	return uint64(total), nil
}
