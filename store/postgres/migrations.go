package postgres

// migrations are applied in order by Migrate. Statements are idempotent
// so Migrate can run on every Start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS market_listings (
		id          BIGINT PRIMARY KEY,
		seller      TEXT NOT NULL,
		price       BIGINT NOT NULL,
		description TEXT NOT NULL,
		category    TEXT NOT NULL,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  BIGINT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_market_listings_seller
		ON market_listings (seller)`,

	`CREATE TABLE IF NOT EXISTS market_credentials (
		listing_id    BIGINT PRIMARY KEY REFERENCES market_listings (id),
		encrypted_key TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS market_purchases (
		buyer        TEXT NOT NULL,
		listing_id   BIGINT NOT NULL,
		seller       TEXT NOT NULL,
		amount_paid  BIGINT NOT NULL,
		purchased_at BIGINT NOT NULL,
		PRIMARY KEY (buyer, listing_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_market_purchases_seller
		ON market_purchases (seller)`,

	`CREATE TABLE IF NOT EXISTS market_profiles (
		identity            TEXT PRIMARY KEY,
		completed_sales     BIGINT NOT NULL DEFAULT 0,
		rating              BIGINT NOT NULL DEFAULT 0,
		last_interaction_at BIGINT NOT NULL DEFAULT 0
	)`,

	// Single-row parameter table. The singleton column constraint keeps it
	// at exactly one row.
	`CREATE TABLE IF NOT EXISTS market_params (
		singleton          BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		next_listing_id    BIGINT NOT NULL,
		fee_percent        SMALLINT NOT NULL,
		total_transactions BIGINT NOT NULL
	)`,

	`INSERT INTO market_params (singleton, next_listing_id, fee_percent, total_transactions)
		VALUES (TRUE, 1, 2, 0)
		ON CONFLICT (singleton) DO NOTHING`,
}
