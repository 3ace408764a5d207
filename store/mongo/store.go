// Package mongo provides a MongoDB-backed Store.
//
// Multi-document operations (CreateListing, RecordSale) run inside a
// session transaction, so the deployment must be a replica set or a
// sharded cluster. Single-document reads and updates go straight to the
// collection.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	market "github.com/cipherbay/market"
	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/participant"
	"github.com/cipherbay/market/purchase"
	marketstore "github.com/cipherbay/market/store"
	"github.com/cipherbay/market/types"
)

// Collection name constants.
const (
	colListings    = "market_listings"
	colCredentials = "market_credentials"
	colPurchases   = "market_purchases"
	colProfiles    = "market_profiles"
	colParams      = "market_params"
)

// paramsID is the _id of the single parameters document.
const paramsID = "params"

// compile-time interface check
var _ marketstore.Store = (*Store)(nil)

// Store implements store.Store on MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and returns a store bound to dbName.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("market/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("market/mongo: ping: %w", err)
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *mongo.Client, dbName string) *Store {
	return &Store{client: client, db: client.Database(dbName)}
}

// Database returns the underlying database for direct access.
func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) col(name string) *mongo.Collection { return s.db.Collection(name) }

// Migrate creates indexes and seeds the parameters document.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		if _, err := s.col(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("market/mongo: migrate %s indexes: %w", col, err)
		}
	}

	_, err := s.col(colParams).UpdateOne(ctx,
		bson.M{"_id": paramsID},
		bson.M{"$setOnInsert": bson.M{
			"next_listing_id":    int64(1),
			"fee_percent":        int32(marketstore.DefaultFeePercent),
			"total_transactions": int64(0),
		}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("market/mongo: seed params: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// withTransaction runs fn inside a session transaction.
func (s *Store) withTransaction(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("market/mongo: start session: %w", err)
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, fn)
}

// ==================== Listing store ====================

func (s *Store) CreateListing(ctx context.Context, l *listing.Listing, cred *listing.AccessCredential) (id.ListingID, error) {
	result, err := s.withTransaction(ctx, func(ctx context.Context) (any, error) {
		var params paramsModel
		err := s.col(colParams).FindOneAndUpdate(ctx,
			bson.M{"_id": paramsID},
			bson.M{"$inc": bson.M{"next_listing_id": int64(1)}},
		).Decode(&params)
		if err != nil {
			return nil, fmt.Errorf("market/mongo: allocate listing id: %w", err)
		}
		next := id.ListingID(params.NextListingID)

		// Never overwrite an active listing; unreachable under correct
		// counter management.
		var existing listingModel
		err = s.col(colListings).FindOne(ctx, bson.M{"_id": params.NextListingID}).Decode(&existing)
		switch {
		case err == nil:
			if existing.Active {
				return nil, market.ErrDuplicateListing
			}
		case !isNoDocuments(err):
			return nil, fmt.Errorf("market/mongo: collision check: %w", err)
		}

		stored := l.Clone()
		stored.ID = next
		if _, err := s.col(colListings).InsertOne(ctx, toListingModel(stored)); err != nil {
			return nil, fmt.Errorf("market/mongo: insert listing: %w", err)
		}

		credModel := credentialModel{ListingID: int64(next), EncryptedKey: cred.EncryptedKey}
		if _, err := s.col(colCredentials).InsertOne(ctx, &credModel); err != nil {
			return nil, fmt.Errorf("market/mongo: insert credential: %w", err)
		}

		return next, nil
	})
	if err != nil {
		return 0, err
	}

	next := result.(id.ListingID)
	l.ID = next
	return next, nil
}

func (s *Store) GetListing(ctx context.Context, listingID id.ListingID) (*listing.Listing, error) {
	var m listingModel
	err := s.col(colListings).FindOne(ctx, bson.M{"_id": int64(listingID)}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, market.ErrListingNotFound
		}
		return nil, fmt.Errorf("market/mongo: get listing: %w", err)
	}
	return fromListingModel(&m), nil
}

func (s *Store) UpdateListingPrice(ctx context.Context, listingID id.ListingID, price types.Amount) error {
	result, err := s.col(colListings).UpdateOne(ctx,
		bson.M{"_id": int64(listingID)},
		bson.M{"$set": bson.M{"price": int64(price)}},
	)
	if err != nil {
		return fmt.Errorf("market/mongo: update price: %w", err)
	}
	if result.MatchedCount == 0 {
		return market.ErrListingNotFound
	}
	return nil
}

func (s *Store) DeactivateListing(ctx context.Context, listingID id.ListingID) error {
	result, err := s.col(colListings).UpdateOne(ctx,
		bson.M{"_id": int64(listingID)},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		return fmt.Errorf("market/mongo: deactivate: %w", err)
	}
	if result.MatchedCount == 0 {
		return market.ErrListingNotFound
	}
	return nil
}

func (s *Store) GetCredential(ctx context.Context, listingID id.ListingID) (*listing.AccessCredential, error) {
	var m credentialModel
	err := s.col(colCredentials).FindOne(ctx, bson.M{"_id": int64(listingID)}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, market.ErrListingNotFound
		}
		return nil, fmt.Errorf("market/mongo: get credential: %w", err)
	}
	return &listing.AccessCredential{
		ListingID:    id.ListingID(m.ListingID),
		EncryptedKey: m.EncryptedKey,
	}, nil
}

func (s *Store) NextListingID(ctx context.Context) (id.ListingID, error) {
	var params paramsModel
	err := s.col(colParams).FindOne(ctx, bson.M{"_id": paramsID}).Decode(&params)
	if err != nil {
		return 0, fmt.Errorf("market/mongo: next listing id: %w", err)
	}
	return id.ListingID(params.NextListingID), nil
}

// ==================== Settlement store ====================

func (s *Store) RecordSale(ctx context.Context, rec *purchase.Record) error {
	_, err := s.withTransaction(ctx, func(ctx context.Context) (any, error) {
		m := toPurchaseModel(rec)
		_, err := s.col(colPurchases).ReplaceOne(ctx,
			bson.M{"buyer": m.Buyer, "listing_id": m.ListingID},
			m,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("market/mongo: upsert purchase: %w", err)
		}

		_, err = s.col(colProfiles).UpdateOne(ctx,
			bson.M{"_id": string(rec.Seller)},
			bson.M{
				"$inc":         bson.M{"completed_sales": int64(1)},
				"$set":         bson.M{"last_interaction_at": int64(rec.PurchasedAt)},
				"$setOnInsert": bson.M{"rating": int64(0)},
			},
			options.UpdateOne().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("market/mongo: upsert profile: %w", err)
		}

		_, err = s.col(colParams).UpdateOne(ctx,
			bson.M{"_id": paramsID},
			bson.M{"$inc": bson.M{"total_transactions": int64(1)}},
		)
		if err != nil {
			return nil, fmt.Errorf("market/mongo: advance total: %w", err)
		}
		return nil, nil
	})
	return err
}

func (s *Store) GetPurchase(ctx context.Context, buyer types.Identity, listingID id.ListingID) (*purchase.Record, error) {
	var m purchaseModel
	err := s.col(colPurchases).FindOne(ctx,
		bson.M{"buyer": string(buyer), "listing_id": int64(listingID)},
	).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, market.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("market/mongo: get purchase: %w", err)
	}
	return fromPurchaseModel(&m), nil
}

// ==================== Profile store ====================

func (s *Store) GetProfile(ctx context.Context, identity types.Identity) (*participant.Profile, error) {
	var m profileModel
	err := s.col(colProfiles).FindOne(ctx, bson.M{"_id": string(identity)}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, market.ErrProfileNotFound
		}
		return nil, fmt.Errorf("market/mongo: get profile: %w", err)
	}
	return fromProfileModel(&m), nil
}

// ==================== Platform counters ====================

func (s *Store) PlatformFee(ctx context.Context) (uint8, error) {
	var params paramsModel
	err := s.col(colParams).FindOne(ctx, bson.M{"_id": paramsID}).Decode(&params)
	if err != nil {
		return 0, fmt.Errorf("market/mongo: platform fee: %w", err)
	}
	return uint8(params.FeePercent), nil
}

func (s *Store) SetPlatformFee(ctx context.Context, percent uint8) error {
	_, err := s.col(colParams).UpdateOne(ctx,
		bson.M{"_id": paramsID},
		bson.M{"$set": bson.M{"fee_percent": int32(percent)}},
	)
	if err != nil {
		return fmt.Errorf("market/mongo: set platform fee: %w", err)
	}
	return nil
}

func (s *Store) TotalCompletedTransactions(ctx context.Context) (uint64, error) {
	var params paramsModel
	err := s.col(colParams).FindOne(ctx, bson.M{"_id": paramsID}).Decode(&params)
	if err != nil {
		return 0, fmt.Errorf("market/mongo: total transactions: %w", err)
	}
	return uint64(params.TotalTransactions), nil
}

// isNoDocuments reports whether err is a mongo "no documents" error.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all market collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colListings: {
			{Keys: bson.D{{Key: "seller", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "active", Value: 1}}},
		},
		colPurchases: {
			{
				Keys:    bson.D{{Key: "buyer", Value: 1}, {Key: "listing_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "purchased_at", Value: -1}}},
		},
	}
}
