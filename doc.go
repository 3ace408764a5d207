// Package market provides a ledger-backed marketplace for selling access
// to off-chain data assets, paid in a native token.
//
// Market is designed as a library, not a service. Import it directly into
// your Go application. It manages listing lifecycle, atomic purchase
// settlement with platform fee splitting, purchase-gated release of access
// credentials, and per-seller reputation counters. It does not handle the
// encryption, storage, or transport of the underlying data assets — the
// credential is an opaque string produced and consumed by external
// collaborators.
//
// # Quick Start
//
// Create a market over your preferred store and payment engine:
//
//	import (
//	    "github.com/cipherbay/market"
//	    "github.com/cipherbay/market/payment"
//	    "github.com/cipherbay/market/store/memory"
//	)
//
//	bank := payment.NewBank()
//	m := market.New(memory.New(), bank, "admin")
//
//	ctx := context.Background()
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Stop()
//
// Sellers list assets; the encrypted key is stored atomically with the
// listing and never released without a purchase:
//
//	id, err := m.CreateListing(ctx, "alice", market.Tokens(1000),
//	    "hourly GPS traces, 2025", "geodata", encryptedKey)
//
// Buyers purchase and then retrieve the credential:
//
//	receipt, err := m.Purchase(ctx, "bob", id)
//	key, err := m.AccessKey(ctx, "bob", id)
//
// # Settlement
//
// A purchase moves money twice: price minus fee to the seller, and
// fee = floor(price * percent / 100) to the administrator. Both transfers
// and all bookkeeping commit together or not at all; a failed transfer
// leaves no observable state change. All amounts are integer token units —
// no floating point anywhere.
//
// # Storage
//
// Market talks to storage through the store.Store interface. Drivers ship
// for in-memory maps (store/memory), PostgreSQL (store/postgres), and
// MongoDB (store/mongo). Mutating operations are serialized by the engine
// and committed one transaction at a time, which is what makes the
// all-or-nothing contract hold on every driver.
//
// # Extension
//
// Lifecycle hooks (listing created, purchase completed, credential
// released, fee updated, ...) dispatch through the plugin package. The
// audit package records hook traffic as an audit trail; the observability
// package counts it as metrics, with a Prometheus-backed factory.
package market
