package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cipherbay/market/id"
	"github.com/cipherbay/market/listing"
	"github.com/cipherbay/market/purchase"
	"github.com/cipherbay/market/types"
)

// Registry manages all registered plugins and provides efficient dispatch.
// Interfaces are discovered once at registration, so emitting an event is a
// slice walk with no type assertions on the hot path.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	onInit               []OnInit
	onShutdown           []OnShutdown
	onListingCreated     []OnListingCreated
	onPriceUpdated       []OnPriceUpdated
	onListingDeactivated []OnListingDeactivated
	onPurchaseCompleted  []OnPurchaseCompleted
	onCredentialReleased []OnCredentialReleased
	onFeeUpdated         []OnFeeUpdated
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{logger: slog.Default()}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnListingCreated); ok {
		r.onListingCreated = append(r.onListingCreated, v)
	}
	if v, ok := p.(OnPriceUpdated); ok {
		r.onPriceUpdated = append(r.onPriceUpdated, v)
	}
	if v, ok := p.(OnListingDeactivated); ok {
		r.onListingDeactivated = append(r.onListingDeactivated, v)
	}
	if v, ok := p.(OnPurchaseCompleted); ok {
		r.onPurchaseCompleted = append(r.onPurchaseCompleted, v)
	}
	if v, ok := p.(OnCredentialReleased); ok {
		r.onCredentialReleased = append(r.onCredentialReleased, v)
	}
	if v, ok := p.(OnFeeUpdated); ok {
		r.onFeeUpdated = append(r.onFeeUpdated, v)
	}

	r.logger.Info("plugin registered", "name", p.Name())
	return nil
}

// Get returns a plugin by name, or nil.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, m interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, m)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitListingCreated emits a listing created event.
func (r *Registry) EmitListingCreated(ctx context.Context, l *listing.Listing) {
	r.mu.RLock()
	plugins := r.onListingCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnListingCreated(ctx, l)
		}); err != nil {
			r.logger.Warn("plugin OnListingCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPriceUpdated emits a price updated event.
func (r *Registry) EmitPriceUpdated(ctx context.Context, l *listing.Listing, oldPrice, newPrice types.Amount) {
	r.mu.RLock()
	plugins := r.onPriceUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPriceUpdated(ctx, l, oldPrice, newPrice)
		}); err != nil {
			r.logger.Warn("plugin OnPriceUpdated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitListingDeactivated emits a listing deactivated event.
func (r *Registry) EmitListingDeactivated(ctx context.Context, listingID id.ListingID) {
	r.mu.RLock()
	plugins := r.onListingDeactivated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnListingDeactivated(ctx, listingID)
		}); err != nil {
			r.logger.Warn("plugin OnListingDeactivated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPurchaseCompleted emits a purchase completed event.
func (r *Registry) EmitPurchaseCompleted(ctx context.Context, receipt *purchase.Receipt) {
	r.mu.RLock()
	plugins := r.onPurchaseCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseCompleted(ctx, receipt)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseCompleted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitCredentialReleased emits a credential released event.
func (r *Registry) EmitCredentialReleased(ctx context.Context, buyer types.Identity, listingID id.ListingID) {
	r.mu.RLock()
	plugins := r.onCredentialReleased
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCredentialReleased(ctx, buyer, listingID)
		}); err != nil {
			r.logger.Warn("plugin OnCredentialReleased failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitFeeUpdated emits a fee updated event.
func (r *Registry) EmitFeeUpdated(ctx context.Context, oldPercent, newPercent uint8) {
	r.mu.RLock()
	plugins := r.onFeeUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnFeeUpdated(ctx, oldPercent, newPercent)
		}); err != nil {
			r.logger.Warn("plugin OnFeeUpdated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins must never block the settlement pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
