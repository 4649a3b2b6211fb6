package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/gridbill/shard"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit             []OnInit
	onShutdown         []OnShutdown
	onBillIssued       []OnBillIssued
	onBillReplaced     []OnBillReplaced
	onBillPaid         []OnBillPaid
	onPaymentApplied   []OnPaymentApplied
	onMeterAllocated   []OnMeterAllocated
	onAccountCreated   []OnAccountCreated
	onAccountDeleted   []OnAccountDeleted
	onCompanyChanged   []OnCompanyChanged
	onPartitionSkipped []OnPartitionSkipped
	finePolicies       map[string]FinePolicy

	// Observer invoked whenever a plugin hook fails
	onError func(pluginName string, err error)
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:       slog.Default(),
		finePolicies: make(map[string]FinePolicy),
	}
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

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnBillIssued); ok {
		r.onBillIssued = append(r.onBillIssued, v)
	}
	if v, ok := p.(OnBillReplaced); ok {
		r.onBillReplaced = append(r.onBillReplaced, v)
	}
	if v, ok := p.(OnBillPaid); ok {
		r.onBillPaid = append(r.onBillPaid, v)
	}
	if v, ok := p.(OnPaymentApplied); ok {
		r.onPaymentApplied = append(r.onPaymentApplied, v)
	}
	if v, ok := p.(OnMeterAllocated); ok {
		r.onMeterAllocated = append(r.onMeterAllocated, v)
	}
	if v, ok := p.(OnAccountCreated); ok {
		r.onAccountCreated = append(r.onAccountCreated, v)
	}
	if v, ok := p.(OnAccountDeleted); ok {
		r.onAccountDeleted = append(r.onAccountDeleted, v)
	}
	if v, ok := p.(OnCompanyChanged); ok {
		r.onCompanyChanged = append(r.onCompanyChanged, v)
	}
	if v, ok := p.(OnPartitionSkipped); ok {
		r.onPartitionSkipped = append(r.onPartitionSkipped, v)
	}
	if v, ok := p.(FinePolicy); ok {
		r.finePolicies[v.PolicyName()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnBillIssued)(nil)).Elem(), "OnBillIssued")
	checkInterface(reflect.TypeOf((*OnBillPaid)(nil)).Elem(), "OnBillPaid")
	checkInterface(reflect.TypeOf((*OnPaymentApplied)(nil)).Elem(), "OnPaymentApplied")
	checkInterface(reflect.TypeOf((*OnMeterAllocated)(nil)).Elem(), "OnMeterAllocated")
	checkInterface(reflect.TypeOf((*OnAccountCreated)(nil)).Elem(), "OnAccountCreated")
	checkInterface(reflect.TypeOf((*OnPartitionSkipped)(nil)).Elem(), "OnPartitionSkipped")
	checkInterface(reflect.TypeOf((*FinePolicy)(nil)).Elem(), "FinePolicy")

	return interfaces
}

// Get returns a plugin by name.
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
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.hookFailed("OnInit", p.Name(), err)
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
			r.hookFailed("OnShutdown", p.Name(), err)
		}
	}
}

// EmitBillIssued emits a bill issued event.
func (r *Registry) EmitBillIssued(ctx context.Context, part shard.Key, b interface{}) {
	r.mu.RLock()
	plugins := r.onBillIssued
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBillIssued(ctx, part, b)
		}); err != nil {
			r.hookFailed("OnBillIssued", p.Name(), err)
		}
	}
}

// EmitBillReplaced emits a bill replaced event.
func (r *Registry) EmitBillReplaced(ctx context.Context, part shard.Key, old, replacement interface{}) {
	r.mu.RLock()
	plugins := r.onBillReplaced
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBillReplaced(ctx, part, old, replacement)
		}); err != nil {
			r.hookFailed("OnBillReplaced", p.Name(), err)
		}
	}
}

// EmitBillPaid emits a bill paid event.
func (r *Registry) EmitBillPaid(ctx context.Context, part shard.Key, b interface{}) {
	r.mu.RLock()
	plugins := r.onBillPaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBillPaid(ctx, part, b)
		}); err != nil {
			r.hookFailed("OnBillPaid", p.Name(), err)
		}
	}
}

// EmitPaymentApplied emits a payment applied event.
func (r *Registry) EmitPaymentApplied(ctx context.Context, part shard.Key, outcome interface{}) {
	r.mu.RLock()
	plugins := r.onPaymentApplied
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentApplied(ctx, part, outcome)
		}); err != nil {
			r.hookFailed("OnPaymentApplied", p.Name(), err)
		}
	}
}

// EmitMeterAllocated emits a meter allocated event.
func (r *Registry) EmitMeterAllocated(ctx context.Context, part shard.Key, info interface{}) {
	r.mu.RLock()
	plugins := r.onMeterAllocated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMeterAllocated(ctx, part, info)
		}); err != nil {
			r.hookFailed("OnMeterAllocated", p.Name(), err)
		}
	}
}

// EmitAccountCreated emits an account created event.
func (r *Registry) EmitAccountCreated(ctx context.Context, part shard.Key, role string, acct interface{}) {
	r.mu.RLock()
	plugins := r.onAccountCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccountCreated(ctx, part, role, acct)
		}); err != nil {
			r.hookFailed("OnAccountCreated", p.Name(), err)
		}
	}
}

// EmitAccountDeleted emits an account deleted event.
func (r *Registry) EmitAccountDeleted(ctx context.Context, part shard.Key, accountID int64) {
	r.mu.RLock()
	plugins := r.onAccountDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAccountDeleted(ctx, part, accountID)
		}); err != nil {
			r.hookFailed("OnAccountDeleted", p.Name(), err)
		}
	}
}

// EmitCompanyChanged emits a company changed event.
func (r *Registry) EmitCompanyChanged(ctx context.Context, op string, company interface{}) {
	r.mu.RLock()
	plugins := r.onCompanyChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCompanyChanged(ctx, op, company)
		}); err != nil {
			r.hookFailed("OnCompanyChanged", p.Name(), err)
		}
	}
}

// EmitPartitionSkipped emits a partition skipped event.
func (r *Registry) EmitPartitionSkipped(ctx context.Context, part shard.Key, cause error) {
	r.mu.RLock()
	plugins := r.onPartitionSkipped
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPartitionSkipped(ctx, part, cause)
		}); err != nil {
			r.hookFailed("OnPartitionSkipped", p.Name(), err)
		}
	}
}

// OnError registers an observer invoked whenever a plugin hook fails.
// Metrics extensions use this to count hook failures.
func (r *Registry) OnError(fn func(pluginName string, err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onError = fn
}

// hookFailed logs a failed plugin hook and notifies the error observer.
func (r *Registry) hookFailed(hook, pluginName string, err error) {
	r.logger.Warn("plugin "+hook+" failed",
		"plugin", pluginName,
		"error", err,
	)

	r.mu.RLock()
	fn := r.onError
	r.mu.RUnlock()
	if fn != nil {
		fn(pluginName, err)
	}
}

// GetFinePolicy returns a fine policy by name.
func (r *Registry) GetFinePolicy(name string) FinePolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.finePolicies[name]
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the billing pipeline.
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
