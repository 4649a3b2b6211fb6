package extension

import (
	"time"

	gridbill "github.com/xraph/gridbill"
	"github.com/xraph/gridbill/plugin"
	"github.com/xraph/gridbill/store"
	"github.com/xraph/gridbill/types"
)

// Option configures the Gridbill Forge extension.
type Option func(*Extension)

// WithStore sets the store for the billing engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEngineOption passes a gridbill.Option through to the underlying engine.
func WithEngineOption(opt gridbill.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers an engine plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, gridbill.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithLateFine sets the flat late fine added to carried-forward bills.
func WithLateFine(fine types.Money) Option {
	return func(e *Extension) {
		e.config.LateFine = fine.Amount
		e.config.Currency = fine.Currency
	}
}

// WithFinePolicy names the registered fine policy plugin to consult.
func WithFinePolicy(name string) Option {
	return func(e *Extension) { e.config.FinePolicy = name }
}

// WithStoreTimeout bounds every single-partition store call.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.StoreTimeout = d }
}
