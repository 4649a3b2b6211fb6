// Package extension provides the Forge extension adapter for Gridbill.
//
// It implements the forge.Extension interface to integrate Gridbill
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.gridbill" or
// "gridbill" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	gridbill "github.com/xraph/gridbill"
	"github.com/xraph/gridbill/store"
	"github.com/xraph/gridbill/store/memory"
	"github.com/xraph/gridbill/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "gridbill"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Partitioned utility billing engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Gridbill as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *gridbill.Engine
	store      store.Store
	engineOpts []gridbill.Option
}

// New creates a new Gridbill Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Gridbill engine.
// This is nil until Register is called.
func (e *Extension) Engine() *gridbill.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the billing engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build engine options from resolved config.
	opts := e.buildEngineOpts()

	eng := gridbill.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*gridbill.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("gridbill: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("gridbill: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs gridbill.Option values from the resolved config.
func (e *Extension) buildEngineOpts() []gridbill.Option {
	opts := make([]gridbill.Option, 0, len(e.engineOpts)+3)

	if e.config.LateFine > 0 {
		currency := e.config.Currency
		if currency == "" {
			currency = DefaultConfig().Currency
		}
		opts = append(opts, gridbill.WithLateFine(types.Money{
			Amount:   e.config.LateFine,
			Currency: currency,
		}))
	}

	if e.config.FinePolicy != "" {
		opts = append(opts, gridbill.WithFinePolicy(e.config.FinePolicy))
	}

	if e.config.StoreTimeout > 0 {
		opts = append(opts, gridbill.WithStoreTimeout(e.config.StoreTimeout))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("gridbill: configuration is required but not found in config files; " +
				"ensure 'extensions.gridbill' or 'gridbill' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("gridbill: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("late_fine", e.config.LateFine),
		forge.F("currency", e.config.Currency),
		forge.F("fine_policy", e.config.FinePolicy),
		forge.F("store_timeout", e.config.StoreTimeout),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.gridbill" first (namespaced pattern).
	if cm.IsSet("extensions.gridbill") {
		if err := cm.Bind("extensions.gridbill", &cfg); err == nil {
			e.Logger().Debug("gridbill: loaded config from file",
				forge.F("key", "extensions.gridbill"),
			)
			return cfg, true
		}
		e.Logger().Warn("gridbill: failed to bind extensions.gridbill config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "gridbill" key.
	if cm.IsSet("gridbill") {
		if err := cm.Bind("gridbill", &cfg); err == nil {
			e.Logger().Debug("gridbill: loaded config from file",
				forge.F("key", "gridbill"),
			)
			return cfg, true
		}
		e.Logger().Warn("gridbill: failed to bind gridbill config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.LateFine == 0 {
		cfg.LateFine = defaults.LateFine
	}
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.StoreTimeout == 0 {
		cfg.StoreTimeout = defaults.StoreTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.FinePolicy == "" && programmaticConfig.FinePolicy != "" {
		yamlConfig.FinePolicy = programmaticConfig.FinePolicy
	}
	if yamlConfig.Currency == "" && programmaticConfig.Currency != "" {
		yamlConfig.Currency = programmaticConfig.Currency
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.LateFine == 0 && programmaticConfig.LateFine != 0 {
		yamlConfig.LateFine = programmaticConfig.LateFine
	}
	if yamlConfig.StoreTimeout == 0 && programmaticConfig.StoreTimeout != 0 {
		yamlConfig.StoreTimeout = programmaticConfig.StoreTimeout
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
