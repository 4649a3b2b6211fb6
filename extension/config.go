package extension

import "time"

// Config holds the Gridbill extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.gridbill" or "gridbill" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// LateFine is the flat penalty, in minor units, added when a new bill
	// carries forward an unpaid prior bill (default: 50).
	LateFine int64 `json:"late_fine" mapstructure:"late_fine" yaml:"late_fine"`

	// Currency is the ISO currency code for the late fine (default: "bdt").
	Currency string `json:"currency" mapstructure:"currency" yaml:"currency"`

	// FinePolicy names a registered fine policy plugin to consult instead
	// of the flat fine.
	FinePolicy string `json:"fine_policy" mapstructure:"fine_policy" yaml:"fine_policy"`

	// StoreTimeout bounds every single-partition store call (default: 5s).
	StoreTimeout time.Duration `json:"store_timeout" mapstructure:"store_timeout" yaml:"store_timeout"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LateFine:     50,
		Currency:     "bdt",
		StoreTimeout: 5 * time.Second,
	}
}
