package gridbill

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xraph/gridbill/internal/keyed"
	"github.com/xraph/gridbill/plugin"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/store"
	"github.com/xraph/gridbill/types"
)

// ResolveShard reports which partition owns (location, customerID).
// Ids outside the partitioned capacity yield ErrOutOfRange.
func ResolveShard(location string, customerID int64) (shard.Key, error) {
	part := shard.Resolve(location, customerID)
	if !part.Live() {
		return part, ErrOutOfRange
	}
	return part, nil
}

// Engine is the main billing engine. It routes every account, meter, and
// bill operation to the partition owned by the account's location and id,
// and fans federated queries out across partition families.
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Serialization for read-modify-write sequences
	meterLocks *keyed.Mutex
	billLocks  *keyed.Mutex

	// Configuration
	lateFine     types.Money
	finePolicy   string
	storeTimeout time.Duration
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:        s,
		plugins:      plugin.NewRegistry(),
		logger:       slog.Default(),
		meterLocks:   keyed.New(),
		billLocks:    keyed.New(),
		lateFine:     types.BDT(50),
		storeTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithLateFine overrides the flat penalty added when a new bill carries
// forward an unpaid prior bill.
func WithLateFine(fine types.Money) Option {
	return func(e *Engine) {
		e.lateFine = fine
	}
}

// WithFinePolicy names the registered fine policy plugin to consult when a
// carried-forward bill needs a late fine.
func WithFinePolicy(name string) Option {
	return func(e *Engine) {
		e.finePolicy = name
	}
}

// WithStoreTimeout bounds every single-partition store call. Federated
// queries apply it per partition, not per query.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.storeTimeout = d
	}
}

// Start migrates the store and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("gridbill started",
		"late_fine", e.lateFine.FormatMajor(),
		"store_timeout", e.storeTimeout,
	)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// Plugins exposes the plugin registry.
func (e *Engine) Plugins() *plugin.Registry {
	return e.plugins
}

// withTimeout derives the per-call deadline used for partition store access.
func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.storeTimeout)
}

// storeErr maps deadline expiry onto the partition-unavailable failure the
// callers report for unreachable backends.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrPartitionUnavailable
	}
	return err
}
