// Package plugin provides an extensible plugin system for the billing engine.
// Plugins can hook into lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/gridbill/shard"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Billing hooks
// ──────────────────────────────────────────────────

// OnBillIssued is called after a new bill is appended to a ledger.
type OnBillIssued interface {
	Plugin
	OnBillIssued(ctx context.Context, part shard.Key, b interface{}) error
}

// OnBillReplaced is called when a carried-forward bill supersedes a prior one.
type OnBillReplaced interface {
	Plugin
	OnBillReplaced(ctx context.Context, part shard.Key, old, replacement interface{}) error
}

// OnBillPaid is called when a bill settles.
type OnBillPaid interface {
	Plugin
	OnBillPaid(ctx context.Context, part shard.Key, b interface{}) error
}

// OnPaymentApplied is called for every accepted payment, whether it
// topped up a prepaid balance or settled a postpaid bill.
type OnPaymentApplied interface {
	Plugin
	OnPaymentApplied(ctx context.Context, part shard.Key, outcome interface{}) error
}

// ──────────────────────────────────────────────────
// Meter hooks
// ──────────────────────────────────────────────────

// OnMeterAllocated is called when a new meter number is reserved.
type OnMeterAllocated interface {
	Plugin
	OnMeterAllocated(ctx context.Context, part shard.Key, info interface{}) error
}

// ──────────────────────────────────────────────────
// Account hooks
// ──────────────────────────────────────────────────

// OnAccountCreated is called when an agent or customer account is created.
type OnAccountCreated interface {
	Plugin
	OnAccountCreated(ctx context.Context, part shard.Key, role string, acct interface{}) error
}

// OnAccountDeleted is called after an account is removed from its partition.
type OnAccountDeleted interface {
	Plugin
	OnAccountDeleted(ctx context.Context, part shard.Key, accountID int64) error
}

// OnCompanyChanged is called when a company record in the central registry
// is created, updated, or deleted.
type OnCompanyChanged interface {
	Plugin
	OnCompanyChanged(ctx context.Context, op string, company interface{}) error
}

// ──────────────────────────────────────────────────
// Federation hooks
// ──────────────────────────────────────────────────

// OnPartitionSkipped is called when a scatter-gather query drops a
// partition because it was unreachable.
type OnPartitionSkipped interface {
	Plugin
	OnPartitionSkipped(ctx context.Context, part shard.Key, err error) error
}

// ──────────────────────────────────────────────────
// Fine policies
// ──────────────────────────────────────────────────

// FinePolicy provides custom late-fine calculation. When registered, the
// engine consults it instead of the flat configured fine.
type FinePolicy interface {
	Plugin
	PolicyName() string
	Compute(previousDue interface{}) interface{} // takes and returns Money
}
