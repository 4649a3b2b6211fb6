// Package observability provides a metrics extension for Gridbill that records
// lifecycle event counts via a pluggable MetricFactory.
package observability

import (
	"context"

	gridbill "github.com/xraph/gridbill"
	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/plugin"
	"github.com/xraph/gridbill/shard"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin             = (*MetricsExtension)(nil)
	_ plugin.OnInit             = (*MetricsExtension)(nil)
	_ plugin.OnBillIssued       = (*MetricsExtension)(nil)
	_ plugin.OnBillReplaced     = (*MetricsExtension)(nil)
	_ plugin.OnBillPaid         = (*MetricsExtension)(nil)
	_ plugin.OnPaymentApplied   = (*MetricsExtension)(nil)
	_ plugin.OnMeterAllocated   = (*MetricsExtension)(nil)
	_ plugin.OnAccountCreated   = (*MetricsExtension)(nil)
	_ plugin.OnAccountDeleted   = (*MetricsExtension)(nil)
	_ plugin.OnCompanyChanged   = (*MetricsExtension)(nil)
	_ plugin.OnPartitionSkipped = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as an Engine plugin to automatically track billing metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Billing metrics
	BillsIssued     Counter
	BillsReplaced   Counter
	BillsPaid       Counter
	BillAmount      Histogram
	PaymentsApplied Counter
	PrepaidTopups   Counter
	PostpaidSettled Counter

	// Meter metrics
	MetersAllocated Counter

	// Account metrics
	AccountsCreated Counter
	AccountsDeleted Counter
	CompanyChanges  Counter

	// Federation metrics
	PartitionsSkipped Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Billing metrics
		BillsIssued:     factory.Counter("gridbill.bill.issued"),
		BillsReplaced:   factory.Counter("gridbill.bill.replaced"),
		BillsPaid:       factory.Counter("gridbill.bill.paid"),
		BillAmount:      factory.Histogram("gridbill.bill.amount"),
		PaymentsApplied: factory.Counter("gridbill.payment.applied"),
		PrepaidTopups:   factory.Counter("gridbill.payment.topup"),
		PostpaidSettled: factory.Counter("gridbill.payment.settlement"),

		// Meter metrics
		MetersAllocated: factory.Counter("gridbill.meter.allocated"),

		// Account metrics
		AccountsCreated: factory.Counter("gridbill.account.created"),
		AccountsDeleted: factory.Counter("gridbill.account.deleted"),
		CompanyChanges:  factory.Counter("gridbill.company.changed"),

		// Federation metrics
		PartitionsSkipped: factory.Counter("gridbill.federation.partitions.skipped"),

		// Error metrics
		StoreErrors:  factory.Counter("gridbill.store.errors"),
		PluginErrors: factory.Counter("gridbill.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit. It hooks the engine's plugin registry
// so failed plugin hooks increment PluginErrors.
func (m *MetricsExtension) OnInit(_ context.Context, engine interface{}) error {
	if e, ok := engine.(interface{ Plugins() *plugin.Registry }); ok {
		e.Plugins().OnError(func(_ string, _ error) {
			m.PluginErrors.Inc()
		})
	}
	return nil
}

// ──────────────────────────────────────────────────
// Billing lifecycle hooks
// ──────────────────────────────────────────────────

// OnBillIssued implements plugin.OnBillIssued.
func (m *MetricsExtension) OnBillIssued(_ context.Context, _ shard.Key, b interface{}) error {
	m.BillsIssued.Inc()
	if issued, ok := b.(*bill.Bill); ok {
		m.BillAmount.Observe(float64(issued.Amount.Amount))
	}
	return nil
}

// OnBillReplaced implements plugin.OnBillReplaced.
func (m *MetricsExtension) OnBillReplaced(_ context.Context, _ shard.Key, _, _ interface{}) error {
	m.BillsReplaced.Inc()
	return nil
}

// OnBillPaid implements plugin.OnBillPaid.
func (m *MetricsExtension) OnBillPaid(_ context.Context, _ shard.Key, _ interface{}) error {
	m.BillsPaid.Inc()
	return nil
}

// OnPaymentApplied implements plugin.OnPaymentApplied.
func (m *MetricsExtension) OnPaymentApplied(_ context.Context, _ shard.Key, outcome interface{}) error {
	m.PaymentsApplied.Inc()
	if o, ok := outcome.(*gridbill.PaymentOutcome); ok {
		switch o.Kind {
		case gridbill.PaymentTopUp:
			m.PrepaidTopups.Inc()
		case gridbill.PaymentSettlement:
			m.PostpaidSettled.Inc()
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Meter lifecycle hooks
// ──────────────────────────────────────────────────

// OnMeterAllocated implements plugin.OnMeterAllocated.
func (m *MetricsExtension) OnMeterAllocated(_ context.Context, _ shard.Key, _ interface{}) error {
	m.MetersAllocated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated implements plugin.OnAccountCreated.
func (m *MetricsExtension) OnAccountCreated(_ context.Context, _ shard.Key, _ string, _ interface{}) error {
	m.AccountsCreated.Inc()
	return nil
}

// OnAccountDeleted implements plugin.OnAccountDeleted.
func (m *MetricsExtension) OnAccountDeleted(_ context.Context, _ shard.Key, _ int64) error {
	m.AccountsDeleted.Inc()
	return nil
}

// OnCompanyChanged implements plugin.OnCompanyChanged.
func (m *MetricsExtension) OnCompanyChanged(_ context.Context, _ string, _ interface{}) error {
	m.CompanyChanges.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Federation hooks
// ──────────────────────────────────────────────────

// OnPartitionSkipped implements plugin.OnPartitionSkipped. A skipped
// partition always has a failed store call as its cause, so it counts
// against StoreErrors too.
func (m *MetricsExtension) OnPartitionSkipped(_ context.Context, _ shard.Key, _ error) error {
	m.PartitionsSkipped.Inc()
	m.StoreErrors.Inc()
	return nil
}
