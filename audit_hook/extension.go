// Package audithook bridges Gridbill lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	gridbill "github.com/xraph/gridbill"
	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/meter"
	"github.com/xraph/gridbill/plugin"
	"github.com/xraph/gridbill/shard"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin             = (*Extension)(nil)
	_ plugin.OnBillIssued       = (*Extension)(nil)
	_ plugin.OnBillReplaced     = (*Extension)(nil)
	_ plugin.OnBillPaid         = (*Extension)(nil)
	_ plugin.OnPaymentApplied   = (*Extension)(nil)
	_ plugin.OnMeterAllocated   = (*Extension)(nil)
	_ plugin.OnAccountCreated   = (*Extension)(nil)
	_ plugin.OnAccountDeleted   = (*Extension)(nil)
	_ plugin.OnCompanyChanged   = (*Extension)(nil)
	_ plugin.OnPartitionSkipped = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so that the audit_hook package does not import
// the audit backend directly; callers inject the concrete recorder at
// wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Partition  string         `json:"partition,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Gridbill lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Billing lifecycle hooks
// ──────────────────────────────────────────────────

// OnBillIssued implements plugin.OnBillIssued.
func (e *Extension) OnBillIssued(ctx context.Context, part shard.Key, b interface{}) error {
	id, meta := billDetails(b)
	return e.record(ctx, ActionBillIssued, SeverityInfo, OutcomeSuccess,
		ResourceBill, id, CategoryBilling, part, nil, meta...)
}

// OnBillReplaced implements plugin.OnBillReplaced.
func (e *Extension) OnBillReplaced(ctx context.Context, part shard.Key, old, replacement interface{}) error {
	oldID, _ := billDetails(old)
	newID, meta := billDetails(replacement)
	meta = append(meta, "replaced_bill_id", oldID)
	return e.record(ctx, ActionBillReplaced, SeverityInfo, OutcomeSuccess,
		ResourceBill, newID, CategoryBilling, part, nil, meta...)
}

// OnBillPaid implements plugin.OnBillPaid.
func (e *Extension) OnBillPaid(ctx context.Context, part shard.Key, b interface{}) error {
	id, meta := billDetails(b)
	return e.record(ctx, ActionBillPaid, SeverityInfo, OutcomeSuccess,
		ResourceBill, id, CategoryPayment, part, nil, meta...)
}

// OnPaymentApplied implements plugin.OnPaymentApplied.
func (e *Extension) OnPaymentApplied(ctx context.Context, part shard.Key, outcome interface{}) error {
	var (
		paymentID string
		meta      []any
	)
	if o, ok := outcome.(*gridbill.PaymentOutcome); ok {
		paymentID = o.PaymentID.String()
		meta = []any{
			"kind", string(o.Kind),
			"customer_id", o.CustomerID,
			"amount", o.Amount.FormatMajor(),
		}
	}
	return e.record(ctx, ActionPaymentApplied, SeverityInfo, OutcomeSuccess,
		ResourcePayment, paymentID, CategoryPayment, part, nil, meta...)
}

// ──────────────────────────────────────────────────
// Meter lifecycle hooks
// ──────────────────────────────────────────────────

// OnMeterAllocated implements plugin.OnMeterAllocated.
func (e *Extension) OnMeterAllocated(ctx context.Context, part shard.Key, info interface{}) error {
	var (
		meterNo string
		meta    []any
	)
	if m, ok := info.(*meter.Info); ok {
		meterNo = m.MeterNo
		meta = []any{"location", m.Location}
	}
	return e.record(ctx, ActionMeterAllocated, SeverityInfo, OutcomeSuccess,
		ResourceMeter, meterNo, CategoryMetering, part, nil, meta...)
}

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated implements plugin.OnAccountCreated.
func (e *Extension) OnAccountCreated(ctx context.Context, part shard.Key, role string, _ interface{}) error {
	return e.record(ctx, ActionAccountCreated, SeverityInfo, OutcomeSuccess,
		ResourceAccount, "", CategoryAccount, part, nil,
		"role", role,
	)
}

// OnAccountDeleted implements plugin.OnAccountDeleted.
func (e *Extension) OnAccountDeleted(ctx context.Context, part shard.Key, accountID int64) error {
	return e.record(ctx, ActionAccountDeleted, SeverityWarning, OutcomeSuccess,
		ResourceAccount, strconv.FormatInt(accountID, 10), CategoryAccount, part, nil,
		"account_id", accountID,
	)
}

// OnCompanyChanged implements plugin.OnCompanyChanged.
func (e *Extension) OnCompanyChanged(ctx context.Context, op string, _ interface{}) error {
	var action string
	switch op {
	case "created":
		action = ActionCompanyCreated
	case "deleted":
		action = ActionCompanyDeleted
	default:
		action = ActionCompanyUpdated
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		ResourceCompany, "", CategoryRegistry, "", nil,
		"op", op,
	)
}

// ──────────────────────────────────────────────────
// Federation hooks
// ──────────────────────────────────────────────────

// OnPartitionSkipped implements plugin.OnPartitionSkipped.
func (e *Extension) OnPartitionSkipped(ctx context.Context, part shard.Key, err error) error {
	return e.record(ctx, ActionPartitionSkipped, SeverityWarning, OutcomePartial,
		ResourcePartition, part.String(), CategoryFederation, part, err,
		"event", "partition_skipped",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// billDetails extracts an identifier and metadata from a hook payload.
func billDetails(v interface{}) (string, []any) {
	b, ok := v.(*bill.Bill)
	if !ok {
		return "", nil
	}
	return b.ID.String(), []any{
		"customer_id", b.CustomerID,
		"amount", b.Amount.FormatMajor(),
		"status", string(b.Status),
	}
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	part shard.Key,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Partition:  part.String(),
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
