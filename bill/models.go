// Package bill defines the append-only billing ledger records. Bills are
// never mutated except for a single status transition, and never deleted;
// the customer's "current bill" is the most recently inserted record.
package bill

import (
	"time"

	"github.com/xraph/gridbill/id"
	"github.com/xraph/gridbill/types"
)

// Status is the bill lifecycle state.
type Status string

// Bill statuses. A customer has at most one unpaid bill at a time: issuing
// a new bill supersedes the prior unpaid one, moving it to replaced.
const (
	StatusUnpaid   Status = "unpaid"
	StatusPaid     Status = "paid"
	StatusReplaced Status = "replaced"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusReplaced:
		return true
	default:
		return false
	}
}

// Bill is one ledger entry. Amount is the full amount due:
// BaseAmount + PreviousDue + Fine.
type Bill struct {
	types.Entity
	ID          id.BillID    `json:"id"`
	CustomerID  int64        `json:"customer_id"`
	Location    string       `json:"location"`
	Amount      types.Money  `json:"amount"`
	BaseAmount  types.Money  `json:"base_amount"`
	PreviousDue types.Money  `json:"previous_due"`
	Fine        types.Money  `json:"fine"`
	DueDate     time.Time    `json:"due_date"`
	Status      Status       `json:"status"`
	PaidAt      *time.Time   `json:"paid_at,omitempty"`
	PaidAmount  types.Money  `json:"paid_amount"`
	PaymentRef  id.PaymentID `json:"payment_ref,omitempty"`
}

// Outstanding is the settle-now view of a customer's ledger: the unpaid
// amount plus the fine a new bill would add on top of it.
type Outstanding struct {
	CustomerID int64       `json:"customer_id"`
	Amount     types.Money `json:"amount"`
	Fine       types.Money `json:"fine"`
	Bill       *Bill       `json:"bill,omitempty"`
}

// ListOpts filters and bounds bill listings. A zero CustomerID matches all
// customers; an empty Status matches all statuses.
type ListOpts struct {
	CustomerID int64
	Status     Status
	Limit      int
	Offset     int
}
