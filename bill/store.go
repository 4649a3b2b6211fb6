package bill

import (
	"context"
	"time"

	"github.com/xraph/gridbill/id"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/types"
)

// Store is the partition-scoped persistence contract for the bill ledger.
// Inserts are append-only; the only permitted mutation is the status
// transition away from unpaid, and both transition methods are conditional
// on the bill still being unpaid so concurrent supersession and settlement
// cannot both win.
type Store interface {
	InsertBill(ctx context.Context, part shard.Key, b *Bill) error
	GetBill(ctx context.Context, part shard.Key, billID id.BillID) (*Bill, error)

	// LatestBill returns the most recently inserted bill for the customer,
	// or gridbill.ErrBillNotFound when the customer has none.
	LatestBill(ctx context.Context, part shard.Key, customerID int64) (*Bill, error)

	// UnpaidBill returns the customer's unpaid bill, or
	// gridbill.ErrBillNotFound when none is outstanding.
	UnpaidBill(ctx context.Context, part shard.Key, customerID int64) (*Bill, error)

	ListBills(ctx context.Context, part shard.Key, opts ListOpts) ([]*Bill, error)

	// MarkBillReplaced transitions unpaid → replaced. If the bill is no
	// longer unpaid the call fails with gridbill.ErrBillSuperseded.
	MarkBillReplaced(ctx context.Context, part shard.Key, billID id.BillID) error

	// MarkBillPaid transitions unpaid → paid, recording when, how much was
	// tendered, and the payment reference. Fails with
	// gridbill.ErrBillSuperseded if the bill is no longer unpaid.
	MarkBillPaid(ctx context.Context, part shard.Key, billID id.BillID, paidAt time.Time, paidAmount types.Money, ref id.PaymentID) error
}
