package gridbill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/id"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/types"
)

// PaymentKind tells what an accepted payment did.
type PaymentKind string

const (
	// PaymentTopUp means the amount was credited to a prepaid balance.
	PaymentTopUp PaymentKind = "topup"
	// PaymentSettlement means the amount settled an unpaid postpaid bill.
	PaymentSettlement PaymentKind = "settlement"
)

// PaymentOutcome reports what ApplyPayment did with the money.
type PaymentOutcome struct {
	Kind       PaymentKind  `json:"kind"`
	Partition  shard.Key    `json:"partition"`
	CustomerID int64        `json:"customer_id"`
	Amount     types.Money  `json:"amount"`
	PaymentID  id.PaymentID `json:"payment_id"`

	// NewBalance is set for top-ups.
	NewBalance types.Money `json:"new_balance,omitempty"`
	// Bill is set for settlements.
	Bill *bill.Bill `json:"bill,omitempty"`
}

// IssueBill appends a new bill to a postpaid customer's ledger. If the
// customer's current bill is still unpaid, its full amount is carried
// forward and a flat late fine is added; the prior bill is then marked
// replaced so at most one bill per customer is ever unpaid.
func (e *Engine) IssueBill(ctx context.Context, location string, customerID int64, base types.Money, dueDate time.Time) (*bill.Bill, error) {
	if location == "" {
		return nil, &ValidationError{Field: "location", Message: "must not be empty"}
	}
	if !base.IsPositive() {
		return nil, &ValidationError{Field: "base", Message: "must be positive"}
	}
	part := shard.Resolve(location, customerID)
	if !part.Live() {
		return nil, ErrOutOfRange
	}

	unlock := e.billLocks.Lock(billKey(part, customerID))
	defer unlock()

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	prior, err := e.store.LatestBill(cctx, part, customerID)
	if err != nil && !errors.Is(err, ErrBillNotFound) {
		return nil, storeErr(err)
	}

	previousDue := types.Zero(base.Currency)
	fine := types.Zero(base.Currency)
	carried := prior != nil && prior.Status == bill.StatusUnpaid
	if carried {
		previousDue = prior.Amount
		fine = e.computeFine(previousDue)
	}

	b := &bill.Bill{
		Entity:      types.NewEntity(),
		ID:          id.NewBillID(),
		CustomerID:  customerID,
		Location:    location,
		Amount:      base.Add(previousDue).Add(fine),
		BaseAmount:  base,
		PreviousDue: previousDue,
		Fine:        fine,
		DueDate:     dueDate,
		Status:      bill.StatusUnpaid,
	}

	// Insert first, then retire the prior bill. If we crash in between,
	// the newest bill still wins every latest-bill lookup.
	if err := e.store.InsertBill(cctx, part, b); err != nil {
		return nil, storeErr(err)
	}
	if carried {
		switch err := e.store.MarkBillReplaced(cctx, part, prior.ID); {
		case err == nil:
			e.plugins.EmitBillReplaced(ctx, part, prior, b)
		case errors.Is(err, ErrBillSuperseded):
			e.logger.Warn("prior bill already transitioned",
				"partition", part.String(),
				"bill_id", prior.ID.String(),
			)
		default:
			return nil, storeErr(err)
		}
	}

	e.plugins.EmitBillIssued(ctx, part, b)

	e.logger.Info("bill issued",
		"partition", part.String(),
		"customer_id", customerID,
		"amount", b.Amount.FormatMajor(),
		"carried_forward", carried,
	)

	return b, nil
}

// ApplyPayment routes a payment to whatever the customer owes. Prepaid
// customers get a balance top-up; postpaid customers settle their unpaid
// bill. A customer with neither yields ErrNoTarget.
func (e *Engine) ApplyPayment(ctx context.Context, location string, customerID int64, amount types.Money) (*PaymentOutcome, error) {
	if location == "" {
		return nil, &ValidationError{Field: "location", Message: "must not be empty"}
	}
	if !amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	part := shard.Resolve(location, customerID)
	if !part.Live() {
		return nil, ErrOutOfRange
	}

	unlock := e.billLocks.Lock(billKey(part, customerID))
	defer unlock()

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	// Prepaid first: a prepaid account always just accumulates balance.
	if _, err := e.store.GetPrepaid(cctx, part, customerID); err == nil {
		balance, err := e.store.CreditPrepaid(cctx, part, customerID, amount)
		if err != nil {
			return nil, storeErr(err)
		}
		outcome := &PaymentOutcome{
			Kind:       PaymentTopUp,
			Partition:  part,
			CustomerID: customerID,
			Amount:     amount,
			PaymentID:  id.NewPaymentID(),
			NewBalance: balance,
		}
		e.plugins.EmitPaymentApplied(ctx, part, outcome)
		return outcome, nil
	} else if !errors.Is(err, ErrCustomerNotFound) {
		return nil, storeErr(err)
	}

	// Postpaid: settle the unpaid bill, if any.
	unpaid, err := e.store.UnpaidBill(cctx, part, customerID)
	if errors.Is(err, ErrBillNotFound) {
		return nil, ErrNoTarget
	}
	if err != nil {
		return nil, storeErr(err)
	}
	if amount.Currency != unpaid.Amount.Currency {
		return nil, &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("currency %q does not match bill currency %q", amount.Currency, unpaid.Amount.Currency),
		}
	}
	if !amount.Covers(unpaid.Amount) {
		return nil, fmt.Errorf("%w: bill is %s, payment is %s",
			ErrInsufficientPayment, unpaid.Amount.FormatMajor(), amount.FormatMajor())
	}

	paymentID := id.NewPaymentID()
	paidAt := time.Now()
	if err := e.store.MarkBillPaid(cctx, part, unpaid.ID, paidAt, amount, paymentID); err != nil {
		return nil, storeErr(err)
	}

	unpaid.Status = bill.StatusPaid
	unpaid.PaidAt = &paidAt
	unpaid.PaidAmount = amount
	unpaid.PaymentRef = paymentID

	outcome := &PaymentOutcome{
		Kind:       PaymentSettlement,
		Partition:  part,
		CustomerID: customerID,
		Amount:     amount,
		PaymentID:  paymentID,
		Bill:       unpaid,
	}
	e.plugins.EmitBillPaid(ctx, part, unpaid)
	e.plugins.EmitPaymentApplied(ctx, part, outcome)

	e.logger.Info("payment applied",
		"partition", part.String(),
		"customer_id", customerID,
		"kind", outcome.Kind,
		"amount", amount.FormatMajor(),
	)

	return outcome, nil
}

// Outstanding reports what a postpaid customer currently owes: the unpaid
// amount plus the fine the next bill would add on top of it. A customer
// with no unpaid bill owes nothing; accounts routed to a dead bucket are
// simply a guaranteed miss.
func (e *Engine) Outstanding(ctx context.Context, location string, customerID int64) (*bill.Outstanding, error) {
	none := &bill.Outstanding{
		CustomerID: customerID,
		Amount:     types.Zero("bdt"),
		Fine:       types.Zero("bdt"),
	}

	part := shard.Resolve(location, customerID)
	if !part.Live() {
		return none, nil
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	unpaid, err := e.store.UnpaidBill(cctx, part, customerID)
	if errors.Is(err, ErrBillNotFound) {
		return none, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}

	return &bill.Outstanding{
		CustomerID: customerID,
		Amount:     unpaid.Amount,
		Fine:       e.computeFine(unpaid.Amount),
		Bill:       unpaid,
	}, nil
}

// CustomerBills returns a customer's full bill history, oldest first.
func (e *Engine) CustomerBills(ctx context.Context, location string, customerID int64) ([]*bill.Bill, error) {
	part := shard.Resolve(location, customerID)
	if !part.Live() {
		return nil, nil
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	bills, err := e.store.ListBills(cctx, part, bill.ListOpts{CustomerID: customerID})
	if err != nil {
		return nil, storeErr(err)
	}
	return bills, nil
}

// computeFine resolves the fine for a carried-forward bill, preferring a
// registered fine policy over the flat configured amount.
func (e *Engine) computeFine(previousDue types.Money) types.Money {
	if e.finePolicy != "" {
		if fp := e.plugins.GetFinePolicy(e.finePolicy); fp != nil {
			if m, ok := fp.Compute(previousDue).(types.Money); ok {
				return m
			}
		}
	}
	return e.lateFine
}

func billKey(part shard.Key, customerID int64) string {
	return fmt.Sprintf("bill:%s:%d", part, customerID)
}
