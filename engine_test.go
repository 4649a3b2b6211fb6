package gridbill_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	gridbill "github.com/xraph/gridbill"
	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/central"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/store/memory"
	"github.com/xraph/gridbill/types"
)

func newEngine(t *testing.T, opts ...gridbill.Option) (*gridbill.Engine, *memory.Store) {
	t.Helper()
	s := memory.New()
	e := gridbill.New(s, opts...)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return e, s
}

func newPostpaid(t *testing.T, e *gridbill.Engine, location string, id int64) *account.Postpaid {
	t.Helper()
	c := &account.Postpaid{ID: id, Name: fmt.Sprintf("customer-%d", id), Location: location}
	if err := e.CreatePostpaid(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	return c
}

// ──────────────────────────────────────────────────
// Billing
// ──────────────────────────────────────────────────

func TestIssueBillFirst(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	b, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(500), dueIn(30))
	if err != nil {
		t.Fatal(err)
	}
	if !b.Amount.Equal(types.BDT(500)) {
		t.Errorf("amount = %s, want 500", b.Amount)
	}
	if !b.PreviousDue.IsZero() || !b.Fine.IsZero() {
		t.Errorf("first bill carries previous due %s fine %s", b.PreviousDue, b.Fine)
	}
	if b.Status != bill.StatusUnpaid {
		t.Errorf("status = %s, want unpaid", b.Status)
	}
}

func TestIssueBillCarriesForwardUnpaid(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	first, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(500), dueIn(30))
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(200), dueIn(60))
	if err != nil {
		t.Fatal(err)
	}

	if !second.Amount.Equal(types.BDT(750)) {
		t.Errorf("amount = %s, want 750", second.Amount)
	}
	if !second.PreviousDue.Equal(types.BDT(500)) {
		t.Errorf("previous due = %s, want 500", second.PreviousDue)
	}
	if !second.Fine.Equal(types.BDT(50)) {
		t.Errorf("fine = %s, want 50", second.Fine)
	}

	// The prior bill must be retired so only one bill is ever unpaid.
	bills, err := e.CustomerBills(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != 2 {
		t.Fatalf("bills = %d, want 2", len(bills))
	}
	unpaid := 0
	for _, b := range bills {
		if b.Status == bill.StatusUnpaid {
			unpaid++
		}
		if b.ID == first.ID && b.Status != bill.StatusReplaced {
			t.Errorf("prior bill status = %s, want replaced", b.Status)
		}
	}
	if unpaid != 1 {
		t.Errorf("unpaid bills = %d, want exactly 1", unpaid)
	}
}

func TestIssueBillAfterSettlement(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(500), dueIn(30)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ApplyPayment(ctx, "dhaka", 42, types.BDT(500)); err != nil {
		t.Fatal(err)
	}

	next, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(200), dueIn(60))
	if err != nil {
		t.Fatal(err)
	}
	if !next.Amount.Equal(types.BDT(200)) {
		t.Errorf("amount = %s, want 200 with no carry-forward", next.Amount)
	}
	if !next.Fine.IsZero() {
		t.Errorf("fine = %s, want 0 after settlement", next.Fine)
	}
}

func TestIssueBillValidation(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	if _, err := e.IssueBill(ctx, "", 42, types.BDT(500), dueIn(30)); !errors.Is(err, gridbill.ErrInvalidInput) {
		t.Errorf("empty location: err = %v, want invalid input", err)
	}
	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(0), dueIn(30)); !errors.Is(err, gridbill.ErrInvalidInput) {
		t.Errorf("zero amount: err = %v, want invalid input", err)
	}
	if _, err := e.IssueBill(ctx, "dhaka", 301, types.BDT(500), dueIn(30)); !errors.Is(err, gridbill.ErrOutOfRange) {
		t.Errorf("id past capacity: err = %v, want out of range", err)
	}
}

func TestConcurrentIssueSingleUnpaid(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(100), dueIn(30)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	bills, err := e.CustomerBills(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != writers {
		t.Fatalf("bills = %d, want %d", len(bills), writers)
	}
	unpaid := 0
	for _, b := range bills {
		if b.Status == bill.StatusUnpaid {
			unpaid++
		}
	}
	if unpaid != 1 {
		t.Errorf("unpaid bills = %d, want exactly 1", unpaid)
	}
}

// ──────────────────────────────────────────────────
// Payments
// ──────────────────────────────────────────────────

func TestApplyPaymentTopsUpPrepaid(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	c := &account.Prepaid{ID: 7, Name: "mina", Location: "dhaka"}
	if err := e.CreatePrepaid(ctx, c); err != nil {
		t.Fatal(err)
	}

	first, err := e.ApplyPayment(ctx, "dhaka", 7, types.BDT(100))
	if err != nil {
		t.Fatal(err)
	}
	if first.Kind != gridbill.PaymentTopUp {
		t.Errorf("kind = %s, want topup", first.Kind)
	}
	second, err := e.ApplyPayment(ctx, "dhaka", 7, types.BDT(50))
	if err != nil {
		t.Fatal(err)
	}
	if !second.NewBalance.Equal(types.BDT(150)) {
		t.Errorf("balance = %s, want 150", second.NewBalance)
	}

	got, err := e.GetPrepaid(ctx, "dhaka", 7)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(types.BDT(150)) {
		t.Errorf("stored balance = %s, want 150", got.Balance)
	}
	if got.RechargeAt == nil {
		t.Error("recharge timestamp not set")
	}
}

func TestApplyPaymentSettlesBill(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	issued, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(500), dueIn(30))
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := e.ApplyPayment(ctx, "dhaka", 42, types.BDT(500))
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Kind != gridbill.PaymentSettlement {
		t.Errorf("kind = %s, want settlement", outcome.Kind)
	}
	if outcome.Bill == nil || outcome.Bill.ID != issued.ID {
		t.Error("outcome does not reference the settled bill")
	}
	if outcome.Bill.Status != bill.StatusPaid {
		t.Errorf("status = %s, want paid", outcome.Bill.Status)
	}
	if outcome.Bill.PaidAt == nil {
		t.Error("paid timestamp not set")
	}

	owed, err := e.Outstanding(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if !owed.Amount.IsZero() {
		t.Errorf("outstanding = %s after settlement, want 0", owed.Amount)
	}
}

func TestApplyPaymentInsufficient(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(500), dueIn(30)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ApplyPayment(ctx, "dhaka", 42, types.BDT(300)); !errors.Is(err, gridbill.ErrInsufficientPayment) {
		t.Fatalf("err = %v, want insufficient payment", err)
	}

	// The bill must still be collectible.
	owed, err := e.Outstanding(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if !owed.Amount.Equal(types.BDT(500)) {
		t.Errorf("outstanding = %s, want 500", owed.Amount)
	}
}

func TestApplyPaymentNoTarget(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	if _, err := e.ApplyPayment(ctx, "dhaka", 42, types.BDT(100)); !errors.Is(err, gridbill.ErrNoTarget) {
		t.Errorf("err = %v, want no target", err)
	}
}

func TestApplyPaymentCurrencyMismatch(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(500), dueIn(30)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ApplyPayment(ctx, "dhaka", 42, types.USD(500)); !errors.Is(err, gridbill.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}

	// The bill is untouched by the rejected payment.
	owed, err := e.Outstanding(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if !owed.Amount.Equal(types.BDT(500)) {
		t.Errorf("outstanding = %s, want 500", owed.Amount)
	}
}

func TestConcurrentSettlementSingleWinner(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(500), dueIn(30)); err != nil {
		t.Fatal(err)
	}

	const payers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var settled, rejected int
	for i := 0; i < payers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ApplyPayment(ctx, "dhaka", 42, types.BDT(500))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				settled++
			case errors.Is(err, gridbill.ErrNoTarget), errors.Is(err, gridbill.ErrBillSuperseded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if settled != 1 {
		t.Errorf("settled = %d, want exactly 1", settled)
	}
	if rejected != payers-1 {
		t.Errorf("rejected = %d, want %d", rejected, payers-1)
	}
}

// ──────────────────────────────────────────────────
// Outstanding
// ──────────────────────────────────────────────────

func TestOutstandingNoBill(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	owed, err := e.Outstanding(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if !owed.Amount.IsZero() {
		t.Errorf("outstanding = %s, want 0", owed.Amount)
	}
}

func TestOutstandingIncludesProspectiveFine(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	// A first bill carries no fine itself, but settling late still costs
	// the flat fine, so the preview must already show it.
	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(100), dueIn(30)); err != nil {
		t.Fatal(err)
	}

	owed, err := e.Outstanding(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if !owed.Amount.Equal(types.BDT(100)) {
		t.Errorf("outstanding = %s, want 100", owed.Amount)
	}
	if !owed.Fine.Equal(types.BDT(50)) {
		t.Errorf("fine = %s, want 50", owed.Fine)
	}

	// Settled customers owe nothing, fine included.
	if _, err := e.ApplyPayment(ctx, "dhaka", 42, types.BDT(100)); err != nil {
		t.Fatal(err)
	}
	owed, err = e.Outstanding(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if !owed.Amount.IsZero() || !owed.Fine.IsZero() {
		t.Errorf("outstanding = %s + %s fine after settlement, want 0", owed.Amount, owed.Fine)
	}
}

func TestOutstandingDeadBucket(t *testing.T) {
	e, _ := newEngine(t)

	owed, err := e.Outstanding(context.Background(), "dhaka", 9999)
	if err != nil {
		t.Fatal(err)
	}
	if !owed.Amount.IsZero() {
		t.Errorf("outstanding = %s for unrouted id, want 0", owed.Amount)
	}
}

// ──────────────────────────────────────────────────
// Meters
// ──────────────────────────────────────────────────

func TestAllocateMeterSequence(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	first, err := e.AllocateMeter(ctx, "dhaka")
	if err != nil {
		t.Fatal(err)
	}
	if first.MeterNo != "DH_000001" {
		t.Errorf("meter = %s, want DH_000001", first.MeterNo)
	}
	second, err := e.AllocateMeter(ctx, "dhaka")
	if err != nil {
		t.Fatal(err)
	}
	if second.MeterNo != "DH_000002" {
		t.Errorf("meter = %s, want DH_000002", second.MeterNo)
	}

	// Each location family counts independently.
	other, err := e.AllocateMeter(ctx, "rajshahi")
	if err != nil {
		t.Fatal(err)
	}
	if other.MeterNo != "RH_000001" {
		t.Errorf("meter = %s, want RH_000001", other.MeterNo)
	}
}

func TestAllocateMeterConcurrentUnique(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	const n = 25
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info, err := e.AllocateMeter(ctx, "dhaka")
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = info.MeterNo
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, no := range results {
		if seen[no] {
			t.Fatalf("duplicate meter number %s", no)
		}
		seen[no] = true
	}
}

func TestRecordUsage(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	c := newPostpaid(t, e, "dhaka", 42)

	if err := e.RecordUsage(ctx, "dhaka", 42, c.MeterNo, 12.5); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordUsage(ctx, "dhaka", 42, c.MeterNo, 7.5); err != nil {
		t.Fatal(err)
	}

	info, err := e.GetMeter(ctx, "dhaka", 42, c.MeterNo)
	if err != nil {
		t.Fatal(err)
	}
	if info.UnitUsage != 20 {
		t.Errorf("usage = %v, want 20", info.UnitUsage)
	}

	if err := e.RecordUsage(ctx, "dhaka", 42, c.MeterNo, -1); !errors.Is(err, gridbill.ErrInvalidInput) {
		t.Errorf("negative usage: err = %v, want invalid input", err)
	}
}

// ──────────────────────────────────────────────────
// Accounts and routing
// ──────────────────────────────────────────────────

func TestResolveShard(t *testing.T) {
	part, err := gridbill.ResolveShard("dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if part != shard.Join(shard.FamilyDesco, shard.Bucket1) {
		t.Errorf("part = %s, want Desco1", part)
	}
	if _, err := gridbill.ResolveShard("dhaka", 301); !errors.Is(err, gridbill.ErrOutOfRange) {
		t.Errorf("err = %v, want out of range", err)
	}
}

func TestCreateAccountOutOfRange(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	err := e.CreatePostpaid(ctx, &account.Postpaid{ID: 301, Name: "x", Location: "dhaka"})
	if !errors.Is(err, gridbill.ErrOutOfRange) {
		t.Errorf("err = %v, want out of range", err)
	}
	err = e.CreateAgent(ctx, &account.Agent{ID: 0, Name: "x", Location: "dhaka"})
	if !errors.Is(err, gridbill.ErrInvalidInput) {
		t.Errorf("zero id: err = %v, want invalid input", err)
	}
}

func TestGetAccountDeadBucketMisses(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	if _, err := e.GetPostpaid(ctx, "dhaka", 9999); !errors.Is(err, gridbill.ErrCustomerNotFound) {
		t.Errorf("err = %v, want customer not found", err)
	}
	if _, err := e.GetAgent(ctx, "dhaka", -5); !errors.Is(err, gridbill.ErrAgentNotFound) {
		t.Errorf("err = %v, want agent not found", err)
	}
}

func TestCreateAccountDuplicate(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	err := e.CreatePostpaid(ctx, &account.Postpaid{ID: 42, Name: "again", Location: "dhaka"})
	if !errors.Is(err, gridbill.ErrAlreadyExists) {
		t.Errorf("err = %v, want already exists", err)
	}
}

func TestAccountsIsolatedByPartition(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	// Same id, different families: distinct records.
	newPostpaid(t, e, "dhaka", 42)
	newPostpaid(t, e, "rajshahi", 42)

	fromDhaka, err := e.GetPostpaid(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	fromRajshahi, err := e.GetPostpaid(ctx, "rajshahi", 42)
	if err != nil {
		t.Fatal(err)
	}
	if fromDhaka.Location == fromRajshahi.Location {
		t.Error("partitions returned the same record")
	}
}

func TestUpdateAccount(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	name := "renamed"
	if err := e.UpdateAccount(ctx, "dhaka", 42, account.Patch{Name: &name}); err != nil {
		t.Fatal(err)
	}
	got, err := e.GetPostpaid(ctx, "dhaka", 42)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "renamed" {
		t.Errorf("name = %s, want renamed", got.Name)
	}

	if err := e.UpdateAccount(ctx, "dhaka", 42, account.Patch{}); !errors.Is(err, gridbill.ErrInvalidInput) {
		t.Errorf("empty patch: err = %v, want invalid input", err)
	}
	if err := e.UpdateAccount(ctx, "dhaka", 43, account.Patch{Name: &name}); !errors.Is(err, gridbill.ErrNotFound) {
		t.Errorf("unknown id: err = %v, want not found", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	if err := e.DeleteAccount(ctx, "dhaka", 42); err != nil {
		t.Fatal(err)
	}
	if _, err := e.GetPostpaid(ctx, "dhaka", 42); !errors.Is(err, gridbill.ErrCustomerNotFound) {
		t.Errorf("err = %v after delete, want customer not found", err)
	}
	if err := e.DeleteAccount(ctx, "dhaka", 42); !errors.Is(err, gridbill.ErrNotFound) {
		t.Errorf("second delete: err = %v, want not found", err)
	}
}

func TestLookupPrincipalOrder(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	if err := e.CreateAdmin(ctx, &central.Admin{ID: 1, Name: "root"}); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateCompany(ctx, &central.Company{ID: 2, Name: "desco", Location: "dhaka"}); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateAgent(ctx, &account.Agent{ID: 3, Name: "karim", Location: "dhaka"}); err != nil {
		t.Fatal(err)
	}
	newPostpaid(t, e, "dhaka", 4)

	// An id held centrally wins even when a partition account shares it.
	newPostpaid(t, e, "dhaka", 1)

	cases := []struct {
		id   int64
		role account.Role
	}{
		{1, account.RoleAdmin},
		{2, account.RoleCompany},
		{3, account.RoleAgent},
		{4, account.RolePostpaid},
	}
	for _, tc := range cases {
		p, err := e.LookupPrincipal(ctx, "dhaka", tc.id)
		if err != nil {
			t.Fatalf("id %d: %v", tc.id, err)
		}
		if p.Role != tc.role {
			t.Errorf("id %d: role = %s, want %s", tc.id, p.Role, tc.role)
		}
	}

	if _, err := e.LookupPrincipal(ctx, "dhaka", 99); !errors.Is(err, gridbill.ErrNotFound) {
		t.Errorf("unknown id: err = %v, want not found", err)
	}
}

// ──────────────────────────────────────────────────
// Federation
// ──────────────────────────────────────────────────

func TestFamilyBillsMergesPartitions(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	// One customer per bucket of the Desco family.
	for _, id := range []int64{10, 110, 210} {
		newPostpaid(t, e, "dhaka", id)
		if _, err := e.IssueBill(ctx, "dhaka", id, types.BDT(100), dueIn(30)); err != nil {
			t.Fatal(err)
		}
	}

	bills, err := e.FamilyBills(ctx, "dhaka")
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != 3 {
		t.Fatalf("bills = %d, want 3", len(bills))
	}
	// Partition order: bucket 1, 2, 3.
	wantOrder := []int64{10, 110, 210}
	for i, b := range bills {
		if b.CustomerID != wantOrder[i] {
			t.Errorf("bills[%d].CustomerID = %d, want %d", i, b.CustomerID, wantOrder[i])
		}
	}
}

func TestFamilyBillsSkipsDownPartition(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()

	for _, id := range []int64{10, 110, 210} {
		newPostpaid(t, e, "dhaka", id)
		if _, err := e.IssueBill(ctx, "dhaka", id, types.BDT(100), dueIn(30)); err != nil {
			t.Fatal(err)
		}
	}

	s.SetUnavailable(shard.Join(shard.FamilyDesco, shard.Bucket2), true)

	bills, err := e.FamilyBills(ctx, "dhaka")
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != 2 {
		t.Fatalf("bills = %d with one partition down, want 2", len(bills))
	}
	for _, b := range bills {
		if b.CustomerID == 110 {
			t.Error("bill from the down partition leaked into the result")
		}
	}
}

func TestFamilyQueriesScopedToFamily(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	newPostpaid(t, e, "dhaka", 10)
	newPostpaid(t, e, "rajshahi", 20)

	got, err := e.FamilyPostpaid(ctx, "dhaka")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 10 {
		t.Errorf("dhaka family returned %d customers, want only id 10", len(got))
	}
}

func TestPostpaidOutstanding(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	newPostpaid(t, e, "dhaka", 10)
	newPostpaid(t, e, "dhaka", 110)
	if _, err := e.IssueBill(ctx, "dhaka", 10, types.BDT(100), dueIn(30)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.IssueBill(ctx, "dhaka", 110, types.BDT(200), dueIn(30)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ApplyPayment(ctx, "dhaka", 110, types.BDT(200)); err != nil {
		t.Fatal(err)
	}

	owed, err := e.PostpaidOutstanding(ctx, "dhaka")
	if err != nil {
		t.Fatal(err)
	}
	if len(owed) != 1 {
		t.Fatalf("outstanding entries = %d, want 1", len(owed))
	}
	if owed[0].CustomerID != 10 || !owed[0].Amount.Equal(types.BDT(100)) {
		t.Errorf("outstanding = customer %d amount %s, want customer 10 amount 100",
			owed[0].CustomerID, owed[0].Amount)
	}
	if !owed[0].Fine.Equal(types.BDT(50)) {
		t.Errorf("fine = %s, want the flat 50 on every unpaid bill", owed[0].Fine)
	}
}

func TestPartitionSummaries(t *testing.T) {
	e, s := newEngine(t)
	ctx := context.Background()

	newPostpaid(t, e, "dhaka", 10)
	if _, err := e.IssueBill(ctx, "dhaka", 10, types.BDT(100), dueIn(30)); err != nil {
		t.Fatal(err)
	}

	down := shard.Join(shard.FamilyPBS, shard.Bucket3)
	s.SetUnavailable(down, true)

	summaries := e.PartitionSummaries(ctx)
	if len(summaries) != 9 {
		t.Fatalf("summaries = %d, want 9", len(summaries))
	}
	for _, sum := range summaries {
		switch sum.Partition {
		case shard.Join(shard.FamilyDesco, shard.Bucket1):
			if !sum.Available || sum.Accounts == 0 || sum.Bills != 1 {
				t.Errorf("Desco1 summary = %+v", sum)
			}
		case down:
			if sum.Available {
				t.Error("down partition reported available")
			}
		default:
			if !sum.Available {
				t.Errorf("%s reported unavailable", sum.Partition)
			}
		}
	}
}

// ──────────────────────────────────────────────────
// Plugins
// ──────────────────────────────────────────────────

type recordingPlugin struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPlugin) Name() string { return "recording" }

func (p *recordingPlugin) OnBillIssued(_ context.Context, part shard.Key, _ interface{}) error {
	p.add("issued:" + part.String())
	return nil
}

func (p *recordingPlugin) OnBillPaid(_ context.Context, part shard.Key, _ interface{}) error {
	p.add("paid:" + part.String())
	return nil
}

func (p *recordingPlugin) add(ev string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPlugin) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func TestPluginHooksFire(t *testing.T) {
	rec := &recordingPlugin{}
	e, _ := newEngine(t, gridbill.WithPlugin(rec))
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(500), dueIn(30)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ApplyPayment(ctx, "dhaka", 42, types.BDT(500)); err != nil {
		t.Fatal(err)
	}

	events := rec.snapshot()
	want := []string{"issued:Desco1", "paid:Desco1"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, events[i], want[i])
		}
	}
}

type doubleFine struct{}

func (doubleFine) Name() string       { return "double-fine" }
func (doubleFine) PolicyName() string { return "double" }

func (doubleFine) Compute(previousDue interface{}) interface{} {
	due, ok := previousDue.(types.Money)
	if !ok {
		return types.Zero("bdt")
	}
	return due.Multiply(2)
}

func TestFinePolicyOverridesFlatFine(t *testing.T) {
	e, _ := newEngine(t,
		gridbill.WithPlugin(doubleFine{}),
		gridbill.WithFinePolicy("double"),
	)
	ctx := context.Background()
	newPostpaid(t, e, "dhaka", 42)

	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(100), dueIn(30)); err != nil {
		t.Fatal(err)
	}
	next, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(50), dueIn(60))
	if err != nil {
		t.Fatal(err)
	}
	if !next.Fine.Equal(types.BDT(200)) {
		t.Errorf("fine = %s, want 200 from the policy", next.Fine)
	}
	if !next.Amount.Equal(types.BDT(350)) {
		t.Errorf("amount = %s, want 350", next.Amount)
	}
}

// ──────────────────────────────────────────────────
// Central registry
// ──────────────────────────────────────────────────

func TestCompanyRegistry(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()

	c := &central.Company{ID: 1, Name: "desco", Location: "dhaka"}
	if err := e.CreateCompany(ctx, c); err != nil {
		t.Fatal(err)
	}
	if err := e.CreateCompany(ctx, &central.Company{ID: 1, Name: "dup"}); !errors.Is(err, gridbill.ErrAlreadyExists) {
		t.Errorf("duplicate: err = %v, want already exists", err)
	}

	c.Name = "desco ltd"
	if err := e.UpdateCompany(ctx, c); err != nil {
		t.Fatal(err)
	}
	got, err := e.GetCompany(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "desco ltd" {
		t.Errorf("name = %s, want desco ltd", got.Name)
	}

	all, err := e.ListCompanies(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("companies = %d, want 1", len(all))
	}

	if err := e.DeleteCompany(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.GetCompany(ctx, 1); !errors.Is(err, gridbill.ErrCompanyNotFound) {
		t.Errorf("err = %v after delete, want company not found", err)
	}
}

func dueIn(days int) time.Time {
	return time.Now().AddDate(0, 0, days)
}
