package store

import (
	"context"
	"time"

	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/central"
	"github.com/xraph/gridbill/id"
	"github.com/xraph/gridbill/meter"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/types"
)

// Store is the unified storage interface for all Gridbill records.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
//
// Partition-scoped methods take a shard.Key naming the target partition.
// A partition that cannot be reached surfaces gridbill.ErrPartitionUnavailable;
// each operation is atomic within its own partition and nothing spans two.
type Store interface {
	// Agent methods
	UpsertAgent(ctx context.Context, part shard.Key, a *account.Agent) error
	GetAgent(ctx context.Context, part shard.Key, agentID int64) (*account.Agent, error)
	ListAgents(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Agent, error)
	DeleteAgent(ctx context.Context, part shard.Key, agentID int64) error

	// Prepaid customer methods
	UpsertPrepaid(ctx context.Context, part shard.Key, p *account.Prepaid) error
	GetPrepaid(ctx context.Context, part shard.Key, customerID int64) (*account.Prepaid, error)
	ListPrepaid(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Prepaid, error)
	DeletePrepaid(ctx context.Context, part shard.Key, customerID int64) error
	CreditPrepaid(ctx context.Context, part shard.Key, customerID int64, amount types.Money) (types.Money, error)

	// Postpaid customer methods
	UpsertPostpaid(ctx context.Context, part shard.Key, p *account.Postpaid) error
	GetPostpaid(ctx context.Context, part shard.Key, customerID int64) (*account.Postpaid, error)
	ListPostpaid(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Postpaid, error)
	DeletePostpaid(ctx context.Context, part shard.Key, customerID int64) error

	// Meter methods
	InsertMeter(ctx context.Context, part shard.Key, info *meter.Info) error
	GetMeter(ctx context.Context, part shard.Key, meterNo string) (*meter.Info, error)
	MaxMeterSequence(ctx context.Context, part shard.Key) (int64, error)
	AddMeterUsage(ctx context.Context, part shard.Key, meterNo string, units float64) error

	// Bill methods
	InsertBill(ctx context.Context, part shard.Key, b *bill.Bill) error
	GetBill(ctx context.Context, part shard.Key, billID id.BillID) (*bill.Bill, error)
	LatestBill(ctx context.Context, part shard.Key, customerID int64) (*bill.Bill, error)
	UnpaidBill(ctx context.Context, part shard.Key, customerID int64) (*bill.Bill, error)
	ListBills(ctx context.Context, part shard.Key, opts bill.ListOpts) ([]*bill.Bill, error)
	MarkBillReplaced(ctx context.Context, part shard.Key, billID id.BillID) error
	MarkBillPaid(ctx context.Context, part shard.Key, billID id.BillID, paidAt time.Time, paidAmount types.Money, ref id.PaymentID) error

	// Partition summary methods
	CountAccounts(ctx context.Context, part shard.Key) (int64, error)
	CountBills(ctx context.Context, part shard.Key) (int64, error)

	// Central methods
	UpsertAdmin(ctx context.Context, a *central.Admin) error
	GetAdmin(ctx context.Context, adminID int64) (*central.Admin, error)
	ListAdmins(ctx context.Context) ([]*central.Admin, error)
	UpsertCompany(ctx context.Context, c *central.Company) error
	GetCompany(ctx context.Context, companyID int64) (*central.Company, error)
	ListCompanies(ctx context.Context) ([]*central.Company, error)
	DeleteCompany(ctx context.Context, companyID int64) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// compile-time checks: Store satisfies every narrow per-entity contract.
var (
	_ account.Store = Store(nil)
	_ meter.Store   = Store(nil)
	_ bill.Store    = Store(nil)
	_ central.Store = Store(nil)
)
