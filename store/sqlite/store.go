package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	gridbill "github.com/xraph/gridbill"
	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/central"
	"github.com/xraph/gridbill/id"
	"github.com/xraph/gridbill/meter"
	"github.com/xraph/gridbill/shard"
	gridbillstore "github.com/xraph/gridbill/store"
	"github.com/xraph/gridbill/types"
)

// compile-time interface check
var _ gridbillstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("gridbill/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("gridbill/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Agent Store ====================

func (s *Store) UpsertAgent(ctx context.Context, part shard.Key, a *account.Agent) error {
	m := toAgentModel(part, a)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(doc_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("location = EXCLUDED.location").
		Set("password_hash = EXCLUDED.password_hash").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetAgent(ctx context.Context, part shard.Key, agentID int64) (*account.Agent, error) {
	m := new(agentModel)
	err := s.sdb.NewSelect(m).
		Where("doc_id = ?", docID(part, agentID)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrAgentNotFound
		}
		return nil, err
	}
	return fromAgentModel(m), nil
}

func (s *Store) ListAgents(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Agent, error) {
	var models []agentModel
	q := s.sdb.NewSelect(&models).
		Where("partition_key = ?", part.String()).
		OrderExpr("agent_id ASC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*account.Agent, len(models))
	for i := range models {
		result[i] = fromAgentModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeleteAgent(ctx context.Context, part shard.Key, agentID int64) error {
	res, err := s.sdb.NewDelete((*agentModel)(nil)).
		Where("doc_id = ?", docID(part, agentID)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gridbill.ErrAgentNotFound
	}
	return nil
}

// ==================== Prepaid Store ====================

func (s *Store) UpsertPrepaid(ctx context.Context, part shard.Key, c *account.Prepaid) error {
	m := toPrepaidModel(part, c)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(doc_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("location = EXCLUDED.location").
		Set("meter_no = EXCLUDED.meter_no").
		Set("balance_amount = EXCLUDED.balance_amount").
		Set("balance_currency = EXCLUDED.balance_currency").
		Set("recharge_at = EXCLUDED.recharge_at").
		Set("password_hash = EXCLUDED.password_hash").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetPrepaid(ctx context.Context, part shard.Key, customerID int64) (*account.Prepaid, error) {
	m := new(prepaidModel)
	err := s.sdb.NewSelect(m).
		Where("doc_id = ?", docID(part, customerID)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrCustomerNotFound
		}
		return nil, err
	}
	return fromPrepaidModel(m), nil
}

func (s *Store) ListPrepaid(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Prepaid, error) {
	var models []prepaidModel
	q := s.sdb.NewSelect(&models).
		Where("partition_key = ?", part.String()).
		OrderExpr("customer_id ASC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*account.Prepaid, len(models))
	for i := range models {
		result[i] = fromPrepaidModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeletePrepaid(ctx context.Context, part shard.Key, customerID int64) error {
	res, err := s.sdb.NewDelete((*prepaidModel)(nil)).
		Where("doc_id = ?", docID(part, customerID)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gridbill.ErrCustomerNotFound
	}
	return nil
}

func (s *Store) CreditPrepaid(ctx context.Context, part shard.Key, customerID int64, amount types.Money) (types.Money, error) {
	// Single-statement increment with RETURNING keeps concurrent
	// recharges atomic.
	t := now()
	var balance int64
	var currency string
	err := s.sdb.NewRaw(`
		UPDATE gridbill_prepaid
		SET balance_amount = balance_amount + ?, recharge_at = ?, updated_at = ?
		WHERE doc_id = ?
		RETURNING balance_amount, balance_currency
	`, amount.Amount, t, t, docID(part, customerID)).Scan(ctx, &balance, &currency)
	if err != nil {
		if isNoRows(err) {
			return types.Money{}, gridbill.ErrCustomerNotFound
		}
		return types.Money{}, err
	}
	return types.Money{Amount: balance, Currency: currency}, nil
}

// ==================== Postpaid Store ====================

func (s *Store) UpsertPostpaid(ctx context.Context, part shard.Key, c *account.Postpaid) error {
	m := toPostpaidModel(part, c)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(doc_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("location = EXCLUDED.location").
		Set("meter_no = EXCLUDED.meter_no").
		Set("due_date = EXCLUDED.due_date").
		Set("password_hash = EXCLUDED.password_hash").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetPostpaid(ctx context.Context, part shard.Key, customerID int64) (*account.Postpaid, error) {
	m := new(postpaidModel)
	err := s.sdb.NewSelect(m).
		Where("doc_id = ?", docID(part, customerID)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrCustomerNotFound
		}
		return nil, err
	}
	return fromPostpaidModel(m), nil
}

func (s *Store) ListPostpaid(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Postpaid, error) {
	var models []postpaidModel
	q := s.sdb.NewSelect(&models).
		Where("partition_key = ?", part.String()).
		OrderExpr("customer_id ASC")

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*account.Postpaid, len(models))
	for i := range models {
		result[i] = fromPostpaidModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeletePostpaid(ctx context.Context, part shard.Key, customerID int64) error {
	res, err := s.sdb.NewDelete((*postpaidModel)(nil)).
		Where("doc_id = ?", docID(part, customerID)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gridbill.ErrCustomerNotFound
	}
	return nil
}

// ==================== Meter Store ====================

func (s *Store) InsertMeter(ctx context.Context, part shard.Key, info *meter.Info) error {
	m := toMeterModel(part, info)
	res, err := s.sdb.NewInsert(m).
		OnConflict("(partition_key, meter_no) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gridbill.ErrAlreadyExists
	}
	return nil
}

func (s *Store) GetMeter(ctx context.Context, part shard.Key, meterNo string) (*meter.Info, error) {
	m := new(meterModel)
	err := s.sdb.NewSelect(m).
		Where("doc_id = ?", meterDocID(part, meterNo)).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrMeterNotFound
		}
		return nil, err
	}
	return fromMeterModel(m), nil
}

func (s *Store) MaxMeterSequence(ctx context.Context, part shard.Key) (int64, error) {
	var maxSeq int64
	err := s.sdb.NewRaw(`
		SELECT COALESCE(MAX(sequence), 0) FROM gridbill_meters
		WHERE partition_key = ?
	`, part.String()).Scan(ctx, &maxSeq)
	if err != nil {
		return 0, err
	}
	return maxSeq, nil
}

func (s *Store) AddMeterUsage(ctx context.Context, part shard.Key, meterNo string, units float64) error {
	res, err := s.sdb.NewUpdate((*meterModel)(nil)).
		Set("unit_usage = unit_usage + ?", units).
		Set("updated_at = ?", now()).
		Where("doc_id = ?", meterDocID(part, meterNo)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gridbill.ErrMeterNotFound
	}
	return nil
}

// ==================== Bill Store ====================

func (s *Store) InsertBill(ctx context.Context, part shard.Key, b *bill.Bill) error {
	m := toBillModel(part, b)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetBill(ctx context.Context, part shard.Key, billID id.BillID) (*bill.Bill, error) {
	m := new(billModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", billID.String()).
		Where("partition_key = ?", part.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrBillNotFound
		}
		return nil, err
	}
	return fromBillModel(m)
}

func (s *Store) LatestBill(ctx context.Context, part shard.Key, customerID int64) (*bill.Bill, error) {
	// Bill ids are K-sortable, so the greatest id is the newest bill.
	m := new(billModel)
	err := s.sdb.NewSelect(m).
		Where("partition_key = ?", part.String()).
		Where("customer_id = ?", customerID).
		OrderExpr("id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrBillNotFound
		}
		return nil, err
	}
	return fromBillModel(m)
}

func (s *Store) UnpaidBill(ctx context.Context, part shard.Key, customerID int64) (*bill.Bill, error) {
	m := new(billModel)
	err := s.sdb.NewSelect(m).
		Where("partition_key = ?", part.String()).
		Where("customer_id = ?", customerID).
		Where("status = ?", string(bill.StatusUnpaid)).
		OrderExpr("id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrBillNotFound
		}
		return nil, err
	}
	return fromBillModel(m)
}

func (s *Store) ListBills(ctx context.Context, part shard.Key, opts bill.ListOpts) ([]*bill.Bill, error) {
	var models []billModel
	q := s.sdb.NewSelect(&models).
		Where("partition_key = ?", part.String())

	if opts.CustomerID != 0 {
		q = q.Where("customer_id = ?", opts.CustomerID)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", string(opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*bill.Bill, len(models))
	for i := range models {
		b, err := fromBillModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = b
	}
	return result, nil
}

func (s *Store) MarkBillReplaced(ctx context.Context, part shard.Key, billID id.BillID) error {
	res, err := s.sdb.NewUpdate((*billModel)(nil)).
		Set("status = ?", string(bill.StatusReplaced)).
		Set("updated_at = ?", now()).
		Where("id = ?", billID.String()).
		Where("partition_key = ?", part.String()).
		Where("status = ?", string(bill.StatusUnpaid)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.transitionMiss(ctx, part, billID)
	}
	return nil
}

func (s *Store) MarkBillPaid(ctx context.Context, part shard.Key, billID id.BillID, paidAt time.Time, paidAmount types.Money, ref id.PaymentID) error {
	res, err := s.sdb.NewUpdate((*billModel)(nil)).
		Set("status = ?", string(bill.StatusPaid)).
		Set("paid_at = ?", paidAt).
		Set("paid_amount = ?", paidAmount.Amount).
		Set("payment_ref = ?", ref.String()).
		Set("updated_at = ?", now()).
		Where("id = ?", billID.String()).
		Where("partition_key = ?", part.String()).
		Where("status = ?", string(bill.StatusUnpaid)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.transitionMiss(ctx, part, billID)
	}
	return nil
}

// transitionMiss tells apart "bill gone" from "bill already transitioned"
// after a guarded status update matched nothing.
func (s *Store) transitionMiss(ctx context.Context, part shard.Key, billID id.BillID) error {
	if _, err := s.GetBill(ctx, part, billID); err != nil {
		return err
	}
	return gridbill.ErrBillSuperseded
}

// ==================== Partition summary Store ====================

func (s *Store) CountAccounts(ctx context.Context, part shard.Key) (int64, error) {
	var total int64
	err := s.sdb.NewRaw(`
		SELECT
			(SELECT COUNT(*) FROM gridbill_agents WHERE partition_key = ?1) +
			(SELECT COUNT(*) FROM gridbill_prepaid WHERE partition_key = ?1) +
			(SELECT COUNT(*) FROM gridbill_postpaid WHERE partition_key = ?1)
	`, part.String()).Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) CountBills(ctx context.Context, part shard.Key) (int64, error) {
	var total int64
	err := s.sdb.NewRaw(`
		SELECT COUNT(*) FROM gridbill_bills WHERE partition_key = ?
	`, part.String()).Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ==================== Central Store ====================

func (s *Store) UpsertAdmin(ctx context.Context, a *central.Admin) error {
	m := toAdminModel(a)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("password_hash = EXCLUDED.password_hash").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetAdmin(ctx context.Context, adminID int64) (*central.Admin, error) {
	m := new(adminModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", adminID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrAdminNotFound
		}
		return nil, err
	}
	return fromAdminModel(m), nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]*central.Admin, error) {
	var models []adminModel
	err := s.sdb.NewSelect(&models).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*central.Admin, len(models))
	for i := range models {
		result[i] = fromAdminModel(&models[i])
	}
	return result, nil
}

func (s *Store) UpsertCompany(ctx context.Context, c *central.Company) error {
	m := toCompanyModel(c)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("location = EXCLUDED.location").
		Set("password_hash = EXCLUDED.password_hash").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *Store) GetCompany(ctx context.Context, companyID int64) (*central.Company, error) {
	m := new(companyModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", companyID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, gridbill.ErrCompanyNotFound
		}
		return nil, err
	}
	return fromCompanyModel(m), nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]*central.Company, error) {
	var models []companyModel
	err := s.sdb.NewSelect(&models).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*central.Company, len(models))
	for i := range models {
		result[i] = fromCompanyModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeleteCompany(ctx context.Context, companyID int64) error {
	res, err := s.sdb.NewDelete((*companyModel)(nil)).
		Where("id = ?", companyID).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return gridbill.ErrCompanyNotFound
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
