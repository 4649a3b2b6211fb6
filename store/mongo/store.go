package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

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

// Collection name constants.
const (
	colAgents    = "gridbill_agents"
	colPrepaid   = "gridbill_prepaid"
	colPostpaid  = "gridbill_postpaid"
	colMeters    = "gridbill_meters"
	colBills     = "gridbill_bills"
	colAdmins    = "gridbill_admins"
	colCompanies = "gridbill_companies"
)

// compile-time interface check
var _ gridbillstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all gridbill collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("gridbill/mongo: migrate %s indexes: %w", col, err)
		}
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
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.DocID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":           m.DocID,
			"partition_key": m.PartitionKey,
			"agent_id":      m.AgentID,
			"name":          m.Name,
			"location":      m.Location,
			"password_hash": m.PasswordHash,
			"created_at":    m.CreatedAt,
			"updated_at":    m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: upsert agent: %w", err)
	}
	return nil
}

func (s *Store) GetAgent(ctx context.Context, part shard.Key, agentID int64) (*account.Agent, error) {
	var m agentModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": docID(part, agentID)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrAgentNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: get agent: %w", err)
	}
	return fromAgentModel(&m), nil
}

func (s *Store) ListAgents(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Agent, error) {
	var models []agentModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{"partition_key": part.String()}).
		Sort(bson.D{{Key: "agent_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("gridbill/mongo: list agents: %w", err)
	}

	result := make([]*account.Agent, len(models))
	for i := range models {
		result[i] = fromAgentModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeleteAgent(ctx context.Context, part shard.Key, agentID int64) error {
	res, err := s.mdb.NewDelete((*agentModel)(nil)).
		Filter(bson.M{"_id": docID(part, agentID)}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: delete agent: %w", err)
	}
	if res.DeletedCount() == 0 {
		return gridbill.ErrAgentNotFound
	}
	return nil
}

// ==================== Prepaid Store ====================

func (s *Store) UpsertPrepaid(ctx context.Context, part shard.Key, c *account.Prepaid) error {
	m := toPrepaidModel(part, c)
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.DocID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":              m.DocID,
			"partition_key":    m.PartitionKey,
			"customer_id":      m.CustomerID,
			"name":             m.Name,
			"location":         m.Location,
			"meter_no":         m.MeterNo,
			"balance_amount":   m.BalanceAmount,
			"balance_currency": m.BalanceCurrency,
			"recharge_at":      m.RechargeAt,
			"password_hash":    m.PasswordHash,
			"created_at":       m.CreatedAt,
			"updated_at":       m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: upsert prepaid: %w", err)
	}
	return nil
}

func (s *Store) GetPrepaid(ctx context.Context, part shard.Key, customerID int64) (*account.Prepaid, error) {
	var m prepaidModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": docID(part, customerID)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: get prepaid: %w", err)
	}
	return fromPrepaidModel(&m), nil
}

func (s *Store) ListPrepaid(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Prepaid, error) {
	var models []prepaidModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{"partition_key": part.String()}).
		Sort(bson.D{{Key: "customer_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("gridbill/mongo: list prepaid: %w", err)
	}

	result := make([]*account.Prepaid, len(models))
	for i := range models {
		result[i] = fromPrepaidModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeletePrepaid(ctx context.Context, part shard.Key, customerID int64) error {
	res, err := s.mdb.NewDelete((*prepaidModel)(nil)).
		Filter(bson.M{"_id": docID(part, customerID)}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: delete prepaid: %w", err)
	}
	if res.DeletedCount() == 0 {
		return gridbill.ErrCustomerNotFound
	}
	return nil
}

func (s *Store) CreditPrepaid(ctx context.Context, part shard.Key, customerID int64, amount types.Money) (types.Money, error) {
	// FindOneAndUpdate gives an atomic increment-and-read-back, so two
	// concurrent recharges both land.
	t := time.Now().UTC()
	res := s.mdb.Collection(colPrepaid).FindOneAndUpdate(ctx,
		bson.M{"_id": docID(part, customerID)},
		bson.M{
			"$inc": bson.M{"balance_amount": amount.Amount},
			"$set": bson.M{"recharge_at": t, "updated_at": t},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var m prepaidModel
	if err := res.Decode(&m); err != nil {
		if isNoDocuments(err) {
			return types.Money{}, gridbill.ErrCustomerNotFound
		}
		return types.Money{}, fmt.Errorf("gridbill/mongo: credit prepaid: %w", err)
	}
	return types.Money{Amount: m.BalanceAmount, Currency: m.BalanceCurrency}, nil
}

// ==================== Postpaid Store ====================

func (s *Store) UpsertPostpaid(ctx context.Context, part shard.Key, c *account.Postpaid) error {
	m := toPostpaidModel(part, c)
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.DocID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":           m.DocID,
			"partition_key": m.PartitionKey,
			"customer_id":   m.CustomerID,
			"name":          m.Name,
			"location":      m.Location,
			"meter_no":      m.MeterNo,
			"due_date":      m.DueDate,
			"password_hash": m.PasswordHash,
			"created_at":    m.CreatedAt,
			"updated_at":    m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: upsert postpaid: %w", err)
	}
	return nil
}

func (s *Store) GetPostpaid(ctx context.Context, part shard.Key, customerID int64) (*account.Postpaid, error) {
	var m postpaidModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": docID(part, customerID)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: get postpaid: %w", err)
	}
	return fromPostpaidModel(&m), nil
}

func (s *Store) ListPostpaid(ctx context.Context, part shard.Key, opts account.ListOpts) ([]*account.Postpaid, error) {
	var models []postpaidModel

	q := s.mdb.NewFind(&models).
		Filter(bson.M{"partition_key": part.String()}).
		Sort(bson.D{{Key: "customer_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("gridbill/mongo: list postpaid: %w", err)
	}

	result := make([]*account.Postpaid, len(models))
	for i := range models {
		result[i] = fromPostpaidModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeletePostpaid(ctx context.Context, part shard.Key, customerID int64) error {
	res, err := s.mdb.NewDelete((*postpaidModel)(nil)).
		Filter(bson.M{"_id": docID(part, customerID)}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: delete postpaid: %w", err)
	}
	if res.DeletedCount() == 0 {
		return gridbill.ErrCustomerNotFound
	}
	return nil
}

// ==================== Meter Store ====================

func (s *Store) InsertMeter(ctx context.Context, part shard.Key, info *meter.Info) error {
	m := toMeterModel(part, info)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return gridbill.ErrAlreadyExists
		}
		return fmt.Errorf("gridbill/mongo: insert meter: %w", err)
	}
	return nil
}

func (s *Store) GetMeter(ctx context.Context, part shard.Key, meterNo string) (*meter.Info, error) {
	var m meterModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": meterDocID(part, meterNo)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrMeterNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: get meter: %w", err)
	}
	return fromMeterModel(&m), nil
}

func (s *Store) MaxMeterSequence(ctx context.Context, part shard.Key) (int64, error) {
	var m meterModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"partition_key": part.String()}).
		Sort(bson.D{{Key: "sequence", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("gridbill/mongo: max meter sequence: %w", err)
	}
	return m.Sequence, nil
}

func (s *Store) AddMeterUsage(ctx context.Context, part shard.Key, meterNo string, units float64) error {
	res, err := s.mdb.NewUpdate((*meterModel)(nil)).
		Filter(bson.M{"_id": meterDocID(part, meterNo)}).
		SetUpdate(bson.M{
			"$inc": bson.M{"unit_usage": units},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: add meter usage: %w", err)
	}
	if res.MatchedCount() == 0 {
		return gridbill.ErrMeterNotFound
	}
	return nil
}

// ==================== Bill Store ====================

func (s *Store) InsertBill(ctx context.Context, part shard.Key, b *bill.Bill) error {
	m := toBillModel(part, b)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: insert bill: %w", err)
	}
	return nil
}

func (s *Store) GetBill(ctx context.Context, part shard.Key, billID id.BillID) (*bill.Bill, error) {
	var m billModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": billID.String(), "partition_key": part.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrBillNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: get bill: %w", err)
	}
	return fromBillModel(&m)
}

func (s *Store) LatestBill(ctx context.Context, part shard.Key, customerID int64) (*bill.Bill, error) {
	// Bill ids are K-sortable, so the greatest _id is the newest bill.
	var m billModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"partition_key": part.String(), "customer_id": customerID}).
		Sort(bson.D{{Key: "_id", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrBillNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: latest bill: %w", err)
	}
	return fromBillModel(&m)
}

func (s *Store) UnpaidBill(ctx context.Context, part shard.Key, customerID int64) (*bill.Bill, error) {
	var m billModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{
			"partition_key": part.String(),
			"customer_id":   customerID,
			"status":        string(bill.StatusUnpaid),
		}).
		Sort(bson.D{{Key: "_id", Value: -1}}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrBillNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: unpaid bill: %w", err)
	}
	return fromBillModel(&m)
}

func (s *Store) ListBills(ctx context.Context, part shard.Key, opts bill.ListOpts) ([]*bill.Bill, error) {
	var models []billModel

	filter := bson.M{"partition_key": part.String()}
	if opts.CustomerID != 0 {
		filter["customer_id"] = opts.CustomerID
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("gridbill/mongo: list bills: %w", err)
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
	res, err := s.mdb.NewUpdate((*billModel)(nil)).
		Filter(bson.M{
			"_id":           billID.String(),
			"partition_key": part.String(),
			"status":        string(bill.StatusUnpaid),
		}).
		Set("status", string(bill.StatusReplaced)).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: mark bill replaced: %w", err)
	}
	if res.MatchedCount() == 0 {
		return s.transitionMiss(ctx, part, billID)
	}
	return nil
}

func (s *Store) MarkBillPaid(ctx context.Context, part shard.Key, billID id.BillID, paidAt time.Time, paidAmount types.Money, ref id.PaymentID) error {
	res, err := s.mdb.NewUpdate((*billModel)(nil)).
		Filter(bson.M{
			"_id":           billID.String(),
			"partition_key": part.String(),
			"status":        string(bill.StatusUnpaid),
		}).
		Set("status", string(bill.StatusPaid)).
		Set("paid_at", paidAt).
		Set("paid_amount", paidAmount.Amount).
		Set("payment_ref", ref.String()).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: mark bill paid: %w", err)
	}
	if res.MatchedCount() == 0 {
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
	filter := bson.M{"partition_key": part.String()}

	var total int64
	for _, col := range []string{colAgents, colPrepaid, colPostpaid} {
		n, err := s.mdb.Collection(col).CountDocuments(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("gridbill/mongo: count %s: %w", col, err)
		}
		total += n
	}
	return total, nil
}

func (s *Store) CountBills(ctx context.Context, part shard.Key) (int64, error) {
	n, err := s.mdb.Collection(colBills).CountDocuments(ctx, bson.M{"partition_key": part.String()})
	if err != nil {
		return 0, fmt.Errorf("gridbill/mongo: count bills: %w", err)
	}
	return n, nil
}

// ==================== Central Store ====================

func (s *Store) UpsertAdmin(ctx context.Context, a *central.Admin) error {
	m := toAdminModel(a)
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":           m.ID,
			"name":          m.Name,
			"password_hash": m.PasswordHash,
			"created_at":    m.CreatedAt,
			"updated_at":    m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: upsert admin: %w", err)
	}
	return nil
}

func (s *Store) GetAdmin(ctx context.Context, adminID int64) (*central.Admin, error) {
	var m adminModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": adminID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrAdminNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: get admin: %w", err)
	}
	return fromAdminModel(&m), nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]*central.Admin, error) {
	var models []adminModel

	err := s.mdb.NewFind(&models).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("gridbill/mongo: list admins: %w", err)
	}

	result := make([]*central.Admin, len(models))
	for i := range models {
		result[i] = fromAdminModel(&models[i])
	}
	return result, nil
}

func (s *Store) UpsertCompany(ctx context.Context, c *central.Company) error {
	m := toCompanyModel(c)
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":           m.ID,
			"name":          m.Name,
			"location":      m.Location,
			"password_hash": m.PasswordHash,
			"created_at":    m.CreatedAt,
			"updated_at":    m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: upsert company: %w", err)
	}
	return nil
}

func (s *Store) GetCompany(ctx context.Context, companyID int64) (*central.Company, error) {
	var m companyModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": companyID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, gridbill.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("gridbill/mongo: get company: %w", err)
	}
	return fromCompanyModel(&m), nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]*central.Company, error) {
	var models []companyModel

	err := s.mdb.NewFind(&models).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("gridbill/mongo: list companies: %w", err)
	}

	result := make([]*central.Company, len(models))
	for i := range models {
		result[i] = fromCompanyModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeleteCompany(ctx context.Context, companyID int64) error {
	res, err := s.mdb.NewDelete((*companyModel)(nil)).
		Filter(bson.M{"_id": companyID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("gridbill/mongo: delete company: %w", err)
	}
	if res.DeletedCount() == 0 {
		return gridbill.ErrCompanyNotFound
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all gridbill collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colAgents: {
			{Keys: bson.D{{Key: "partition_key", Value: 1}, {Key: "agent_id", Value: 1}}},
		},
		colPrepaid: {
			{Keys: bson.D{{Key: "partition_key", Value: 1}, {Key: "customer_id", Value: 1}}},
		},
		colPostpaid: {
			{Keys: bson.D{{Key: "partition_key", Value: 1}, {Key: "customer_id", Value: 1}}},
		},
		colMeters: {
			// The unique meter_no index is the backstop for concurrent
			// allocation: the loser of a sequence race gets a duplicate
			// key error and retries with a fresh sequence.
			{
				Keys:    bson.D{{Key: "partition_key", Value: 1}, {Key: "meter_no", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "partition_key", Value: 1}, {Key: "sequence", Value: -1}}},
		},
		colBills: {
			{Keys: bson.D{{Key: "partition_key", Value: 1}, {Key: "customer_id", Value: 1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "partition_key", Value: 1}, {Key: "customer_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "partition_key", Value: 1}, {Key: "status", Value: 1}}},
		},
	}
}
