// Package memory provides an in-memory Store used by tests and demos.
// Each live partition of the shard catalog is a separate bucket of maps,
// so cross-partition isolation behaves the same as with real backends.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/gridbill"
	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/central"
	"github.com/xraph/gridbill/id"
	"github.com/xraph/gridbill/meter"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/store"
	"github.com/xraph/gridbill/types"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

type partition struct {
	agents   map[int64]*account.Agent
	prepaid  map[int64]*account.Prepaid
	postpaid map[int64]*account.Postpaid
	meters   map[string]*meter.Info
	bills    []*bill.Bill // insertion order
}

func newPartition() *partition {
	return &partition{
		agents:   make(map[int64]*account.Agent),
		prepaid:  make(map[int64]*account.Prepaid),
		postpaid: make(map[int64]*account.Postpaid),
		meters:   make(map[string]*meter.Info),
	}
}

// Store implements store.Store backed by process memory.
type Store struct {
	mu sync.RWMutex

	parts map[shard.Key]*partition
	down  map[shard.Key]bool

	admins    map[int64]*central.Admin
	companies map[int64]*central.Company

	closed bool
}

// New creates an empty memory store with all nine catalog partitions.
func New() *Store {
	s := &Store{
		parts:     make(map[shard.Key]*partition, 9),
		down:      make(map[shard.Key]bool),
		admins:    make(map[int64]*central.Admin),
		companies: make(map[int64]*central.Company),
	}
	for _, k := range shard.Catalog() {
		s.parts[k] = newPartition()
	}
	return s
}

// SetUnavailable marks a partition as unreachable (or reachable again).
// Tests use this to exercise scatter-gather degradation.
func (s *Store) SetUnavailable(part shard.Key, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down[part] = down
}

// open returns the partition bucket or the error a real driver would
// surface: unknown/dead-bucket keys and downed partitions are unavailable.
func (s *Store) open(part shard.Key) (*partition, error) {
	if s.closed {
		return nil, gridbill.ErrStoreClosed
	}
	if s.down[part] {
		return nil, gridbill.ErrPartitionUnavailable
	}
	p, ok := s.parts[part]
	if !ok {
		return nil, gridbill.ErrPartitionUnavailable
	}
	return p, nil
}

// ==================== Agent methods ====================

func (s *Store) UpsertAgent(_ context.Context, part shard.Key, a *account.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	cp := *a
	p.agents[a.ID] = &cp
	return nil
}

func (s *Store) GetAgent(_ context.Context, part shard.Key, agentID int64) (*account.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	if a, ok := p.agents[agentID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gridbill.ErrAgentNotFound
}

func (s *Store) ListAgents(_ context.Context, part shard.Key, opts account.ListOpts) ([]*account.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	result := make([]*account.Agent, 0, len(p.agents))
	for _, a := range p.agents {
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return pageAgents(result, opts), nil
}

func (s *Store) DeleteAgent(_ context.Context, part shard.Key, agentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	if _, ok := p.agents[agentID]; !ok {
		return gridbill.ErrAgentNotFound
	}
	delete(p.agents, agentID)
	return nil
}

// ==================== Prepaid methods ====================

func (s *Store) UpsertPrepaid(_ context.Context, part shard.Key, c *account.Prepaid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	cp := *c
	p.prepaid[c.ID] = &cp
	return nil
}

func (s *Store) GetPrepaid(_ context.Context, part shard.Key, customerID int64) (*account.Prepaid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	if c, ok := p.prepaid[customerID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gridbill.ErrCustomerNotFound
}

func (s *Store) ListPrepaid(_ context.Context, part shard.Key, opts account.ListOpts) ([]*account.Prepaid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	result := make([]*account.Prepaid, 0, len(p.prepaid))
	for _, c := range p.prepaid {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return pagePrepaid(result, opts), nil
}

func (s *Store) DeletePrepaid(_ context.Context, part shard.Key, customerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	if _, ok := p.prepaid[customerID]; !ok {
		return gridbill.ErrCustomerNotFound
	}
	delete(p.prepaid, customerID)
	return nil
}

func (s *Store) CreditPrepaid(_ context.Context, part shard.Key, customerID int64, amount types.Money) (types.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return types.Money{}, err
	}
	c, ok := p.prepaid[customerID]
	if !ok {
		return types.Money{}, gridbill.ErrCustomerNotFound
	}
	c.Balance = c.Balance.Add(amount)
	now := time.Now().UTC()
	c.RechargeAt = &now
	c.Touch()
	return c.Balance, nil
}

// ==================== Postpaid methods ====================

func (s *Store) UpsertPostpaid(_ context.Context, part shard.Key, c *account.Postpaid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	cp := *c
	p.postpaid[c.ID] = &cp
	return nil
}

func (s *Store) GetPostpaid(_ context.Context, part shard.Key, customerID int64) (*account.Postpaid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	if c, ok := p.postpaid[customerID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gridbill.ErrCustomerNotFound
}

func (s *Store) ListPostpaid(_ context.Context, part shard.Key, opts account.ListOpts) ([]*account.Postpaid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	result := make([]*account.Postpaid, 0, len(p.postpaid))
	for _, c := range p.postpaid {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return pagePostpaid(result, opts), nil
}

func (s *Store) DeletePostpaid(_ context.Context, part shard.Key, customerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	if _, ok := p.postpaid[customerID]; !ok {
		return gridbill.ErrCustomerNotFound
	}
	delete(p.postpaid, customerID)
	return nil
}

// ==================== Meter methods ====================

func (s *Store) InsertMeter(_ context.Context, part shard.Key, info *meter.Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	if _, exists := p.meters[info.MeterNo]; exists {
		return gridbill.ErrAlreadyExists
	}
	cp := *info
	p.meters[info.MeterNo] = &cp
	return nil
}

func (s *Store) GetMeter(_ context.Context, part shard.Key, meterNo string) (*meter.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	if m, ok := p.meters[meterNo]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, gridbill.ErrMeterNotFound
}

func (s *Store) MaxMeterSequence(_ context.Context, part shard.Key) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return 0, err
	}
	var maxSeq int64
	for no := range p.meters {
		if seq := meter.Sequence(no); seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, nil
}

func (s *Store) AddMeterUsage(_ context.Context, part shard.Key, meterNo string, units float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	m, ok := p.meters[meterNo]
	if !ok {
		return gridbill.ErrMeterNotFound
	}
	m.UnitUsage += units
	m.Touch()
	return nil
}

// ==================== Bill methods ====================

func (s *Store) InsertBill(_ context.Context, part shard.Key, b *bill.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	cp := *b
	p.bills = append(p.bills, &cp)
	return nil
}

func (s *Store) GetBill(_ context.Context, part shard.Key, billID id.BillID) (*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	for _, b := range p.bills {
		if b.ID.String() == billID.String() {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gridbill.ErrBillNotFound
}

func (s *Store) LatestBill(_ context.Context, part shard.Key, customerID int64) (*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	for i := len(p.bills) - 1; i >= 0; i-- {
		if p.bills[i].CustomerID == customerID {
			cp := *p.bills[i]
			return &cp, nil
		}
	}
	return nil, gridbill.ErrBillNotFound
}

func (s *Store) UnpaidBill(_ context.Context, part shard.Key, customerID int64) (*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	for i := len(p.bills) - 1; i >= 0; i-- {
		b := p.bills[i]
		if b.CustomerID == customerID && b.Status == bill.StatusUnpaid {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gridbill.ErrBillNotFound
}

func (s *Store) ListBills(_ context.Context, part shard.Key, opts bill.ListOpts) ([]*bill.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return nil, err
	}
	result := make([]*bill.Bill, 0, len(p.bills))
	for _, b := range p.bills {
		if opts.CustomerID != 0 && b.CustomerID != opts.CustomerID {
			continue
		}
		if opts.Status != "" && b.Status != opts.Status {
			continue
		}
		cp := *b
		result = append(result, &cp)
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}
	return result[start:end], nil
}

func (s *Store) MarkBillReplaced(_ context.Context, part shard.Key, billID id.BillID) error {
	return s.transition(part, billID, func(b *bill.Bill) {
		b.Status = bill.StatusReplaced
	})
}

func (s *Store) MarkBillPaid(_ context.Context, part shard.Key, billID id.BillID, paidAt time.Time, paidAmount types.Money, ref id.PaymentID) error {
	return s.transition(part, billID, func(b *bill.Bill) {
		b.Status = bill.StatusPaid
		b.PaidAt = &paidAt
		b.PaidAmount = paidAmount
		b.PaymentRef = ref
	})
}

// transition applies a status change guarded on the bill still being unpaid.
func (s *Store) transition(part shard.Key, billID id.BillID, apply func(*bill.Bill)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open(part)
	if err != nil {
		return err
	}
	for _, b := range p.bills {
		if b.ID.String() != billID.String() {
			continue
		}
		if b.Status != bill.StatusUnpaid {
			return gridbill.ErrBillSuperseded
		}
		apply(b)
		b.Touch()
		return nil
	}
	return gridbill.ErrBillNotFound
}

// ==================== Partition summary methods ====================

func (s *Store) CountAccounts(_ context.Context, part shard.Key) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return 0, err
	}
	return int64(len(p.agents) + len(p.prepaid) + len(p.postpaid)), nil
}

func (s *Store) CountBills(_ context.Context, part shard.Key) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.open(part)
	if err != nil {
		return 0, err
	}
	return int64(len(p.bills)), nil
}

// ==================== Central methods ====================

func (s *Store) UpsertAdmin(_ context.Context, a *central.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return gridbill.ErrStoreClosed
	}
	cp := *a
	s.admins[a.ID] = &cp
	return nil
}

func (s *Store) GetAdmin(_ context.Context, adminID int64) (*central.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, gridbill.ErrStoreClosed
	}
	if a, ok := s.admins[adminID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gridbill.ErrAdminNotFound
}

func (s *Store) ListAdmins(_ context.Context) ([]*central.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, gridbill.ErrStoreClosed
	}
	result := make([]*central.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpsertCompany(_ context.Context, c *central.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return gridbill.ErrStoreClosed
	}
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

func (s *Store) GetCompany(_ context.Context, companyID int64) (*central.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, gridbill.ErrStoreClosed
	}
	if c, ok := s.companies[companyID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gridbill.ErrCompanyNotFound
}

func (s *Store) ListCompanies(_ context.Context) ([]*central.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, gridbill.ErrStoreClosed
	}
	result := make([]*central.Company, 0, len(s.companies))
	for _, c := range s.companies {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) DeleteCompany(_ context.Context, companyID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return gridbill.ErrStoreClosed
	}
	if _, ok := s.companies[companyID]; !ok {
		return gridbill.ErrCompanyNotFound
	}
	delete(s.companies, companyID)
	return nil
}

// ==================== Core methods ====================

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return gridbill.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ==================== Paging helpers ====================

func pageAgents(in []*account.Agent, opts account.ListOpts) []*account.Agent {
	start, end := pageBounds(len(in), opts)
	return in[start:end]
}

func pagePrepaid(in []*account.Prepaid, opts account.ListOpts) []*account.Prepaid {
	start, end := pageBounds(len(in), opts)
	return in[start:end]
}

func pagePostpaid(in []*account.Postpaid, opts account.ListOpts) []*account.Postpaid {
	start, end := pageBounds(len(in), opts)
	return in[start:end]
}

func pageBounds(n int, opts account.ListOpts) (int, int) {
	start := opts.Offset
	if start > n {
		start = n
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > n {
		end = n
	}
	return start, end
}
