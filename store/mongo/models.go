package mongo

import (
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/central"
	"github.com/xraph/gridbill/id"
	"github.com/xraph/gridbill/meter"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/types"
)

// Partitioned documents share one collection per entity type. The owning
// partition key is a field, with the composite (partition, local id) as the
// document _id so upserts stay idempotent.

func docID(part shard.Key, localID int64) string {
	return fmt.Sprintf("%s:%d", part, localID)
}

func meterDocID(part shard.Key, meterNo string) string {
	return fmt.Sprintf("%s:%s", part, meterNo)
}

// ==================== Agent models ====================

type agentModel struct {
	grove.BaseModel `grove:"table:gridbill_agents"`

	DocID        string    `grove:"id,pk"         bson:"_id"`
	PartitionKey string    `grove:"partition_key" bson:"partition_key"`
	AgentID      int64     `grove:"agent_id"      bson:"agent_id"`
	Name         string    `grove:"name"          bson:"name"`
	Location     string    `grove:"location"      bson:"location"`
	PasswordHash string    `grove:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

func toAgentModel(part shard.Key, a *account.Agent) *agentModel {
	return &agentModel{
		DocID:        docID(part, a.ID),
		PartitionKey: part.String(),
		AgentID:      a.ID,
		Name:         a.Name,
		Location:     a.Location,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func fromAgentModel(m *agentModel) *account.Agent {
	return &account.Agent{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           m.AgentID,
		Name:         m.Name,
		Location:     m.Location,
		PasswordHash: m.PasswordHash,
	}
}

// ==================== Prepaid models ====================

type prepaidModel struct {
	grove.BaseModel `grove:"table:gridbill_prepaid"`

	DocID           string     `grove:"id,pk"            bson:"_id"`
	PartitionKey    string     `grove:"partition_key"    bson:"partition_key"`
	CustomerID      int64      `grove:"customer_id"      bson:"customer_id"`
	Name            string     `grove:"name"             bson:"name"`
	Location        string     `grove:"location"         bson:"location"`
	MeterNo         string     `grove:"meter_no"         bson:"meter_no"`
	BalanceAmount   int64      `grove:"balance_amount"   bson:"balance_amount"`
	BalanceCurrency string     `grove:"balance_currency" bson:"balance_currency"`
	RechargeAt      *time.Time `grove:"recharge_at"      bson:"recharge_at,omitempty"`
	PasswordHash    string     `grove:"password_hash"    bson:"password_hash"`
	CreatedAt       time.Time  `grove:"created_at"       bson:"created_at"`
	UpdatedAt       time.Time  `grove:"updated_at"       bson:"updated_at"`
}

func toPrepaidModel(part shard.Key, c *account.Prepaid) *prepaidModel {
	return &prepaidModel{
		DocID:           docID(part, c.ID),
		PartitionKey:    part.String(),
		CustomerID:      c.ID,
		Name:            c.Name,
		Location:        c.Location,
		MeterNo:         c.MeterNo,
		BalanceAmount:   c.Balance.Amount,
		BalanceCurrency: c.Balance.Currency,
		RechargeAt:      c.RechargeAt,
		PasswordHash:    c.PasswordHash,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func fromPrepaidModel(m *prepaidModel) *account.Prepaid {
	return &account.Prepaid{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           m.CustomerID,
		Name:         m.Name,
		Location:     m.Location,
		PasswordHash: m.PasswordHash,
		MeterNo:      m.MeterNo,
		Balance:      types.Money{Amount: m.BalanceAmount, Currency: m.BalanceCurrency},
		RechargeAt:   m.RechargeAt,
	}
}

// ==================== Postpaid models ====================

type postpaidModel struct {
	grove.BaseModel `grove:"table:gridbill_postpaid"`

	DocID        string     `grove:"id,pk"         bson:"_id"`
	PartitionKey string     `grove:"partition_key" bson:"partition_key"`
	CustomerID   int64      `grove:"customer_id"   bson:"customer_id"`
	Name         string     `grove:"name"          bson:"name"`
	Location     string     `grove:"location"      bson:"location"`
	MeterNo      string     `grove:"meter_no"      bson:"meter_no"`
	DueDate      *time.Time `grove:"due_date"      bson:"due_date,omitempty"`
	PasswordHash string     `grove:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time  `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time  `grove:"updated_at"    bson:"updated_at"`
}

func toPostpaidModel(part shard.Key, c *account.Postpaid) *postpaidModel {
	return &postpaidModel{
		DocID:        docID(part, c.ID),
		PartitionKey: part.String(),
		CustomerID:   c.ID,
		Name:         c.Name,
		Location:     c.Location,
		MeterNo:      c.MeterNo,
		DueDate:      c.DueDate,
		PasswordHash: c.PasswordHash,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func fromPostpaidModel(m *postpaidModel) *account.Postpaid {
	return &account.Postpaid{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           m.CustomerID,
		Name:         m.Name,
		Location:     m.Location,
		PasswordHash: m.PasswordHash,
		MeterNo:      m.MeterNo,
		DueDate:      m.DueDate,
	}
}

// ==================== Meter models ====================

type meterModel struct {
	grove.BaseModel `grove:"table:gridbill_meters"`

	DocID        string    `grove:"id,pk"         bson:"_id"`
	PartitionKey string    `grove:"partition_key" bson:"partition_key"`
	MeterNo      string    `grove:"meter_no"      bson:"meter_no"`
	Location     string    `grove:"location"      bson:"location"`
	Sequence     int64     `grove:"sequence"      bson:"sequence"`
	UnitUsage    float64   `grove:"unit_usage"    bson:"unit_usage"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

func toMeterModel(part shard.Key, info *meter.Info) *meterModel {
	return &meterModel{
		DocID:        meterDocID(part, info.MeterNo),
		PartitionKey: part.String(),
		MeterNo:      info.MeterNo,
		Location:     info.Location,
		Sequence:     meter.Sequence(info.MeterNo),
		UnitUsage:    info.UnitUsage,
		CreatedAt:    info.CreatedAt,
		UpdatedAt:    info.UpdatedAt,
	}
}

func fromMeterModel(m *meterModel) *meter.Info {
	return &meter.Info{
		Entity:    types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		MeterNo:   m.MeterNo,
		Location:  m.Location,
		UnitUsage: m.UnitUsage,
	}
}

// ==================== Bill models ====================

type billModel struct {
	grove.BaseModel `grove:"table:gridbill_bills"`

	ID              string     `grove:"id,pk"            bson:"_id"`
	PartitionKey    string     `grove:"partition_key"    bson:"partition_key"`
	CustomerID      int64      `grove:"customer_id"      bson:"customer_id"`
	Location        string     `grove:"location"         bson:"location"`
	AmountCents     int64      `grove:"amount"           bson:"amount"`
	BaseCents       int64      `grove:"base_amount"      bson:"base_amount"`
	PreviousCents   int64      `grove:"previous_due"     bson:"previous_due"`
	FineCents       int64      `grove:"fine"             bson:"fine"`
	Currency        string     `grove:"currency"         bson:"currency"`
	DueDate         time.Time  `grove:"due_date"         bson:"due_date"`
	Status          string     `grove:"status"           bson:"status"`
	PaidAt          *time.Time `grove:"paid_at"          bson:"paid_at,omitempty"`
	PaidAmountCents int64      `grove:"paid_amount"      bson:"paid_amount"`
	PaymentRef      string     `grove:"payment_ref"      bson:"payment_ref,omitempty"`
	CreatedAt       time.Time  `grove:"created_at"       bson:"created_at"`
	UpdatedAt       time.Time  `grove:"updated_at"       bson:"updated_at"`
}

func toBillModel(part shard.Key, b *bill.Bill) *billModel {
	m := &billModel{
		ID:              b.ID.String(),
		PartitionKey:    part.String(),
		CustomerID:      b.CustomerID,
		Location:        b.Location,
		AmountCents:     b.Amount.Amount,
		BaseCents:       b.BaseAmount.Amount,
		PreviousCents:   b.PreviousDue.Amount,
		FineCents:       b.Fine.Amount,
		Currency:        b.Amount.Currency,
		DueDate:         b.DueDate,
		Status:          string(b.Status),
		PaidAt:          b.PaidAt,
		PaidAmountCents: b.PaidAmount.Amount,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if !b.PaymentRef.IsNil() {
		m.PaymentRef = b.PaymentRef.String()
	}
	return m
}

func fromBillModel(m *billModel) (*bill.Bill, error) {
	billID, err := id.ParseBillID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("gridbill/mongo: parse bill id %q: %w", m.ID, err)
	}

	b := &bill.Bill{
		Entity:      types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:          billID,
		CustomerID:  m.CustomerID,
		Location:    m.Location,
		Amount:      types.Money{Amount: m.AmountCents, Currency: m.Currency},
		BaseAmount:  types.Money{Amount: m.BaseCents, Currency: m.Currency},
		PreviousDue: types.Money{Amount: m.PreviousCents, Currency: m.Currency},
		Fine:        types.Money{Amount: m.FineCents, Currency: m.Currency},
		DueDate:     m.DueDate,
		Status:      bill.Status(m.Status),
		PaidAt:      m.PaidAt,
		PaidAmount:  types.Money{Amount: m.PaidAmountCents, Currency: m.Currency},
	}
	if m.PaymentRef != "" {
		ref, err := id.ParsePaymentID(m.PaymentRef)
		if err != nil {
			return nil, fmt.Errorf("gridbill/mongo: parse payment ref %q: %w", m.PaymentRef, err)
		}
		b.PaymentRef = ref
	}
	return b, nil
}

// ==================== Central models ====================

type adminModel struct {
	grove.BaseModel `grove:"table:gridbill_admins"`

	ID           int64     `grove:"id,pk"         bson:"_id"`
	Name         string    `grove:"name"          bson:"name"`
	PasswordHash string    `grove:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

func toAdminModel(a *central.Admin) *adminModel {
	return &adminModel{
		ID:           a.ID,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func fromAdminModel(m *adminModel) *central.Admin {
	return &central.Admin{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           m.ID,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
	}
}

type companyModel struct {
	grove.BaseModel `grove:"table:gridbill_companies"`

	ID           int64     `grove:"id,pk"         bson:"_id"`
	Name         string    `grove:"name"          bson:"name"`
	Location     string    `grove:"location"      bson:"location"`
	PasswordHash string    `grove:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

func toCompanyModel(c *central.Company) *companyModel {
	return &companyModel{
		ID:           c.ID,
		Name:         c.Name,
		Location:     c.Location,
		PasswordHash: c.PasswordHash,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func fromCompanyModel(m *companyModel) *central.Company {
	return &central.Company{
		Entity:       types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:           m.ID,
		Name:         m.Name,
		Location:     m.Location,
		PasswordHash: m.PasswordHash,
	}
}
