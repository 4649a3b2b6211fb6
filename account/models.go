// Package account defines the partitioned account records: agents and
// prepaid/postpaid customers. Accounts are identified by operator-assigned
// positive integer ids, unique within a partition's collection, the same
// ids that drive shard routing.
package account

import (
	"time"

	"github.com/xraph/gridbill/types"
)

// Role classifies an authenticated principal.
type Role string

// Principal roles, central and partitioned.
const (
	RoleAdmin    Role = "admin"
	RoleCompany  Role = "company"
	RoleAgent    Role = "agent"
	RolePrepaid  Role = "customer_prepaid"
	RolePostpaid Role = "customer_postpaid"
)

// Agent is a field collector employed by a company. Agents can apply
// payments to customers of their family.
type Agent struct {
	types.Entity
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	PasswordHash string `json:"-"`
}

// Prepaid is a prepaid customer. The balance is drawn down by usage and
// topped up by recharge payments.
type Prepaid struct {
	types.Entity
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Location     string      `json:"location"`
	PasswordHash string      `json:"-"`
	MeterNo      string      `json:"meter_no"`
	Balance      types.Money `json:"balance"`
	RechargeAt   *time.Time  `json:"recharge_at,omitempty"`
}

// Postpaid is a postpaid customer billed through the ledger.
type Postpaid struct {
	types.Entity
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Location     string     `json:"location"`
	PasswordHash string     `json:"-"`
	MeterNo      string     `json:"meter_no"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// Patch carries partial account field updates. Nil fields are left
// untouched. Balance applies only to prepaid accounts and DueDate only to
// postpaid accounts.
type Patch struct {
	Name         *string
	PasswordHash *string
	Balance      *types.Money
	DueDate      *time.Time
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Name == nil && p.PasswordHash == nil && p.Balance == nil && p.DueDate == nil
}

// ListOpts bounds account listings.
type ListOpts struct {
	Limit  int
	Offset int
}
