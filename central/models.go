// Package central defines the shared, non-partitioned records: platform
// admins and the utility companies whose customers live in the sharded
// partitions. A company's location decides which partition family its
// agents and customers are routed to.
package central

import "github.com/xraph/gridbill/types"

// Admin is a platform administrator.
type Admin struct {
	types.Entity
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}

// Company is a utility company operator account.
type Company struct {
	types.Entity
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	PasswordHash string `json:"-"`
}
