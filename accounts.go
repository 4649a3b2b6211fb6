package gridbill

import (
	"context"
	"errors"

	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/central"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/types"
)

// Principal identifies who an id belongs to across the whole deployment.
// Central admins and companies live in the shared registry; everyone else
// lives in exactly one partition.
type Principal struct {
	ID        int64        `json:"id"`
	Role      account.Role `json:"role"`
	Partition shard.Key    `json:"partition,omitempty"`

	Admin    *central.Admin    `json:"admin,omitempty"`
	Company  *central.Company  `json:"company,omitempty"`
	Agent    *account.Agent    `json:"agent,omitempty"`
	Prepaid  *account.Prepaid  `json:"prepaid,omitempty"`
	Postpaid *account.Postpaid `json:"postpaid,omitempty"`
}

// ──────────────────────────────────────────────────
// Partition accounts
// ──────────────────────────────────────────────────

// CreateAgent registers a collection agent in the partition owned by
// (location, id).
func (e *Engine) CreateAgent(ctx context.Context, a *account.Agent) error {
	if err := validateAccount(a.ID, a.Name, a.Location); err != nil {
		return err
	}
	part := shard.Resolve(a.Location, a.ID)
	if !part.Live() {
		return ErrOutOfRange
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.store.GetAgent(cctx, part, a.ID); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrAgentNotFound) {
		return storeErr(err)
	}

	a.Entity = types.NewEntity()
	if err := e.store.UpsertAgent(cctx, part, a); err != nil {
		return storeErr(err)
	}

	e.plugins.EmitAccountCreated(ctx, part, string(account.RoleAgent), a)
	e.logger.Info("agent created", "partition", part.String(), "agent_id", a.ID)
	return nil
}

// CreatePrepaid registers a prepaid customer. A meter number is allocated
// in the customer's partition unless the caller provides one.
func (e *Engine) CreatePrepaid(ctx context.Context, c *account.Prepaid) error {
	if err := validateAccount(c.ID, c.Name, c.Location); err != nil {
		return err
	}
	part := shard.Resolve(c.Location, c.ID)
	if !part.Live() {
		return ErrOutOfRange
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.store.GetPrepaid(cctx, part, c.ID); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrCustomerNotFound) {
		return storeErr(err)
	}

	if c.MeterNo == "" {
		info, err := e.AllocateMeterIn(ctx, c.Location, c.ID)
		if err != nil {
			return err
		}
		c.MeterNo = info.MeterNo
	}
	if c.Balance.Currency == "" {
		c.Balance = types.Zero("bdt")
	}

	c.Entity = types.NewEntity()
	if err := e.store.UpsertPrepaid(cctx, part, c); err != nil {
		return storeErr(err)
	}

	e.plugins.EmitAccountCreated(ctx, part, string(account.RolePrepaid), c)
	e.logger.Info("prepaid customer created",
		"partition", part.String(),
		"customer_id", c.ID,
		"meter_no", c.MeterNo,
	)
	return nil
}

// CreatePostpaid registers a postpaid customer, allocating a meter number
// in the customer's partition unless the caller provides one.
func (e *Engine) CreatePostpaid(ctx context.Context, c *account.Postpaid) error {
	if err := validateAccount(c.ID, c.Name, c.Location); err != nil {
		return err
	}
	part := shard.Resolve(c.Location, c.ID)
	if !part.Live() {
		return ErrOutOfRange
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.store.GetPostpaid(cctx, part, c.ID); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrCustomerNotFound) {
		return storeErr(err)
	}

	if c.MeterNo == "" {
		info, err := e.AllocateMeterIn(ctx, c.Location, c.ID)
		if err != nil {
			return err
		}
		c.MeterNo = info.MeterNo
	}

	c.Entity = types.NewEntity()
	if err := e.store.UpsertPostpaid(cctx, part, c); err != nil {
		return storeErr(err)
	}

	e.plugins.EmitAccountCreated(ctx, part, string(account.RolePostpaid), c)
	e.logger.Info("postpaid customer created",
		"partition", part.String(),
		"customer_id", c.ID,
		"meter_no", c.MeterNo,
	)
	return nil
}

// GetAgent fetches an agent from the partition owned by (location, id).
// Ids routed to a dead bucket are a guaranteed miss.
func (e *Engine) GetAgent(ctx context.Context, location string, agentID int64) (*account.Agent, error) {
	part := shard.Resolve(location, agentID)
	if !part.Live() {
		return nil, ErrAgentNotFound
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	a, err := e.store.GetAgent(cctx, part, agentID)
	if err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

// GetPrepaid fetches a prepaid customer.
func (e *Engine) GetPrepaid(ctx context.Context, location string, customerID int64) (*account.Prepaid, error) {
	part := shard.Resolve(location, customerID)
	if !part.Live() {
		return nil, ErrCustomerNotFound
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	c, err := e.store.GetPrepaid(cctx, part, customerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

// GetPostpaid fetches a postpaid customer.
func (e *Engine) GetPostpaid(ctx context.Context, location string, customerID int64) (*account.Postpaid, error) {
	part := shard.Resolve(location, customerID)
	if !part.Live() {
		return nil, ErrCustomerNotFound
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	c, err := e.store.GetPostpaid(cctx, part, customerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

// UpdateAccount applies a partial update to whichever account type holds
// the id in its partition. Patch fields left nil are untouched.
func (e *Engine) UpdateAccount(ctx context.Context, location string, accountID int64, patch account.Patch) error {
	if patch.IsZero() {
		return &ValidationError{Field: "patch", Message: "no fields to update"}
	}
	part := shard.Resolve(location, accountID)
	if !part.Live() {
		return ErrOutOfRange
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if a, err := e.store.GetAgent(cctx, part, accountID); err == nil {
		if patch.Name != nil {
			a.Name = *patch.Name
		}
		if patch.PasswordHash != nil {
			a.PasswordHash = *patch.PasswordHash
		}
		a.Touch()
		return storeErr(e.store.UpsertAgent(cctx, part, a))
	} else if !errors.Is(err, ErrAgentNotFound) {
		return storeErr(err)
	}

	if c, err := e.store.GetPrepaid(cctx, part, accountID); err == nil {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.PasswordHash != nil {
			c.PasswordHash = *patch.PasswordHash
		}
		if patch.Balance != nil {
			c.Balance = *patch.Balance
		}
		c.Touch()
		return storeErr(e.store.UpsertPrepaid(cctx, part, c))
	} else if !errors.Is(err, ErrCustomerNotFound) {
		return storeErr(err)
	}

	if c, err := e.store.GetPostpaid(cctx, part, accountID); err == nil {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.PasswordHash != nil {
			c.PasswordHash = *patch.PasswordHash
		}
		if patch.DueDate != nil {
			c.DueDate = patch.DueDate
		}
		c.Touch()
		return storeErr(e.store.UpsertPostpaid(cctx, part, c))
	} else if !errors.Is(err, ErrCustomerNotFound) {
		return storeErr(err)
	}

	return ErrNotFound
}

// DeleteAccount removes the id from every account collection in its
// partition. It succeeds if at least one record was removed.
func (e *Engine) DeleteAccount(ctx context.Context, location string, accountID int64) error {
	part := shard.Resolve(location, accountID)
	if !part.Live() {
		return ErrOutOfRange
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	deleted := false
	for _, del := range []func() error{
		func() error { return e.store.DeleteAgent(cctx, part, accountID) },
		func() error { return e.store.DeletePrepaid(cctx, part, accountID) },
		func() error { return e.store.DeletePostpaid(cctx, part, accountID) },
	} {
		switch err := del(); {
		case err == nil:
			deleted = true
		case IsNotFound(err):
			// fine, this collection never held the id
		default:
			return storeErr(err)
		}
	}
	if !deleted {
		return ErrNotFound
	}

	e.plugins.EmitAccountDeleted(ctx, part, accountID)
	e.logger.Info("account deleted", "partition", part.String(), "account_id", accountID)
	return nil
}

// LookupPrincipal resolves an id to whoever it belongs to, checking the
// central registry before the id's partition: admin, then company, then
// agent, then prepaid, then postpaid.
func (e *Engine) LookupPrincipal(ctx context.Context, location string, principalID int64) (*Principal, error) {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if a, err := e.store.GetAdmin(cctx, principalID); err == nil {
		return &Principal{ID: principalID, Role: account.RoleAdmin, Admin: a}, nil
	} else if !errors.Is(err, ErrAdminNotFound) {
		return nil, storeErr(err)
	}
	if c, err := e.store.GetCompany(cctx, principalID); err == nil {
		return &Principal{ID: principalID, Role: account.RoleCompany, Company: c}, nil
	} else if !errors.Is(err, ErrCompanyNotFound) {
		return nil, storeErr(err)
	}

	part := shard.Resolve(location, principalID)
	if !part.Live() {
		return nil, ErrNotFound
	}

	if a, err := e.store.GetAgent(cctx, part, principalID); err == nil {
		return &Principal{ID: principalID, Role: account.RoleAgent, Partition: part, Agent: a}, nil
	} else if !errors.Is(err, ErrAgentNotFound) {
		return nil, storeErr(err)
	}
	if c, err := e.store.GetPrepaid(cctx, part, principalID); err == nil {
		return &Principal{ID: principalID, Role: account.RolePrepaid, Partition: part, Prepaid: c}, nil
	} else if !errors.Is(err, ErrCustomerNotFound) {
		return nil, storeErr(err)
	}
	if c, err := e.store.GetPostpaid(cctx, part, principalID); err == nil {
		return &Principal{ID: principalID, Role: account.RolePostpaid, Partition: part, Postpaid: c}, nil
	} else if !errors.Is(err, ErrCustomerNotFound) {
		return nil, storeErr(err)
	}

	return nil, ErrNotFound
}

// ──────────────────────────────────────────────────
// Central registry
// ──────────────────────────────────────────────────

// CreateAdmin registers a central administrator.
func (e *Engine) CreateAdmin(ctx context.Context, a *central.Admin) error {
	if a.ID <= 0 {
		return &ValidationError{Field: "id", Message: "must be positive"}
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.store.GetAdmin(cctx, a.ID); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrAdminNotFound) {
		return storeErr(err)
	}

	a.Entity = types.NewEntity()
	return storeErr(e.store.UpsertAdmin(cctx, a))
}

// GetAdmin fetches a central administrator.
func (e *Engine) GetAdmin(ctx context.Context, adminID int64) (*central.Admin, error) {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	a, err := e.store.GetAdmin(cctx, adminID)
	if err != nil {
		return nil, storeErr(err)
	}
	return a, nil
}

// ListAdmins returns every central administrator.
func (e *Engine) ListAdmins(ctx context.Context) ([]*central.Admin, error) {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	admins, err := e.store.ListAdmins(cctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return admins, nil
}

// CreateCompany registers a distribution company in the central registry.
func (e *Engine) CreateCompany(ctx context.Context, c *central.Company) error {
	if c.ID <= 0 {
		return &ValidationError{Field: "id", Message: "must be positive"}
	}
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.store.GetCompany(cctx, c.ID); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrCompanyNotFound) {
		return storeErr(err)
	}

	c.Entity = types.NewEntity()
	if err := e.store.UpsertCompany(cctx, c); err != nil {
		return storeErr(err)
	}

	e.plugins.EmitCompanyChanged(ctx, "created", c)
	return nil
}

// GetCompany fetches a company from the central registry.
func (e *Engine) GetCompany(ctx context.Context, companyID int64) (*central.Company, error) {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	c, err := e.store.GetCompany(cctx, companyID)
	if err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

// ListCompanies returns every company in the central registry.
func (e *Engine) ListCompanies(ctx context.Context) ([]*central.Company, error) {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	companies, err := e.store.ListCompanies(cctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return companies, nil
}

// UpdateCompany overwrites an existing company record.
func (e *Engine) UpdateCompany(ctx context.Context, c *central.Company) error {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	existing, err := e.store.GetCompany(cctx, c.ID)
	if err != nil {
		return storeErr(err)
	}
	c.Entity = existing.Entity
	c.Touch()
	if err := e.store.UpsertCompany(cctx, c); err != nil {
		return storeErr(err)
	}

	e.plugins.EmitCompanyChanged(ctx, "updated", c)
	return nil
}

// DeleteCompany removes a company from the central registry.
func (e *Engine) DeleteCompany(ctx context.Context, companyID int64) error {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	c, err := e.store.GetCompany(cctx, companyID)
	if err != nil {
		return storeErr(err)
	}
	if err := e.store.DeleteCompany(cctx, companyID); err != nil {
		return storeErr(err)
	}

	e.plugins.EmitCompanyChanged(ctx, "deleted", c)
	return nil
}

func validateAccount(id int64, name, location string) error {
	if id <= 0 {
		return &ValidationError{Field: "id", Message: "must be positive"}
	}
	if name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if location == "" {
		return &ValidationError{Field: "location", Message: "must not be empty"}
	}
	return nil
}
