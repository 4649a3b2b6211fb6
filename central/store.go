package central

import "context"

// Store is the persistence contract for the shared central records.
// Unlike the partitioned collections these live in a single store keyed by
// integer id; upserts are idempotent on id.
type Store interface {
	UpsertAdmin(ctx context.Context, a *Admin) error
	GetAdmin(ctx context.Context, id int64) (*Admin, error)
	ListAdmins(ctx context.Context) ([]*Admin, error)

	UpsertCompany(ctx context.Context, c *Company) error
	GetCompany(ctx context.Context, id int64) (*Company, error)
	ListCompanies(ctx context.Context) ([]*Company, error)
	DeleteCompany(ctx context.Context, id int64) error
}
