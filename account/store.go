package account

import (
	"context"

	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/types"
)

// Store is the partition-scoped persistence contract for account records.
// Every method addresses exactly one partition; there are no cross-partition
// operations at this layer.
type Store interface {
	UpsertAgent(ctx context.Context, part shard.Key, a *Agent) error
	GetAgent(ctx context.Context, part shard.Key, id int64) (*Agent, error)
	ListAgents(ctx context.Context, part shard.Key, opts ListOpts) ([]*Agent, error)
	DeleteAgent(ctx context.Context, part shard.Key, id int64) error

	UpsertPrepaid(ctx context.Context, part shard.Key, p *Prepaid) error
	GetPrepaid(ctx context.Context, part shard.Key, id int64) (*Prepaid, error)
	ListPrepaid(ctx context.Context, part shard.Key, opts ListOpts) ([]*Prepaid, error)
	DeletePrepaid(ctx context.Context, part shard.Key, id int64) error

	// CreditPrepaid atomically increments a prepaid balance and returns the
	// new balance. The increment happens store-side so concurrent recharges
	// cannot lose updates.
	CreditPrepaid(ctx context.Context, part shard.Key, id int64, amount types.Money) (types.Money, error)

	UpsertPostpaid(ctx context.Context, part shard.Key, p *Postpaid) error
	GetPostpaid(ctx context.Context, part shard.Key, id int64) (*Postpaid, error)
	ListPostpaid(ctx context.Context, part shard.Key, opts ListOpts) ([]*Postpaid, error)
	DeletePostpaid(ctx context.Context, part shard.Key, id int64) error
}
