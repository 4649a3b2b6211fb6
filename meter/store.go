package meter

import (
	"context"

	"github.com/xraph/gridbill/shard"
)

// Store is the partition-scoped persistence contract for meter records.
type Store interface {
	// InsertMeter creates a meter record. A duplicate meter number fails
	// with gridbill.ErrAlreadyExists; the allocator depends on this to
	// detect allocation collisions.
	InsertMeter(ctx context.Context, part shard.Key, info *Info) error

	GetMeter(ctx context.Context, part shard.Key, meterNo string) (*Info, error)

	// MaxMeterSequence returns the greatest numeric sequence among the
	// partition's meter numbers, or 0 when the partition has none.
	MaxMeterSequence(ctx context.Context, part shard.Key) (int64, error)

	// AddMeterUsage accumulates consumed units onto a meter record.
	AddMeterUsage(ctx context.Context, part shard.Key, meterNo string, units float64) error
}
