package gridbill

import (
	"context"
	"sync"

	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/bill"
	"github.com/xraph/gridbill/shard"
)

// PartitionSummary is one row of the per-partition dashboard.
type PartitionSummary struct {
	Partition shard.Key `json:"partition"`
	Accounts  int64     `json:"accounts"`
	Bills     int64     `json:"bills"`
	Available bool      `json:"available"`
}

// scatter fans fetch out across the given partitions concurrently and
// merges the results in partition order. A partition that fails is
// skipped, not fatal: federated reads degrade instead of breaking when a
// backend is down.
func scatter[T any](e *Engine, ctx context.Context, parts []shard.Key, fetch func(ctx context.Context, part shard.Key) ([]T, error)) []T {
	perPart := make([][]T, len(parts))

	var wg sync.WaitGroup
	for i, part := range parts {
		wg.Add(1)
		go func(i int, part shard.Key) {
			defer wg.Done()

			cctx, cancel := e.withTimeout(ctx)
			defer cancel()

			rows, err := fetch(cctx, part)
			if err != nil {
				e.plugins.EmitPartitionSkipped(ctx, part, err)
				e.logger.Warn("partition skipped",
					"partition", part.String(),
					"error", err,
				)
				return
			}
			perPart[i] = rows
		}(i, part)
	}
	wg.Wait()

	var merged []T
	for _, rows := range perPart {
		merged = append(merged, rows...)
	}
	return merged
}

// FamilyAgents returns every agent across the location's three partitions.
func (e *Engine) FamilyAgents(ctx context.Context, location string) ([]*account.Agent, error) {
	parts := shard.FamilyKeys(shard.ResolveFamily(location))
	return scatter(e, ctx, parts, func(ctx context.Context, part shard.Key) ([]*account.Agent, error) {
		return e.store.ListAgents(ctx, part, account.ListOpts{})
	}), nil
}

// FamilyPrepaid returns every prepaid customer across the location's
// three partitions.
func (e *Engine) FamilyPrepaid(ctx context.Context, location string) ([]*account.Prepaid, error) {
	parts := shard.FamilyKeys(shard.ResolveFamily(location))
	return scatter(e, ctx, parts, func(ctx context.Context, part shard.Key) ([]*account.Prepaid, error) {
		return e.store.ListPrepaid(ctx, part, account.ListOpts{})
	}), nil
}

// FamilyPostpaid returns every postpaid customer across the location's
// three partitions.
func (e *Engine) FamilyPostpaid(ctx context.Context, location string) ([]*account.Postpaid, error) {
	parts := shard.FamilyKeys(shard.ResolveFamily(location))
	return scatter(e, ctx, parts, func(ctx context.Context, part shard.Key) ([]*account.Postpaid, error) {
		return e.store.ListPostpaid(ctx, part, account.ListOpts{})
	}), nil
}

// FamilyBills returns every bill across the location's three partitions,
// regardless of customer or status. This is the collection-agent view.
func (e *Engine) FamilyBills(ctx context.Context, location string) ([]*bill.Bill, error) {
	parts := shard.FamilyKeys(shard.ResolveFamily(location))
	return scatter(e, ctx, parts, func(ctx context.Context, part shard.Key) ([]*bill.Bill, error) {
		return e.store.ListBills(ctx, part, bill.ListOpts{})
	}), nil
}

// PostpaidOutstanding returns everything still owed across the location's
// three partitions, one entry per unpaid bill.
func (e *Engine) PostpaidOutstanding(ctx context.Context, location string) ([]*bill.Outstanding, error) {
	parts := shard.FamilyKeys(shard.ResolveFamily(location))
	return scatter(e, ctx, parts, func(ctx context.Context, part shard.Key) ([]*bill.Outstanding, error) {
		unpaid, err := e.store.ListBills(ctx, part, bill.ListOpts{Status: bill.StatusUnpaid})
		if err != nil {
			return nil, err
		}
		out := make([]*bill.Outstanding, 0, len(unpaid))
		for _, b := range unpaid {
			out = append(out, &bill.Outstanding{
				CustomerID: b.CustomerID,
				Amount:     b.Amount,
				Fine:       e.computeFine(b.Amount),
				Bill:       b,
			})
		}
		return out, nil
	}), nil
}

// PartitionSummaries counts accounts and bills in every catalog partition.
// Unreachable partitions appear in the result with Available false so the
// dashboard shows the outage instead of silently under-counting.
func (e *Engine) PartitionSummaries(ctx context.Context) []PartitionSummary {
	parts := shard.Catalog()
	summaries := make([]PartitionSummary, len(parts))

	var wg sync.WaitGroup
	for i, part := range parts {
		wg.Add(1)
		go func(i int, part shard.Key) {
			defer wg.Done()

			cctx, cancel := e.withTimeout(ctx)
			defer cancel()

			s := PartitionSummary{Partition: part}
			accounts, err := e.store.CountAccounts(cctx, part)
			if err == nil {
				var bills int64
				bills, err = e.store.CountBills(cctx, part)
				if err == nil {
					s.Accounts = accounts
					s.Bills = bills
					s.Available = true
				}
			}
			if err != nil {
				e.plugins.EmitPartitionSkipped(ctx, part, err)
				e.logger.Warn("partition skipped",
					"partition", part.String(),
					"error", err,
				)
			}
			summaries[i] = s
		}(i, part)
	}
	wg.Wait()

	return summaries
}
