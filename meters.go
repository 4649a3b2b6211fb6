package gridbill

import (
	"context"
	"errors"

	"github.com/xraph/gridbill/meter"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/types"
)

// AllocateMeter reserves the next meter number for a location. The number
// is the location's prefix joined to a zero-padded sequence one past the
// highest sequence already present in the location's default partition.
func (e *Engine) AllocateMeter(ctx context.Context, location string) (*meter.Info, error) {
	if location == "" {
		return nil, &ValidationError{Field: "location", Message: "must not be empty"}
	}
	return e.allocateMeter(ctx, shard.ResolveLocation(location), location)
}

// AllocateMeterIn reserves the next meter number inside the partition that
// owns (location, accountID). Accounts get their meter in the same
// partition that holds the rest of their records.
func (e *Engine) AllocateMeterIn(ctx context.Context, location string, accountID int64) (*meter.Info, error) {
	if location == "" {
		return nil, &ValidationError{Field: "location", Message: "must not be empty"}
	}
	part := shard.Resolve(location, accountID)
	if !part.Live() {
		return nil, ErrOutOfRange
	}
	return e.allocateMeter(ctx, part, location)
}

func (e *Engine) allocateMeter(ctx context.Context, part shard.Key, location string) (*meter.Info, error) {
	unlock := e.meterLocks.Lock("meter:" + part.String())
	defer unlock()

	info, err := e.reserveMeter(ctx, part, location)
	if errors.Is(err, ErrAlreadyExists) {
		// Another writer (outside this process) took the number between
		// our max scan and insert. Rescan once and retry.
		info, err = e.reserveMeter(ctx, part, location)
	}
	if err != nil {
		return nil, err
	}

	e.plugins.EmitMeterAllocated(ctx, part, info)

	e.logger.Debug("meter allocated",
		"partition", part.String(),
		"meter_no", info.MeterNo,
	)

	return info, nil
}

func (e *Engine) reserveMeter(ctx context.Context, part shard.Key, location string) (*meter.Info, error) {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	maxSeq, err := e.store.MaxMeterSequence(cctx, part)
	if err != nil {
		return nil, storeErr(err)
	}

	info := &meter.Info{
		Entity:   types.NewEntity(),
		MeterNo:  meter.Format(meter.LocationPrefix(location), maxSeq+1),
		Location: location,
	}
	if err := e.store.InsertMeter(cctx, part, info); err != nil {
		return nil, storeErr(err)
	}
	return info, nil
}

// GetMeter fetches a meter record from the partition owning (location, accountID).
func (e *Engine) GetMeter(ctx context.Context, location string, accountID int64, meterNo string) (*meter.Info, error) {
	part := shard.Resolve(location, accountID)
	if !part.Live() {
		return nil, ErrMeterNotFound
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	info, err := e.store.GetMeter(cctx, part, meterNo)
	if err != nil {
		return nil, storeErr(err)
	}
	return info, nil
}

// RecordUsage accumulates consumed units on a meter.
func (e *Engine) RecordUsage(ctx context.Context, location string, accountID int64, meterNo string, units float64) error {
	if units < 0 {
		return &ValidationError{Field: "units", Message: "must not be negative"}
	}
	part := shard.Resolve(location, accountID)
	if !part.Live() {
		return ErrMeterNotFound
	}

	cctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if err := e.store.AddMeterUsage(cctx, part, meterNo, units); err != nil {
		return storeErr(err)
	}
	return nil
}
