// Package gridbill provides a partitioned utility-billing engine for Go
// applications.
//
// Gridbill is designed as a library, not a service. Import it directly into
// your Go application. It provides:
//
//   - Deterministic routing of every account to one of nine partitions
//     derived from its location and numeric id
//   - Prefix-coded meter number allocation with collision-safe sequencing
//   - An append-only bill ledger with carry-forward of unpaid balances and
//     a flat late fine
//   - Payment routing that tops up prepaid balances or settles postpaid
//     bills from a single entry point
//   - Federated scatter-gather queries across a location's partition
//     family that degrade gracefully when a partition is down
//
// # Quick Start
//
// Create an engine instance with your preferred store:
//
//	import (
//	    "github.com/xraph/gridbill"
//	    "github.com/xraph/gridbill/store/memory"
//	)
//
//	// Create engine
//	e := gridbill.New(memory.New())
//
//	// Start the engine (runs migrations, initializes plugins)
//	if err := e.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Stop()
//
// The postgres, sqlite, and mongo stores wrap an already-opened grove
// database instead of a connection string:
//
//	store := postgres.New(groveDB) // groveDB is a *grove.DB
//	e := gridbill.New(store)
//
// # Core Concepts
//
// Every account belongs to exactly one partition. The partition key is the
// account's location family (Nesco, Desco, or PBS) joined to a bucket
// derived from its numeric id:
//
//	part := shard.Resolve("rajshahi", 42)   // Nesco1
//	part := shard.Resolve("dhaka", 150)     // Desco2
//	part := shard.Resolve("khulna", 299)    // PBS3
//
// Bills are append-only. Issuing a bill while the prior one is unpaid
// carries the full prior amount forward and adds a late fine:
//
//	b, err := e.IssueBill(ctx, "dhaka", 42, gridbill.BDT(200), due)
//	// b.Amount == 200 + previous due + fine
//
// Payments are routed by account type:
//
//	outcome, err := e.ApplyPayment(ctx, "dhaka", 42, gridbill.BDT(750))
//	// prepaid → balance top-up, postpaid → bill settlement
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest
// currency unit (whole taka for BDT, cents for USD).
//
// # TypeID
//
// Bills and payments use TypeID for globally unique, type-safe identifiers:
//
//	bill_01h2xcejqtf2nbrexx3vqjhp41  // Bill ID
//	pay_01h455vb4pex5vsknk084sn02q   // Payment ID
//
// TypeIDs are K-sortable, so a customer's current bill is always the one
// with the greatest id.
package gridbill
