package gridbill_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/gridbill"
	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/store/memory"
	"github.com/xraph/gridbill/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL or Mongo in production)
		store := memory.New()

		// Initialize the engine
		e := gridbill.New(store,
			gridbill.WithLogger(slog.Default()),
			gridbill.WithLateFine(gridbill.BDT(50)),
			gridbill.WithStoreTimeout(5*time.Second),
		)

		// Start the engine
		ctx := context.Background()
		if err := e.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer e.Stop()

		// Register a postpaid customer; a meter number is allocated in
		// the customer's partition automatically
		cust := &account.Postpaid{
			ID:       42,
			Name:     "Rahim Uddin",
			Location: "dhaka",
		}
		if err := e.CreatePostpaid(ctx, cust); err != nil {
			t.Fatal(err)
		}
		log.Printf("meter allocated: %s\n", cust.MeterNo)

		// Issue a monthly bill
		due := time.Now().AddDate(0, 1, 0)
		b, err := e.IssueBill(ctx, "dhaka", 42, gridbill.BDT(500), due)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("bill issued: %s for %s\n", b.ID, b.Amount.String())

		// Settle it
		outcome, err := e.ApplyPayment(ctx, "dhaka", 42, gridbill.BDT(500))
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("payment applied: %s\n", outcome.Kind)

		// Check what is owed now
		owed, err := e.Outstanding(ctx, "dhaka", 42)
		if err != nil {
			t.Fatal(err)
		}
		if !owed.Amount.IsZero() {
			t.Fatalf("expected nothing owed, got %s", owed.Amount.String())
		}
	})

	// Test Money type examples
	t.Run("MoneyExamples", func(t *testing.T) {
		// Constructors
		_ = types.BDT(500)    // Tk 500
		_ = types.USD(4900)   // $49.00
		_ = types.Zero("bdt") // Tk 0

		// Arithmetic
		m1 := types.BDT(200)
		m2 := types.BDT(500)
		_ = m1.Add(m2)     // Tk 700
		_ = m1.Multiply(3) // Tk 600

		// Comparison
		if m1.LessThan(m2) {
			// m1 is less than m2
		}

		// Formatting
		_ = m1.String()      // "Tk 200"
		_ = m1.FormatMajor() // "200"
	})
}
