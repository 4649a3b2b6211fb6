package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	gridbill "github.com/xraph/gridbill"
	"github.com/xraph/gridbill/account"
	"github.com/xraph/gridbill/observability"
	"github.com/xraph/gridbill/shard"
	"github.com/xraph/gridbill/store/memory"
	"github.com/xraph/gridbill/types"
)

type testCounter struct{ n int }

func (c *testCounter) Inc()          { c.n++ }
func (c *testCounter) Add(v float64) { c.n += int(v) }

type testHistogram struct{ samples []float64 }

func (h *testHistogram) Observe(v float64) { h.samples = append(h.samples, v) }

type testFactory struct {
	counters   map[string]*testCounter
	histograms map[string]*testHistogram
}

func newTestFactory() *testFactory {
	return &testFactory{
		counters:   make(map[string]*testCounter),
		histograms: make(map[string]*testHistogram),
	}
}

func (f *testFactory) Counter(name string) observability.Counter {
	c := &testCounter{}
	f.counters[name] = c
	return c
}

func (f *testFactory) Histogram(name string) observability.Histogram {
	h := &testHistogram{}
	f.histograms[name] = h
	return h
}

func (f *testFactory) count(t *testing.T, name string) int {
	t.Helper()
	c, ok := f.counters[name]
	if !ok {
		t.Fatalf("counter %q never created", name)
	}
	return c.n
}

func TestPartitionSkipCountsAsStoreError(t *testing.T) {
	f := newTestFactory()
	m := observability.NewMetricsExtension(f)

	part := shard.Join(shard.FamilyDesco, shard.Bucket1)
	if err := m.OnPartitionSkipped(context.Background(), part, errors.New("connection refused")); err != nil {
		t.Fatal(err)
	}

	if n := f.count(t, "gridbill.federation.partitions.skipped"); n != 1 {
		t.Errorf("partitions skipped = %d, want 1", n)
	}
	if n := f.count(t, "gridbill.store.errors"); n != 1 {
		t.Errorf("store errors = %d, want 1", n)
	}
}

type failingPlugin struct{}

func (failingPlugin) Name() string { return "failing" }

func (failingPlugin) OnBillIssued(context.Context, shard.Key, interface{}) error {
	return errors.New("boom")
}

func TestFailedHookCountsAsPluginError(t *testing.T) {
	f := newTestFactory()
	m := observability.NewMetricsExtension(f)

	e := gridbill.New(memory.New(),
		gridbill.WithPlugin(m),
		gridbill.WithPlugin(failingPlugin{}),
	)
	ctx := context.Background()
	if err := e.Start(ctx); err != nil {
		t.Fatal(err)
	}

	c := &account.Postpaid{ID: 42, Name: "customer-42", Location: "dhaka"}
	if err := e.CreatePostpaid(ctx, c); err != nil {
		t.Fatal(err)
	}
	if _, err := e.IssueBill(ctx, "dhaka", 42, types.BDT(100), time.Now().AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}

	if n := f.count(t, "gridbill.bill.issued"); n != 1 {
		t.Errorf("bills issued = %d, want 1", n)
	}
	if n := f.count(t, "gridbill.plugin.errors"); n != 1 {
		t.Errorf("plugin errors = %d, want 1", n)
	}
}
