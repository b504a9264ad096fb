package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/obs"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/store"
)

const basePrice = 10.0

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// steps renders the recorded events as stage/decision pairs.
func (r *recorder) steps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, string(e.Stage)+"/"+e.Decision)
	}
	return out
}

func (r *recorder) invoked(stage Stage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Stage == stage {
			return true
		}
	}
	return false
}

type fixture struct {
	coord   *Coordinator
	ledger  *store.Ledger
	rec     *recorder
	metrics *obs.Metrics
}

func constantDemand(d int64) ForecastFunc {
	return func([]int64) int64 { return d }
}

func newFixture(t *testing.T, retail, dist, demand int64) *fixture {
	t.Helper()
	l := store.NewLedger()
	prices := store.NewPriceTable()
	require.NoError(t, l.Set(model.Retail, "p", retail))
	require.NoError(t, l.Set(model.Distribution, "p", dist))
	require.NoError(t, prices.Set("p", basePrice))
	rec := &recorder{}
	m := obs.NewMetrics()
	c := NewCoordinator(l, prices, Options{
		Histories: map[model.ProductID][]int64{"p": {demand}},
		Forecast:  constantDemand(demand),
		Observer:  rec,
		Metrics:   m,
	})
	return &fixture{coord: c, ledger: l, rec: rec, metrics: m}
}

func TestScenarioDistributorFulfills(t *testing.T) {
	f := newFixture(t, 50, 200, 110)
	sum, err := f.coord.Run(context.Background(), "p")
	require.NoError(t, err)

	assert.Equal(t, model.PathDistributed, sum.Path)
	assert.Equal(t, int64(60), sum.Shortage)
	assert.Equal(t, int64(60), sum.ShippedUnits)
	assert.Equal(t, int64(0), sum.SuppliedUnits)
	assert.Equal(t, int64(110), sum.RetailStock)
	assert.Equal(t, int64(140), sum.DistributionStock)
	assert.InDelta(t, basePrice, sum.FinalPrice, 1e-9)
	assert.False(t, f.rec.invoked(SupplierFulfillment))

	want := []string{
		"forecasting/forecasted",
		"stock_check/shortage",
		"escalating/shipped",
		"repricing/base_price",
		"done/completed",
	}
	if diff := cmp.Diff(want, f.rec.steps()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues("distributed")))
	assert.Equal(t, 60.0, testutil.ToFloat64(f.metrics.UnitsShipped.WithLabelValues("distribution")))
}

func TestScenarioSupplierEscalation(t *testing.T) {
	f := newFixture(t, 50, 30, 100)
	sum, err := f.coord.Run(context.Background(), "p")
	require.NoError(t, err)

	assert.Equal(t, model.PathEscalated, sum.Path)
	assert.Equal(t, int64(50), sum.Shortage)
	assert.Equal(t, int64(50), sum.ShippedUnits)
	assert.Equal(t, int64(20), sum.SuppliedUnits)
	assert.Equal(t, int64(100), sum.RetailStock)
	assert.Equal(t, int64(0), sum.DistributionStock)

	want := []string{
		"forecasting/forecasted",
		"stock_check/shortage",
		"escalating/escalate",
		"supplier_fulfillment/supplied",
		"repricing/base_price",
		"done/completed",
	}
	if diff := cmp.Diff(want, f.rec.steps()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	var escalate Event
	for _, e := range f.rec.events {
		if e.Decision == DecisionEscalate {
			escalate = e
		}
	}
	assert.Equal(t, int64(20), escalate.Context.SupplierRequest)
	assert.Equal(t, int64(30), escalate.Context.DistributionStock)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues("escalated")))
	assert.Equal(t, 30.0, testutil.ToFloat64(f.metrics.UnitsShipped.WithLabelValues("distribution")))
	assert.Equal(t, 20.0, testutil.ToFloat64(f.metrics.UnitsShipped.WithLabelValues("supplier")))
}

func TestScenarioOverstockDiscount(t *testing.T) {
	f := newFixture(t, 200, 0, 50)
	sum, err := f.coord.Run(context.Background(), "p")
	require.NoError(t, err)

	assert.Equal(t, model.PathSufficient, sum.Path)
	assert.Equal(t, int64(200), sum.RetailStock)
	assert.InDelta(t, basePrice*0.8, sum.FinalPrice, 1e-9)
	assert.False(t, f.rec.invoked(Escalating))
	assert.False(t, f.rec.invoked(SupplierFulfillment))

	want := []string{
		"forecasting/forecasted",
		"stock_check/sufficient",
		"sufficient/skip_replenishment",
		"repricing/discounted",
		"done/completed",
	}
	if diff := cmp.Diff(want, f.rec.steps()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestRunInvariantsAcrossInputs(t *testing.T) {
	for _, retail := range []int64{0, 25, 50, 120} {
		for _, dist := range []int64{0, 10, 60, 500} {
			for _, demand := range []int64{0, 30, 50, 100, 200} {
				name := fmt.Sprintf("r%d_d%d_q%d", retail, dist, demand)
				t.Run(name, func(t *testing.T) {
					f := newFixture(t, retail, dist, demand)
					sum, err := f.coord.Run(context.Background(), "p")
					require.NoError(t, err)

					assert.GreaterOrEqual(t, sum.RetailStock, int64(0))
					assert.GreaterOrEqual(t, sum.DistributionStock, int64(0))

					shortage := max(demand-retail, 0)
					assert.Equal(t, shortage, sum.Shortage)
					assert.Equal(t, retail+shortage, sum.RetailStock)
					switch {
					case shortage == 0:
						assert.Equal(t, dist, sum.DistributionStock)
						assert.False(t, f.rec.invoked(Escalating))
					case dist >= shortage:
						assert.Equal(t, dist-shortage, sum.DistributionStock)
						assert.False(t, f.rec.invoked(SupplierFulfillment))
					default:
						assert.Equal(t, shortage-dist, sum.SuppliedUnits)
						assert.Equal(t, int64(0), sum.DistributionStock)
					}
					assert.Equal(t, shortage, sum.ShippedUnits)

					if float64(sum.RetailStock) > float64(demand)*DefaultOverstockFactor {
						assert.InDelta(t, basePrice*(1-DefaultDiscountRate), sum.FinalPrice, 1e-9)
					} else {
						assert.InDelta(t, basePrice, sum.FinalPrice, 1e-9)
					}
				})
			}
		}
	}
}

func TestMissingPriceAbortsBeforeMutation(t *testing.T) {
	l := store.NewLedger()
	require.NoError(t, l.Set(model.Retail, "p", 1))
	require.NoError(t, l.Set(model.Distribution, "p", 100))
	m := obs.NewMetrics()
	rec := &recorder{}
	c := NewCoordinator(l, store.NewPriceTable(), Options{Forecast: constantDemand(50), Observer: rec, Metrics: m})

	_, err := c.Run(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, model.ProductID("p"), perr.Product)

	assert.Equal(t, int64(1), l.Get(model.Retail, "p"))
	assert.Equal(t, int64(100), l.Get(model.Distribution, "p"))
	assert.Empty(t, rec.steps())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunErrors.WithLabelValues("configuration")))
}

func TestRejectedRunsLeaveNoLockEntries(t *testing.T) {
	l := store.NewLedger()
	prices := store.NewPriceTable()
	require.NoError(t, prices.Set("known", 1))
	c := NewCoordinator(l, prices, Options{StrictHistory: true})

	for i := 0; i < 50; i++ {
		_, err := c.Run(context.Background(), model.ProductID(fmt.Sprintf("ghost-%d", i)))
		require.ErrorIs(t, err, ErrConfiguration)
	}
	_, err := c.Run(context.Background(), "known")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, l.ActiveLocks())
}

func TestCompletedRunsReleaseLockEntries(t *testing.T) {
	f := newFixture(t, 0, 100, 10)
	for i := 0; i < 3; i++ {
		_, err := f.coord.Run(context.Background(), "p")
		require.NoError(t, err)
	}
	assert.Equal(t, 0, f.ledger.ActiveLocks())
}

func TestOverstockDecisionWithZeroRate(t *testing.T) {
	l := store.NewLedger()
	prices := store.NewPriceTable()
	require.NoError(t, l.Set(model.Retail, "p", 200))
	require.NoError(t, prices.Set("p", basePrice))
	rec := &recorder{}
	c := NewCoordinator(l, prices, Options{
		Forecast: constantDemand(50),
		Pricing:  OverstockDiscount(DefaultOverstockFactor, 0),
		Observer: rec,
	})
	sum, err := c.Run(context.Background(), "p")
	require.NoError(t, err)
	assert.InDelta(t, basePrice, sum.FinalPrice, 1e-9)
	assert.Contains(t, rec.steps(), "repricing/discounted")
}

func TestInvalidInputs(t *testing.T) {
	f := newFixture(t, 10, 10, 5)
	_, err := f.coord.Run(context.Background(), "")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	l := store.NewLedger()
	prices := store.NewPriceTable()
	require.NoError(t, prices.Set("ghost", 1))
	strict := NewCoordinator(l, prices, Options{StrictHistory: true})
	_, err = strict.Run(context.Background(), "ghost")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "invalid_input", KindOf(err))
}

func TestUnknownProductFallsBackToZeroDemand(t *testing.T) {
	l := store.NewLedger()
	prices := store.NewPriceTable()
	require.NoError(t, prices.Set("new", 4))
	c := NewCoordinator(l, prices, Options{})
	sum, err := c.Run(context.Background(), "new")
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.Demand)
	assert.Equal(t, model.PathSufficient, sum.Path)
	assert.InDelta(t, 4.0, sum.FinalPrice, 1e-9)
}

func TestNegativeForecastRejected(t *testing.T) {
	l := store.NewLedger()
	prices := store.NewPriceTable()
	require.NoError(t, l.Set(model.Retail, "p", 3))
	require.NoError(t, prices.Set("p", 1))
	rec := &recorder{}
	c := NewCoordinator(l, prices, Options{Forecast: constantDemand(-1), Observer: rec})
	_, err := c.Run(context.Background(), "p")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, rec.invoked(StockCheck))
	assert.Equal(t, int64(3), l.Get(model.Retail, "p"))
}

func TestCanceledContextRejected(t *testing.T) {
	f := newFixture(t, 0, 0, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.coord.Run(ctx, "p")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int64(0), f.ledger.Get(model.Retail, "p"))
}

func TestConcurrentRunsSameProductConserveStock(t *testing.T) {
	// each run raises retail to demand once; later runs find it sufficient
	f := newFixture(t, 0, 1000, 100)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.coord.Run(context.Background(), "p")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(100), f.ledger.Get(model.Retail, "p"))
	assert.Equal(t, int64(900), f.ledger.Get(model.Distribution, "p"))
}

func TestSequenceAndRunIDs(t *testing.T) {
	f := newFixture(t, 100, 0, 10)
	a, err := f.coord.Run(context.Background(), "p")
	require.NoError(t, err)
	b, err := f.coord.Run(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, a.Sequence+1, b.Sequence)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, 5, 6, 1)
	p, ok := f.coord.Snapshot("p")
	require.True(t, ok)
	assert.Equal(t, model.Product{ProductID: "p", RetailStock: 5, DistributionStock: 6, BasePrice: basePrice}, p)
	_, ok = f.coord.Snapshot("missing")
	assert.False(t, ok)
}
