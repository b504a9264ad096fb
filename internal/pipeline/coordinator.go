package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/obs"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/store"
)

// Options configures a Coordinator. Zero values select defaults.
type Options struct {
	Histories     map[model.ProductID][]int64
	Forecast      ForecastFunc
	StrictHistory bool
	Pricing       PricingPolicy
	Observer      Observer
	Metrics       *obs.Metrics
}

// Coordinator sequences the participants of a run and owns the ledger.
type Coordinator struct {
	ledger *store.Ledger

	forecaster  *Forecaster
	retailer    *Retailer
	distributor *Distributor
	supplier    *Supplier
	pricing     *PricingEngine

	observer Observer
	metrics  *obs.Metrics
	seq      Sequencer
}

// NewCoordinator wires the five participants. Only the Retailer and the
// Distributor get ledger handles, each scoped to its own location.
func NewCoordinator(ledger *store.Ledger, prices *store.PriceTable, opts Options) *Coordinator {
	observers := Observers{LogObserver{}, MetricsObserver{Metrics: opts.Metrics}}
	if opts.Observer != nil {
		observers = append(observers, opts.Observer)
	}
	return &Coordinator{
		ledger:      ledger,
		forecaster:  NewForecaster(opts.Histories, opts.Forecast, opts.StrictHistory),
		retailer:    NewRetailer(ledger.Handle(model.Retail)),
		distributor: NewDistributor(ledger.Handle(model.Distribution)),
		supplier:    NewSupplier(),
		pricing:     NewPricingEngine(prices, opts.Pricing),
		observer:    observers,
		metrics:     opts.Metrics,
	}
}

// run is the state of one pipeline execution.
type run struct {
	id    string
	seq   uint64
	stage Stage
	path  model.Path
	pc    Context
}

// Run executes the pipeline for one product and returns its summary.
//
// Validation happens before any stage: an empty product or an unknown product
// under strict history is ErrInvalidInput, a missing base price is
// ErrConfiguration. Rejected runs leave the ledger untouched. Runs for the
// same product serialize.
func (c *Coordinator) Run(ctx context.Context, id model.ProductID) (model.Summary, error) {
	start := time.Now()
	sum, err := c.run(ctx, id)
	c.record(id, sum, err, time.Since(start))
	return sum, err
}

func (c *Coordinator) run(ctx context.Context, id model.ProductID) (model.Summary, error) {
	if id == "" {
		return model.Summary{}, invalidf(Forecasting, id, "product id is required")
	}
	if err := ctx.Err(); err != nil {
		return model.Summary{}, err
	}
	base, err := c.pricing.BasePrice(id)
	if err != nil {
		return model.Summary{}, err
	}
	if c.forecaster.Strict() && !c.forecaster.Known(id) {
		return model.Summary{}, invalidf(Forecasting, id, "no demand history")
	}

	unlock := c.ledger.Lock(id)
	defer unlock()

	r := &run{id: uuid.NewString(), seq: c.seq.Next(), stage: Forecasting, pc: NewContext(id)}
	r.pc.Merge(Forecasting, Fragment{BasePrice: Float(base)})

	if err := c.forecast(r); err != nil {
		return model.Summary{}, err
	}
	short, err := c.stockCheck(r)
	if err != nil {
		return model.Summary{}, err
	}
	if short {
		err = c.escalate(r)
	} else {
		err = c.sufficient(r)
	}
	if err != nil {
		return model.Summary{}, err
	}
	if err := c.reprice(r); err != nil {
		return model.Summary{}, err
	}
	if err := c.advance(r, Done); err != nil {
		return model.Summary{}, err
	}
	c.emit(r, DecisionCompleted)
	return c.summarize(r), nil
}

func (c *Coordinator) forecast(r *run) error {
	if err := c.invoke(r, c.forecaster); err != nil {
		return err
	}
	if r.pc.Demand < 0 {
		return invalidf(Forecasting, r.pc.Product, "negative demand %d", r.pc.Demand)
	}
	c.emit(r, DecisionForecasted)
	return nil
}

// stockCheck reports whether the Retailer found a shortage.
func (c *Coordinator) stockCheck(r *run) (bool, error) {
	if err := c.advance(r, StockCheck); err != nil {
		return false, err
	}
	r.pc.Merge(StockCheck, Fragment{RetailStock: Int(c.retailer.OnHand(r.pc.Product))})
	f, err := c.call(r, c.retailer)
	if err != nil {
		return false, err
	}
	if f.Shortage == nil {
		c.emit(r, DecisionSufficient)
		return false, nil
	}
	c.emit(r, DecisionShortage)
	return true, nil
}

func (c *Coordinator) sufficient(r *run) error {
	if err := c.advance(r, Sufficient); err != nil {
		return err
	}
	r.path = model.PathSufficient
	c.emit(r, DecisionSkipReplenishment)
	return nil
}

func (c *Coordinator) escalate(r *run) error {
	if err := c.advance(r, Escalating); err != nil {
		return err
	}
	id := r.pc.Product
	r.pc.Merge(Escalating, Fragment{DistributionStock: Int(c.distributor.OnHand(id))})
	f, err := c.call(r, c.distributor)
	if err != nil {
		return err
	}
	if f.ShippedUnits != nil {
		if err := c.retailer.Receive(id, *f.ShippedUnits); err != nil {
			return err
		}
		r.path = model.PathDistributed
		c.emit(r, DecisionShipped)
		return nil
	}
	c.emit(r, DecisionEscalate)
	return c.supply(r)
}

// supply credits the supplier's units into distribution, then ships the
// original shortage in full to retail.
func (c *Coordinator) supply(r *run) error {
	if err := c.advance(r, SupplierFulfillment); err != nil {
		return err
	}
	if err := c.invoke(r, c.supplier); err != nil {
		return err
	}
	id := r.pc.Product
	if err := c.distributor.RestockAndShip(id, r.pc.SuppliedUnits, r.pc.Shortage); err != nil {
		return &Error{Kind: store.ErrInsufficientStock, Stage: SupplierFulfillment, Product: id, Err: err}
	}
	if err := c.retailer.Receive(id, r.pc.Shortage); err != nil {
		return err
	}
	r.pc.Merge(SupplierFulfillment, Fragment{
		ShippedUnits:      Int(r.pc.Shortage),
		DistributionStock: Int(c.distributor.OnHand(id)),
	})
	r.path = model.PathEscalated
	c.emit(r, DecisionSupplied)
	return nil
}

func (c *Coordinator) reprice(r *run) error {
	if err := c.advance(r, Repricing); err != nil {
		return err
	}
	r.pc.Merge(Repricing, Fragment{RetailStock: Int(c.retailer.OnHand(r.pc.Product))})
	if err := c.invoke(r, c.pricing); err != nil {
		return err
	}
	if r.pc.Discounted {
		c.emit(r, DecisionDiscounted)
	} else {
		c.emit(r, DecisionBasePrice)
	}
	return nil
}

func (c *Coordinator) advance(r *run, to Stage) error {
	if err := transition(r.stage, to); err != nil {
		return &Error{Kind: ErrIllegalTransition, Stage: r.stage, Product: r.pc.Product, Err: err}
	}
	r.stage = to
	return nil
}

// call invokes a participant and merges its fragment, returning it.
func (c *Coordinator) call(r *run, p Participant) (Fragment, error) {
	f, err := p.Participate(r.pc)
	if err != nil {
		return Fragment{}, err
	}
	r.pc.Merge(p.Stage(), f)
	return f, nil
}

func (c *Coordinator) invoke(r *run, p Participant) error {
	_, err := c.call(r, p)
	return err
}

func (c *Coordinator) emit(r *run, decision string) {
	c.observer.Observe(Event{
		RunID:    r.id,
		Product:  r.pc.Product,
		Stage:    r.stage,
		Decision: decision,
		Context:  r.pc,
	})
}

func (c *Coordinator) record(id model.ProductID, sum model.Summary, err error, took time.Duration) {
	if err != nil {
		obs.Logger.Warn("pipeline_rejected", "product_id", id, "kind", KindOf(err), "error", err)
		if c.metrics != nil {
			c.metrics.RunErrors.WithLabelValues(KindOf(err)).Inc()
		}
		return
	}
	obs.Logger.Info("pipeline_completed",
		"run_id", sum.RunID,
		"sequence", sum.Sequence,
		"product_id", sum.ProductID,
		"path", sum.Path,
		"demand", sum.Demand,
		"retail_stock", sum.RetailStock,
		"distribution_stock", sum.DistributionStock,
		"final_price", sum.FinalPrice,
		"latency_ms", float64(took.Microseconds())/1000.0,
	)
	if c.metrics == nil {
		return
	}
	c.metrics.RunsTotal.WithLabelValues(string(sum.Path)).Inc()
	c.metrics.RunDuration.Observe(took.Seconds())
	if sum.ShippedUnits > 0 {
		c.metrics.UnitsShipped.WithLabelValues("distribution").Add(float64(sum.ShippedUnits - sum.SuppliedUnits))
	}
	if sum.SuppliedUnits > 0 {
		c.metrics.UnitsShipped.WithLabelValues("supplier").Add(float64(sum.SuppliedUnits))
	}
}

// summarize reads final stock from the ledger; the run lock is still held.
func (c *Coordinator) summarize(r *run) model.Summary {
	pc := r.pc
	return model.Summary{
		RunID:             r.id,
		Sequence:          r.seq,
		ProductID:         pc.Product,
		Path:              r.path,
		Demand:            pc.Demand,
		Shortage:          pc.Shortage,
		ShippedUnits:      pc.ShippedUnits,
		SuppliedUnits:     pc.SuppliedUnits,
		RetailStock:       c.retailer.OnHand(pc.Product),
		DistributionStock: c.distributor.OnHand(pc.Product),
		BasePrice:         pc.BasePrice,
		FinalPrice:        pc.NewPrice,
	}
}

// Snapshot returns the current state of a product.
func (c *Coordinator) Snapshot(id model.ProductID) (model.Product, bool) {
	base, err := c.pricing.BasePrice(id)
	if err != nil && !c.ledger.Has(id) {
		return model.Product{}, false
	}
	return model.Product{
		ProductID:         id,
		RetailStock:       c.retailer.OnHand(id),
		DistributionStock: c.distributor.OnHand(id),
		BasePrice:         base,
	}, true
}
