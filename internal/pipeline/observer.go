package pipeline

import (
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/obs"
)

// Decisions recorded on stage events.
const (
	DecisionForecasted        = "forecasted"
	DecisionShortage          = "shortage"
	DecisionSufficient        = "sufficient"
	DecisionSkipReplenishment = "skip_replenishment"
	DecisionShipped           = "shipped"
	DecisionEscalate          = "escalate"
	DecisionSupplied          = "supplied"
	DecisionDiscounted        = "discounted"
	DecisionBasePrice         = "base_price"
	DecisionCompleted         = "completed"
)

// Event describes one stage transition and the Context it produced.
type Event struct {
	RunID    string
	Product  model.ProductID
	Stage    Stage
	Decision string
	Context  Context
}

// Observer receives stage events synchronously, in run order.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans an event out to each observer in order.
type Observers []Observer

func (list Observers) Observe(e Event) {
	for _, o := range list {
		if o != nil {
			o.Observe(e)
		}
	}
}

// LogObserver writes each event to obs.Logger at debug level.
type LogObserver struct{}

func (LogObserver) Observe(e Event) {
	c := e.Context
	obs.Logger.Debug("pipeline_stage",
		"run_id", e.RunID,
		"product_id", e.Product,
		"stage", e.Stage,
		"decision", e.Decision,
		"demand", c.Demand,
		"retail_stock", c.RetailStock,
		"shortage", c.Shortage,
		"distribution_stock", c.DistributionStock,
		"shipped_units", c.ShippedUnits,
		"supplier_request", c.SupplierRequest,
		"supplied_units", c.SuppliedUnits,
		"new_price", c.NewPrice,
	)
}

// MetricsObserver counts stage transitions.
type MetricsObserver struct {
	Metrics *obs.Metrics
}

func (m MetricsObserver) Observe(e Event) {
	if m.Metrics == nil {
		return
	}
	m.Metrics.StageTransitions.WithLabelValues(string(e.Stage), e.Decision).Inc()
}
