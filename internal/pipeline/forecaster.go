package pipeline

import "github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"

// Forecaster estimates demand from per-product history.
//
// Reads: Product. Adds: Demand.
type Forecaster struct {
	history  map[model.ProductID][]int64
	strategy ForecastFunc
	strict   bool
}

// NewForecaster copies history. A nil strategy selects MovingAverage(3).
// With strict set, products without history are rejected by the Coordinator
// instead of forecasting from an empty history.
func NewForecaster(history map[model.ProductID][]int64, strategy ForecastFunc, strict bool) *Forecaster {
	if strategy == nil {
		strategy = MovingAverage(3)
	}
	h := make(map[model.ProductID][]int64, len(history))
	for id, v := range history {
		h[id] = append([]int64(nil), v...)
	}
	return &Forecaster{history: h, strategy: strategy, strict: strict}
}

func (f *Forecaster) Stage() Stage { return Forecasting }

// Known reports whether the product has demand history.
func (f *Forecaster) Known(id model.ProductID) bool {
	_, ok := f.history[id]
	return ok
}

// Strict reports whether unknown products are rejected.
func (f *Forecaster) Strict() bool { return f.strict }

// Forecast never fails; unknown products forecast from an empty history.
func (f *Forecaster) Forecast(id model.ProductID) int64 {
	return f.strategy(f.history[id])
}

func (f *Forecaster) Participate(c Context) (Fragment, error) {
	return Fragment{Demand: Int(f.Forecast(c.Product))}, nil
}
