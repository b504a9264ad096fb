// Package sim assembles a simulator from configuration.
package sim

import (
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/config"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/obs"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/pipeline"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/store"
)

// Simulator bundles the seeded state and the coordinator that owns it.
type Simulator struct {
	Ledger      *store.Ledger
	Prices      *store.PriceTable
	Coordinator *pipeline.Coordinator
	Metrics     *obs.Metrics
}

// New loads the seed named by cfg and wires a Coordinator over it.
func New(cfg config.Config) (*Simulator, error) {
	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	l := store.NewLedger()
	prices := store.NewPriceTable()
	if err := seed.Apply(l, prices); err != nil {
		return nil, err
	}
	m := obs.NewMetrics()
	forecast := pipeline.Jittered(pipeline.MovingAverage(cfg.ForecastWindow), cfg.ForecastJitter, cfg.ForecastSeed)
	coord := pipeline.NewCoordinator(l, prices, pipeline.Options{
		Histories:     seed.Histories(),
		Forecast:      forecast,
		StrictHistory: cfg.ForecastStrict,
		Pricing:       pipeline.OverstockDiscount(cfg.OverstockFactor, cfg.DiscountRate),
		Metrics:       m,
	})
	return &Simulator{Ledger: l, Prices: prices, Coordinator: coord, Metrics: m}, nil
}
