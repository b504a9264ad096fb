package pipeline

import (
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/store"
)

const (
	DefaultOverstockFactor = 1.5
	DefaultDiscountRate    = 0.2
)

// PricingPolicy computes a new price and reports whether it applied a
// discount. It must be pure.
type PricingPolicy func(stock, demand int64, base float64) (price float64, discounted bool)

// OverstockDiscount discounts base by rate when stock exceeds
// demand*factor, and keeps base otherwise.
func OverstockDiscount(factor, rate float64) PricingPolicy {
	return func(stock, demand int64, base float64) (float64, bool) {
		if float64(stock) > float64(demand)*factor {
			return base * (1 - rate), true
		}
		return base, false
	}
}

// PricingEngine reprices a product from final stock and demand. It never
// writes the price table.
//
// Reads: RetailStock, Demand, BasePrice. Adds: NewPrice, Discounted.
type PricingEngine struct {
	prices *store.PriceTable
	policy PricingPolicy
}

// NewPricingEngine uses the default overstock discount when policy is nil.
func NewPricingEngine(prices *store.PriceTable, policy PricingPolicy) *PricingEngine {
	if policy == nil {
		policy = OverstockDiscount(DefaultOverstockFactor, DefaultDiscountRate)
	}
	return &PricingEngine{prices: prices, policy: policy}
}

func (p *PricingEngine) Stage() Stage { return Repricing }

// BasePrice looks up the base price; a missing entry is a configuration error.
func (p *PricingEngine) BasePrice(id model.ProductID) (float64, error) {
	base, ok := p.prices.Get(id)
	if !ok {
		return 0, configErrorf(Repricing, id, "no base price")
	}
	return base, nil
}

func (p *PricingEngine) Price(stock, demand int64, base float64) (float64, bool) {
	return p.policy(stock, demand, base)
}

func (p *PricingEngine) Participate(c Context) (Fragment, error) {
	base := c.BasePrice
	if base <= 0 {
		var err error
		if base, err = p.BasePrice(c.Product); err != nil {
			return Fragment{}, err
		}
	}
	price, discounted := p.Price(c.RetailStock, c.Demand, base)
	return Fragment{NewPrice: Float(price), Discounted: Bool(discounted)}, nil
}
