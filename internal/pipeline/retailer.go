package pipeline

import (
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/store"
)

// Retailer checks on-hand retail stock against demand and receives goods.
//
// Reads: Demand, RetailStock. Adds: Shortage, only when short.
type Retailer struct {
	stock *store.Handle
}

func NewRetailer(stock *store.Handle) *Retailer {
	return &Retailer{stock: stock}
}

func (r *Retailer) Stage() Stage { return StockCheck }

// CheckStock returns the unmet demand. Non-positive demand is never short.
func (r *Retailer) CheckStock(demand, current int64) (shortage int64, short bool) {
	if demand <= 0 || current >= demand {
		return 0, false
	}
	return demand - current, true
}

func (r *Retailer) Participate(c Context) (Fragment, error) {
	shortage, short := r.CheckStock(c.Demand, c.RetailStock)
	if !short {
		return Fragment{}, nil
	}
	return Fragment{Shortage: Int(shortage)}, nil
}

func (r *Retailer) OnHand(id model.ProductID) int64 { return r.stock.OnHand(id) }

// Receive credits delivered units to retail stock.
func (r *Retailer) Receive(id model.ProductID, units int64) error {
	return r.stock.Credit(id, units)
}
