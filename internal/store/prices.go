package store

import (
	"fmt"
	"sync"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
)

// PriceTable maps products to their base price.
type PriceTable struct {
	mu sync.RWMutex
	m  map[model.ProductID]float64
}

func NewPriceTable() *PriceTable {
	return &PriceTable{m: make(map[model.ProductID]float64)}
}

// Set stores a base price; it must be positive.
func (p *PriceTable) Set(id model.ProductID, price float64) error {
	if price <= 0 {
		return fmt.Errorf("base price for %s must be > 0, got %v", id, price)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[id] = price
	return nil
}

func (p *PriceTable) Get(id model.ProductID) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.m[id]
	return v, ok
}

// Products returns the ids with a price entry.
func (p *PriceTable) Products() []model.ProductID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.ProductID, 0, len(p.m))
	for id := range p.m {
		out = append(out, id)
	}
	return out
}
