package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/store"
)

//go:embed seed.yaml
var defaultSeed []byte

// ProductSeed is the initial state of one product.
type ProductSeed struct {
	RetailStock       int64   `yaml:"retail_stock"`
	DistributionStock int64   `yaml:"distribution_stock"`
	BasePrice         float64 `yaml:"base_price"`
	DemandHistory     []int64 `yaml:"demand_history"`
}

// Seed is the initial ledger, price and demand-history data.
type Seed struct {
	Products map[string]ProductSeed `yaml:"products"`
}

// LoadSeed reads a seed file, or the built-in seed when path is empty.
func LoadSeed(path string) (Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Seed{}, fmt.Errorf("read seed: %w", err)
		}
		data = b
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Seed{}, err
	}
	return s, nil
}

func (s Seed) Validate() error {
	for _, id := range s.ids() {
		p := s.Products[string(id)]
		if p.RetailStock < 0 || p.DistributionStock < 0 {
			return fmt.Errorf("seed %s: stock must be >= 0", id)
		}
		if p.BasePrice <= 0 {
			return fmt.Errorf("seed %s: base_price must be > 0", id)
		}
		for _, d := range p.DemandHistory {
			if d < 0 {
				return fmt.Errorf("seed %s: demand_history must be >= 0", id)
			}
		}
	}
	return nil
}

// Apply loads stock and prices into the ledger and price table.
func (s Seed) Apply(l *store.Ledger, prices *store.PriceTable) error {
	for _, id := range s.ids() {
		p := s.Products[string(id)]
		if err := l.Set(model.Retail, id, p.RetailStock); err != nil {
			return err
		}
		if err := l.Set(model.Distribution, id, p.DistributionStock); err != nil {
			return err
		}
		if err := prices.Set(id, p.BasePrice); err != nil {
			return err
		}
	}
	return nil
}

// Histories returns the demand history keyed by product.
func (s Seed) Histories() map[model.ProductID][]int64 {
	out := make(map[model.ProductID][]int64, len(s.Products))
	for id, p := range s.Products {
		out[model.ProductID(id)] = append([]int64(nil), p.DemandHistory...)
	}
	return out
}

func (s Seed) ids() []model.ProductID {
	ids := make([]model.ProductID, 0, len(s.Products))
	for id := range s.Products {
		ids = append(ids, model.ProductID(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
