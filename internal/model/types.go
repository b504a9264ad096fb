// Package model defines domain types used by the simulator.
package model

// ProductID is an opaque product key.
type ProductID string

// Location identifies a stock-holding tier of the chain.
type Location string

const (
	Retail       Location = "retail"
	Distribution Location = "distribution"
)

// Locations lists every location the ledger tracks.
var Locations = []Location{Retail, Distribution}

// Path names the branch a pipeline run took.
type Path string

const (
	PathSufficient  Path = "sufficient"
	PathDistributed Path = "distributed"
	PathEscalated   Path = "escalated"
)

// Product represents the current state of a product across the chain.
type Product struct {
	ProductID         ProductID `json:"product_id"`
	RetailStock       int64     `json:"retail_stock"`
	DistributionStock int64     `json:"distribution_stock"`
	BasePrice         float64   `json:"base_price"`
}

// Summary is the result of a single pipeline run.
type Summary struct {
	RunID             string    `json:"run_id"`
	Sequence          uint64    `json:"sequence"`
	ProductID         ProductID `json:"product_id"`
	Path              Path      `json:"path"`
	Demand            int64     `json:"demand"`
	Shortage          int64     `json:"shortage"`
	ShippedUnits      int64     `json:"shipped_units"`
	SuppliedUnits     int64     `json:"supplied_units"`
	RetailStock       int64     `json:"retail_stock"`
	DistributionStock int64     `json:"distribution_stock"`
	BasePrice         float64   `json:"base_price"`
	FinalPrice        float64   `json:"final_price"`
}

// RunRequest is the body accepted by the run endpoint.
type RunRequest struct {
	ProductID ProductID `json:"product_id"`
}
