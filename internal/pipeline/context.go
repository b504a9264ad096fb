package pipeline

import "github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"

// Context is the state threaded through a run. Fields a stage has not
// written yet read as zero.
type Context struct {
	Product model.ProductID
	// Stage is the stage whose fragment was merged last.
	Stage Stage
	// Version counts merged fragments.
	Version int

	Demand            int64
	RetailStock       int64
	Shortage          int64
	DistributionStock int64
	ShippedUnits      int64
	SupplierRequest   int64
	SuppliedUnits     int64
	BasePrice         float64
	NewPrice          float64
	Discounted        bool
}

// NewContext returns the initial Context of a run.
func NewContext(id model.ProductID) Context {
	return Context{Product: id, Stage: Forecasting}
}

// Fragment is the output of one stage. Nil fields were not emitted.
type Fragment struct {
	Demand            *int64
	RetailStock       *int64
	Shortage          *int64
	DistributionStock *int64
	ShippedUnits      *int64
	SupplierRequest   *int64
	SuppliedUnits     *int64
	BasePrice         *float64
	NewPrice          *float64
	Discounted        *bool
}

// Empty reports whether the fragment carries no fields.
func (f Fragment) Empty() bool {
	return f == Fragment{}
}

// Merge applies the non-nil fields of f on behalf of stage.
func (c *Context) Merge(stage Stage, f Fragment) {
	mergeInt(&c.Demand, f.Demand)
	mergeInt(&c.RetailStock, f.RetailStock)
	mergeInt(&c.Shortage, f.Shortage)
	mergeInt(&c.DistributionStock, f.DistributionStock)
	mergeInt(&c.ShippedUnits, f.ShippedUnits)
	mergeInt(&c.SupplierRequest, f.SupplierRequest)
	mergeInt(&c.SuppliedUnits, f.SuppliedUnits)
	if f.BasePrice != nil {
		c.BasePrice = *f.BasePrice
	}
	if f.NewPrice != nil {
		c.NewPrice = *f.NewPrice
	}
	if f.Discounted != nil {
		c.Discounted = *f.Discounted
	}
	c.Stage = stage
	c.Version++
}

func mergeInt(dst *int64, v *int64) {
	if v != nil {
		*dst = *v
	}
}

// Int returns a pointer to v for building fragments.
func Int(v int64) *int64 { return &v }

// Float returns a pointer to v for building fragments.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v for building fragments.
func Bool(v bool) *bool { return &v }
