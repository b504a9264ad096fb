package pipeline

// Supplier is the unconstrained upstream source. It always grants the full
// request.
//
// Reads: SupplierRequest. Adds: SuppliedUnits.
type Supplier struct{}

func NewSupplier() *Supplier { return &Supplier{} }

func (s *Supplier) Stage() Stage { return SupplierFulfillment }

func (s *Supplier) Supply(requested int64) int64 { return requested }

func (s *Supplier) Participate(c Context) (Fragment, error) {
	return Fragment{SuppliedUnits: Int(s.Supply(c.SupplierRequest))}, nil
}
