package pipeline

// Participant is one actor of the chain. It reads the Context and returns the
// fields it adds; the Coordinator merges them.
type Participant interface {
	Stage() Stage
	Participate(c Context) (Fragment, error)
}

var (
	_ Participant = (*Forecaster)(nil)
	_ Participant = (*Retailer)(nil)
	_ Participant = (*Distributor)(nil)
	_ Participant = (*Supplier)(nil)
	_ Participant = (*PricingEngine)(nil)
)
