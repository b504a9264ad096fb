package pipeline

import "fmt"

// Stage is a state of the pipeline state machine.
type Stage string

const (
	Forecasting         Stage = "forecasting"
	StockCheck          Stage = "stock_check"
	Sufficient          Stage = "sufficient"
	Escalating          Stage = "escalating"
	SupplierFulfillment Stage = "supplier_fulfillment"
	Repricing           Stage = "repricing"
	Done                Stage = "done"
)

func isAllowedTransition(from, to Stage) bool {
	switch from {
	case Forecasting:
		return to == StockCheck
	case StockCheck:
		return to == Sufficient || to == Escalating
	case Sufficient:
		return to == Repricing
	case Escalating:
		return to == Repricing || to == SupplierFulfillment
	case SupplierFulfillment:
		return to == Repricing
	case Repricing:
		return to == Done
	default:
		return false
	}
}

// transition validates a move between stages.
func transition(from, to Stage) error {
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}
	return nil
}
