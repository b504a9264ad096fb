package pipeline

import (
	"errors"
	"fmt"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/store"
)

// Distributor ships retail shortages from distribution stock or escalates the
// remainder to the Supplier.
//
// Reads: Shortage, DistributionStock. Adds: exactly one of ShippedUnits or
// SupplierRequest.
type Distributor struct {
	stock *store.Handle
}

func NewDistributor(stock *store.Handle) *Distributor {
	return &Distributor{stock: stock}
}

func (d *Distributor) Stage() Stage { return Escalating }

// FulfillOrRequest ships requested units when available covers them,
// deducting from distribution stock. Otherwise it leaves stock untouched and
// asks for the difference.
func (d *Distributor) FulfillOrRequest(id model.ProductID, requested, available int64) (Fragment, error) {
	if available >= requested {
		if err := d.stock.Deduct(id, requested); err != nil {
			return Fragment{}, &Error{Kind: store.ErrInsufficientStock, Stage: Escalating, Product: id, Err: err}
		}
		return Fragment{ShippedUnits: Int(requested)}, nil
	}
	return Fragment{SupplierRequest: Int(requested - available)}, nil
}

func (d *Distributor) Participate(c Context) (Fragment, error) {
	return d.FulfillOrRequest(c.Product, c.Shortage, c.DistributionStock)
}

func (d *Distributor) OnHand(id model.ProductID) int64 { return d.stock.OnHand(id) }

// Restock credits units received from the Supplier.
func (d *Distributor) Restock(id model.ProductID, units int64) error {
	return d.stock.Credit(id, units)
}

// Ship deducts units leaving for retail; it fails without mutating when stock
// does not cover them.
func (d *Distributor) Ship(id model.ProductID, units int64) error {
	return d.stock.Deduct(id, units)
}

// RestockAndShip credits supplied units and then ships units. It checks that
// on-hand plus supplied covers units before touching stock, and withdraws
// the credit again if the shipment is refused.
func (d *Distributor) RestockAndShip(id model.ProductID, supplied, units int64) error {
	if have := d.stock.OnHand(id); have+supplied < units {
		return fmt.Errorf("%w: %s has %d plus %d supplied, need %d",
			store.ErrInsufficientStock, id, have, supplied, units)
	}
	if err := d.Restock(id, supplied); err != nil {
		return err
	}
	if err := d.Ship(id, units); err != nil {
		if rerr := d.stock.Deduct(id, supplied); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}
