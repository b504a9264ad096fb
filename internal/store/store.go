// Package store holds the in-memory inventory ledger and price table.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/model"
)

var (
	ErrNegativeQuantity  = errors.New("negative quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type row struct {
	loc     model.Location
	product model.ProductID
}

// Ledger owns stock counts per (location, product).
//
// Quantities never go negative: Deduct validates availability before it
// mutates. Runs for the same product serialize through Lock; different
// products touch disjoint rows.
type Ledger struct {
	mu sync.RWMutex
	m  map[row]int64

	locksMu sync.Mutex
	locks   map[model.ProductID]*runLock
}

// runLock is dropped from the map once its last holder or waiter leaves.
type runLock struct {
	mu   sync.Mutex
	refs int
}

func NewLedger() *Ledger {
	return &Ledger{
		m:     make(map[row]int64),
		locks: make(map[model.ProductID]*runLock),
	}
}

// Set overwrites the quantity of a row. Used for seeding.
func (l *Ledger) Set(loc model.Location, id model.ProductID, qty int64) error {
	if qty < 0 {
		return fmt.Errorf("%w: %s/%s = %d", ErrNegativeQuantity, loc, id, qty)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[row{loc, id}] = qty
	return nil
}

// Get returns the on-hand quantity; unknown rows read as zero.
func (l *Ledger) Get(loc model.Location, id model.ProductID) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m[row{loc, id}]
}

// Has reports whether any location carries a row for the product.
func (l *Ledger) Has(id model.ProductID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, loc := range model.Locations {
		if _, ok := l.m[row{loc, id}]; ok {
			return true
		}
	}
	return false
}

func (l *Ledger) Credit(loc model.Location, id model.ProductID, units int64) error {
	if units < 0 {
		return fmt.Errorf("%w: credit %d to %s/%s", ErrNegativeQuantity, units, loc, id)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[row{loc, id}] += units
	return nil
}

func (l *Ledger) Deduct(loc model.Location, id model.ProductID, units int64) error {
	if units < 0 {
		return fmt.Errorf("%w: deduct %d from %s/%s", ErrNegativeQuantity, units, loc, id)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	r := row{loc, id}
	if have := l.m[r]; have < units {
		return fmt.Errorf("%w: %s/%s has %d, need %d", ErrInsufficientStock, loc, id, have, units)
	}
	l.m[r] -= units
	return nil
}

// Lock acquires the run lock for a product and returns its release func.
func (l *Ledger) Lock(id model.ProductID) (unlock func()) {
	l.locksMu.Lock()
	rl, ok := l.locks[id]
	if !ok {
		rl = &runLock{}
		l.locks[id] = rl
	}
	rl.refs++
	l.locksMu.Unlock()

	rl.mu.Lock()
	return func() {
		rl.mu.Unlock()
		l.locksMu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.locks, id)
		}
		l.locksMu.Unlock()
	}
}

// ActiveLocks returns the number of products with a run holding or waiting
// on its lock.
func (l *Ledger) ActiveLocks() int {
	l.locksMu.Lock()
	defer l.locksMu.Unlock()
	return len(l.locks)
}

// Handle returns a view of the ledger restricted to one location.
func (l *Ledger) Handle(loc model.Location) *Handle {
	return &Handle{l: l, loc: loc}
}

// Handle grants read and mutate rights on a single location.
type Handle struct {
	l   *Ledger
	loc model.Location
}

func (h *Handle) Location() model.Location { return h.loc }

func (h *Handle) OnHand(id model.ProductID) int64 { return h.l.Get(h.loc, id) }

func (h *Handle) Credit(id model.ProductID, units int64) error {
	return h.l.Credit(h.loc, id, units)
}

func (h *Handle) Deduct(id model.ProductID, units int64) error {
	return h.l.Deduct(h.loc, id, units)
}
