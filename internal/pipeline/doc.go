// Package pipeline runs the supply-chain decision pipeline for one product.
//
// A run threads a Context through five participants:
//
//	Forecaster -> Retailer -> [shortage] Distributor -> [still short] Supplier -> PricingEngine
//
// The Coordinator owns the inventory ledger, hands location-scoped handles to
// the Retailer and Distributor, merges each participant's Fragment into the
// Context, and applies the stock movements each branch implies.
//
// Stock conservation on the escalation path: the Distributor first restocks
// the supplier's units, then ships the original shortage in full, so retail
// receives exactly the shortage, sourced from existing distribution stock plus
// the supplied units.
package pipeline
