// Package plan defines the subscription plan catalog for the metering engine.
//
// A plan maps a stable identifier to a message allowance and a validity
// window. The catalog is loaded once from a Source and is immutable
// afterwards, so lookups are safe for concurrent use without locking.
//
// Unknown plan identifiers resolve to the free tier's terms rather than
// failing: the engine treats a bad identifier as a defensive downgrade and
// reports it via ErrUnknownPlan so callers can log the anomaly.
//
// Usage:
//
//	catalog, err := plan.NewCatalog(ctx, plan.NewInMemSource(plan.DefaultPlans()...))
//	if err != nil {
//		// handle error
//	}
//
//	p, err := catalog.Resolve("basic")
//	// p.MessageAllowance == 300, p.ValidityDays == 30
package plan
