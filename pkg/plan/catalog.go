package plan

import (
	"context"
	"errors"
	"fmt"
)

// Catalog is an immutable plan lookup table.
// The plans map is never modified after construction, so Catalog is safe for
// concurrent use.
type Catalog struct {
	plans map[ID]Plan
}

// NewCatalog loads plans from the source and validates them.
// The catalog must contain the free plan: it is the fallback for unknown
// identifiers and the target of expiry resets.
func NewCatalog(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		panic("plan: Source is required")
	}

	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if len(plans) == 0 {
		return nil, ErrNoPlans
	}
	if _, ok := plans[Free]; !ok {
		return nil, ErrNoFreePlan
	}

	for id, p := range plans {
		if p.ID != id {
			return nil, errors.Join(ErrInvalidPlanConfig,
				fmt.Errorf("plan ID mismatch: map key %s != plan.ID %s", id, p.ID))
		}
		if p.MessageAllowance < 0 {
			return nil, errors.Join(ErrInvalidPlanConfig,
				fmt.Errorf("plan %s has negative message allowance: %d", id, p.MessageAllowance))
		}
		if p.ValidityDays < 0 {
			return nil, errors.Join(ErrInvalidPlanConfig,
				fmt.Errorf("plan %s has negative validity days: %d", id, p.ValidityDays))
		}
		if id == Free && p.ValidityDays != 0 {
			return nil, errors.Join(ErrInvalidPlanConfig,
				fmt.Errorf("free plan must not expire, got validity of %d days", p.ValidityDays))
		}
	}

	return &Catalog{plans: plans}, nil
}

// Resolve returns the plan for the given identifier. Unknown identifiers
// resolve to the free plan's terms together with ErrUnknownPlan; the caller
// decides whether to treat the downgrade as fatal or just log it.
func (c *Catalog) Resolve(id ID) (Plan, error) {
	if p, ok := c.plans[id]; ok {
		return p, nil
	}
	return c.plans[Free], fmt.Errorf("%w: %s", ErrUnknownPlan, id)
}

// Free returns the free plan's terms.
func (c *Catalog) Free() Plan {
	return c.plans[Free]
}

// Has reports whether the identifier names a known plan.
func (c *Catalog) Has(id ID) bool {
	_, ok := c.plans[id]
	return ok
}
