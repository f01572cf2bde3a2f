package plan

import "errors"

var (
	// ErrUnknownPlan reports a plan identifier that is not in the catalog.
	// Resolve still returns usable free-tier terms alongside this error.
	ErrUnknownPlan = errors.New("unknown plan identifier")

	ErrNoPlans                 = errors.New("at least one plan is required")
	ErrNoFreePlan              = errors.New("catalog must contain the free plan")
	ErrInvalidPlanConfig       = errors.New("invalid plan configuration")
	ErrFailedToLoadPlans       = errors.New("failed to load plans")
	ErrDuplicatePlanDefinition = errors.New("duplicate plan definition")
)
