package plan

import (
	"time"
)

// ID identifies a subscription plan.
type ID string

const (
	Free  ID = "free"
	Try   ID = "try"
	Basic ID = "basic"
	Pro   ID = "pro"
)

// Money represents a monetary amount in the smallest currency unit.
// For example, $4.99 USD would be Amount: 499, Currency: "USD".
type Money struct {
	Amount   int64  // Amount in smallest currency unit (cents for USD)
	Currency string // ISO 4217 currency code
}

// Plan describes a purchasable tier: how many messages it grants and for how
// long. ValidityDays of zero means the plan never expires (free tier only).
type Plan struct {
	ID               ID
	Name             string
	MessageAllowance int
	ValidityDays     int
	Price            Money
}

// ExpiresAt returns the expiry timestamp for a plan applied at the given
// moment, or nil for plans without a validity window.
func (p Plan) ExpiresAt(appliedAt time.Time) *time.Time {
	if p.ValidityDays <= 0 {
		return nil
	}
	t := appliedAt.AddDate(0, 0, p.ValidityDays).UTC()
	return &t
}

// IsFree reports whether the plan is the non-expiring free tier.
func (p Plan) IsFree() bool {
	return p.ID == Free
}

// DefaultFreeAllowance is the message allowance granted to a user on first
// contact before any purchase.
const DefaultFreeAllowance = 10

// DefaultPlans returns the standard plan set.
func DefaultPlans() []Plan {
	return []Plan{
		{ID: Free, Name: "Free", MessageAllowance: DefaultFreeAllowance, ValidityDays: 0},
		{ID: Try, Name: "Try", MessageAllowance: 15, ValidityDays: 1, Price: Money{Amount: 99, Currency: "USD"}},
		{ID: Basic, Name: "Basic", MessageAllowance: 300, ValidityDays: 30, Price: Money{Amount: 499, Currency: "USD"}},
		{ID: Pro, Name: "Pro", MessageAllowance: 99999, ValidityDays: 365, Price: Money{Amount: 1999, Currency: "USD"}},
	}
}
