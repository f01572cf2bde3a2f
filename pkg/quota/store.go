package quota

import (
	"context"
	"time"

	"github.com/dmitrymomot/meterkit/pkg/plan"
)

// Store defines the persistence contract for quota records and payment
// audit rows. Every mutating method must execute as a single atomic
// statement: operations on the same user arrive concurrently and in no
// particular order, so read-modify-write sequences are not allowed.
//
// Any method that cannot reach durable storage returns an error wrapping
// ErrStorageUnavailable and leaves no field partially updated.
type Store interface {
	// GetOrCreate returns the user's record, lazily inserting the free-tier
	// default on first contact. Creation is conditional on absence:
	// concurrent first contact for the same user yields exactly one record.
	GetOrCreate(ctx context.Context, userID int64) (*UserQuota, error)

	// Get returns the user's record or ErrUserNotFound.
	Get(ctx context.Context, userID int64) (*UserQuota, error)

	// TryConsumeOne decrements MessagesLeft by one only if it is positive,
	// as one conditional write. Returns whether the decrement happened.
	TryConsumeOne(ctx context.Context, userID int64) (bool, error)

	// ApplyPlan overwrites the user's allowance, plan, and expiry,
	// superseding any prior plan state including partially consumed
	// allowance. A nil expiresAt means the plan never lapses.
	ApplyPlan(ctx context.Context, userID int64, planID plan.ID, messages int, expiresAt *time.Time) error

	// ResetToFree returns an expired user to the free tier with zero
	// allowance and no expiry. Used only by the expiry sweep.
	ResetToFree(ctx context.Context, userID int64) error

	// GetExpiry returns the user's expiry timestamp, nil when the current
	// plan has none, or ErrUserNotFound.
	GetExpiry(ctx context.Context, userID int64) (*time.Time, error)

	// RecordPayment appends the payment row unless one already exists for
	// the same OrderID. Returns true when the row was written, false when
	// the order was seen before; callers must skip plan application on
	// false.
	RecordPayment(ctx context.Context, rec PaymentRecord) (bool, error)
}
