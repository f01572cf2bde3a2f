package quota

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/meterkit/pkg/plan"
)

// UserQuota is the per-user metering record. UserID is the stable
// chat-platform identifier and serves as the primary key.
//
// Invariants maintained by the Store:
//   - MessagesLeft is never negative, even under concurrent consumption.
//   - Plan == free implies ExpiresAt == nil.
//   - A paid plan always carries the expiry set at the moment it was applied.
type UserQuota struct {
	UserID       int64
	MessagesLeft int
	Plan         plan.ID
	ExpiresAt    *time.Time
}

// IsExpiredAt reports whether the record's paid plan has lapsed at the given
// moment. Records without an expiry (free tier) never expire.
func (u *UserQuota) IsExpiredAt(now time.Time) bool {
	return u.ExpiresAt != nil && u.ExpiresAt.Before(now)
}

// PaymentStatus is the recorded outcome of a gateway capture attempt.
type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "created"
	PaymentCaptured PaymentStatus = "captured"
	PaymentFailed   PaymentStatus = "failed"
)

// PaymentRecord is the append-only audit row written once per gateway
// capture attempt. OrderID is unique: the conditional insert on it is what
// makes plan application idempotent per captured order.
type PaymentRecord struct {
	ID        uuid.UUID
	OrderID   string
	UserID    int64
	Amount    int64
	Plan      plan.ID
	Status    PaymentStatus
	CreatedAt time.Time
}
