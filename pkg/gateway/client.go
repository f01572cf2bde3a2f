package gateway

import (
	"context"

	"github.com/dmitrymomot/meterkit/pkg/plan"
)

// Status is the capture state of an order as reported by the processor.
type Status string

const (
	StatusCaptured Status = "captured"
	StatusFailed   Status = "failed"
	StatusPending  Status = "pending"
)

// Order is a created (not yet captured) order at the processor.
type Order struct {
	ID          string // processor's order/transaction identifier
	CheckoutURL string // hosted checkout the user completes payment at
}

// Client is the contract the metering engine consumes. Implementations wrap
// a specific processor's SDK; the engine treats any status other than
// StatusCaptured as "do not apply the plan".
type Client interface {
	// CreateOrder registers a purchase intent for the given plan and
	// returns the processor's order handle.
	CreateOrder(ctx context.Context, amount plan.Money, planID plan.ID) (*Order, error)

	// CaptureOrder returns the order's capture status. It must be safe to
	// call repeatedly for the same order.
	CaptureOrder(ctx context.Context, orderID string) (Status, error)
}
