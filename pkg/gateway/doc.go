// Package gateway wraps the third-party payment processor behind a minimal
// order-based client: create an order for a plan, then capture it. The
// metering engine only ever asks one question of this package — "was this
// order captured?" — before applying a plan.
//
// Network and authentication failures surface as ErrPaymentGateway. The
// client never retries internally; retry policy belongs to the transport
// layer that triggered the call.
package gateway
