package gateway

import "errors"

var (
	// ErrPaymentGateway indicates a network or authentication failure
	// talking to the processor. No plan change is applied on this error.
	ErrPaymentGateway = errors.New("payment gateway error")

	ErrMissingAPIKey      = errors.New("payment gateway API key is required")
	ErrInvalidEnvironment = errors.New("invalid payment gateway environment")
	ErrNoPriceForPlan     = errors.New("no gateway price configured for plan")
	ErrNoOrderID          = errors.New("order ID is required")
	ErrNoCheckoutURL      = errors.New("no checkout URL returned from gateway")
)
