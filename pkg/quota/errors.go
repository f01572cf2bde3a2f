package quota

import "errors"

var (
	// ErrStorageUnavailable indicates the record store could not be reached
	// or the statement failed. No partial mutation has been applied; the
	// caller may retry the whole event.
	ErrStorageUnavailable = errors.New("quota storage unavailable")

	// ErrPaymentNotCaptured indicates the gateway reported a non-captured
	// order status, so no plan was applied.
	ErrPaymentNotCaptured = errors.New("payment not captured")

	ErrUserNotFound = errors.New("user quota record not found")
)
