package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the chat-platform user identifier under the key "user_id".
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}

// OrderID records a payment gateway order identifier under the key
// "order_id". Returns an empty Attr for empty IDs.
func OrderID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("order_id", id)
}

// Plan records a plan identifier under the key "plan".
func Plan(id string) slog.Attr {
	return slog.String("plan", id)
}
