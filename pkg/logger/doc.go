// Package logger builds configured slog loggers with functional options:
// JSON or text output, level control, static service attributes, and
// environment presets. It also carries the small attribute helpers the
// service logs with (Error, UserID, OrderID, Plan).
//
// Usage:
//
//	log := logger.New(
//		logger.WithProduction("meterd"),
//	)
//	logger.SetAsDefault(log)
package logger
