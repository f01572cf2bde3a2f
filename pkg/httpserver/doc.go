// Package httpserver wraps net/http with graceful shutdown, signal
// handling, and env-driven configuration. Run blocks until the context is
// cancelled, an interrupt arrives, or the listener fails; in-flight requests
// get the configured shutdown window to finish.
package httpserver
