// Package meter exposes the metering engine to the bot frontend over HTTP.
// The chat transport itself lives elsewhere; it calls these endpoints on
// every inbound message and on every payment-capture notification.
//
// Routes:
//
//	POST /v1/events/message      {"user_id": 42}                  -> {"allowed": true}
//	POST /v1/webhooks/payment    {"user_id": 42, "plan": "basic", "order_id": "txn_..."} -> 204
//	GET  /v1/users/{id}/status                                    -> {"messages_left": 300, ...}
//
// A Redis-backed flood limiter caps per-user message rate in front of quota
// consumption. Flood limiting is transport hygiene, not metering: it bounds
// messages per window, while the quota engine bounds the total allowance. A
// flood-limited message is denied without consuming quota.
package meter
