// Package quota implements the usage metering and subscription lifecycle
// engine: per-user message quota records, atomic consumption, plan
// application on captured payments, and time-based expiry back to the free
// tier.
//
// The correctness core is the Store contract: every mutating operation is a
// single atomic statement. Consumption in particular is a conditional
// decrement that can never drive the counter negative, no matter how many
// concurrent callers hit the same user. The engine layered on top
// (Service) adds the lifecycle rules: expiry is checked before every
// consumption, and a captured payment applies its plan at most once per
// gateway order.
//
// Two Store implementations are provided: a Postgres store built on pgx
// where atomicity comes from single-statement conditional writes, and an
// in-memory store for tests and embedded use.
package quota
