// Package redis provides Redis connectivity for the metering service: a
// retrying Connect, an env-tagged Config, and a health-check closure. Redis
// backs the per-user flood limiter in front of quota consumption; the quota
// records themselves live in Postgres.
package redis
