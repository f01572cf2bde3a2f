package meter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FloodConfig controls the per-user message-rate cap.
type FloodConfig struct {
	Limit  int           `env:"FLOOD_LIMIT" envDefault:"20"`     // Limit is the number of messages allowed per window.
	Window time.Duration `env:"FLOOD_WINDOW" envDefault:"1m"`    // Window is the fixed window length.
	Prefix string        `env:"FLOOD_PREFIX" envDefault:"flood"` // Prefix namespaces the limiter keys in Redis.
}

var ErrFloodLimiter = errors.New("flood limiter unavailable")

// FloodLimiter is a fixed-window per-user rate limiter on Redis. INCR plus
// EXPIRE-on-first-hit keeps the check a single round trip; the window
// resets when the key expires.
type FloodLimiter struct {
	client redis.UniversalClient
	cfg    FloodConfig
}

// NewFloodLimiter creates a limiter over the given Redis client.
func NewFloodLimiter(client redis.UniversalClient, cfg FloodConfig) *FloodLimiter {
	if client == nil {
		panic("meter: redis client is required")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "flood"
	}
	return &FloodLimiter{client: client, cfg: cfg}
}

// Allow reports whether the user may send another message in the current
// window. Counting happens before the quota decrement, so a flood-denied
// message never consumes allowance.
func (f *FloodLimiter) Allow(ctx context.Context, userID int64) (bool, error) {
	key := fmt.Sprintf("%s:%d", f.cfg.Prefix, userID)

	pipe := f.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, f.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Join(ErrFloodLimiter, err)
	}

	return incr.Val() <= int64(f.cfg.Limit), nil
}
