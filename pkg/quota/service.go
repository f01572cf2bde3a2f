package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/meterkit/pkg/gateway"
	"github.com/dmitrymomot/meterkit/pkg/logger"
	"github.com/dmitrymomot/meterkit/pkg/plan"
)

// Service is the subscription lifecycle engine consumed by the transport
// layer. ConsumeMessage is the sole admission gate: it must be called
// exactly once per inbound message that counts against quota.
type Service interface {
	// ConsumeMessage runs the expiry sweep, then atomically consumes one
	// message. Returns false when the user's quota is exhausted.
	ConsumeMessage(ctx context.Context, userID int64) (bool, error)

	// Purchase confirms the order was captured at the gateway and applies
	// the plan's allowance and expiry. Idempotent per orderID: a replayed
	// capture notification does not re-grant allowance.
	Purchase(ctx context.Context, userID int64, planID plan.ID, orderID string) error

	// CheckExpired resets the user to the free tier when a paid plan has
	// lapsed. Idempotent; a free-tier user is never touched.
	CheckExpired(ctx context.Context, userID int64) error

	// GetStatus returns the user's current record for display, creating
	// the free-tier default on first contact.
	GetStatus(ctx context.Context, userID int64) (*UserQuota, error)
}

type service struct {
	catalog *plan.Catalog
	store   Store
	gateway gateway.Client
	log     *slog.Logger
	now     func() time.Time
}

// ServiceOption configures optional engine settings.
type ServiceOption func(*service)

// WithLogger supplies a structured logger. Without it the engine logs to
// slog's default logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests that exercise
// expiry behavior with fixed timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the engine. Panics on nil dependencies to fail fast
// during initialization instead of on the first user event.
func NewService(catalog *plan.Catalog, store Store, gw gateway.Client, opts ...ServiceOption) Service {
	if catalog == nil {
		panic("quota: plan catalog is required")
	}
	if store == nil {
		panic("quota: store is required")
	}
	if gw == nil {
		panic("quota: gateway client is required")
	}

	s := &service{
		catalog: catalog,
		store:   store,
		gateway: gw,
		log:     slog.Default(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ConsumeMessage(ctx context.Context, userID int64) (bool, error) {
	// First contact creates the free-tier record; the expiry sweep runs
	// before every consumption so a lapsed paid plan never grants access.
	if _, err := s.store.GetOrCreate(ctx, userID); err != nil {
		return false, err
	}
	if err := s.CheckExpired(ctx, userID); err != nil {
		return false, err
	}

	allowed, err := s.store.TryConsumeOne(ctx, userID)
	if err != nil {
		return false, err
	}
	if !allowed {
		s.log.DebugContext(ctx, "message denied, quota exhausted", logger.UserID(userID))
	}
	return allowed, nil
}

func (s *service) Purchase(ctx context.Context, userID int64, planID plan.ID, orderID string) error {
	if orderID == "" {
		return gateway.ErrNoOrderID
	}

	// Confirm capture before touching any state. A non-captured status is
	// not a storage problem: nothing is mutated and the transport decides
	// whether to retry.
	status, err := s.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if status != gateway.StatusCaptured {
		return fmt.Errorf("%w: order %s is %s", ErrPaymentNotCaptured, orderID, status)
	}

	p, err := s.catalog.Resolve(planID)
	if err != nil {
		if !errors.Is(err, plan.ErrUnknownPlan) {
			return err
		}
		// Defensive downgrade: an unrecognized identifier applies free
		// terms. Anomalous but not fatal, so it is logged and the purchase
		// proceeds.
		s.log.WarnContext(ctx, "unknown plan in purchase, applying free terms",
			logger.UserID(userID),
			logger.Plan(string(planID)),
			logger.OrderID(orderID))
	}

	if _, err := s.store.GetOrCreate(ctx, userID); err != nil {
		return err
	}

	now := s.now()
	applied, err := s.store.RecordPayment(ctx, PaymentRecord{
		ID:        uuid.New(),
		OrderID:   orderID,
		UserID:    userID,
		Amount:    p.Price.Amount,
		Plan:      p.ID,
		Status:    PaymentCaptured,
		CreatedAt: now,
	})
	if err != nil {
		return err
	}
	if !applied {
		// Duplicate capture notification for an already-processed order.
		s.log.InfoContext(ctx, "duplicate payment capture ignored",
			logger.UserID(userID),
			logger.OrderID(orderID))
		return nil
	}

	// Renewal resets the allowance and extends expiry from now; it does not
	// add to the remainder.
	if err := s.store.ApplyPlan(ctx, userID, p.ID, p.MessageAllowance, p.ExpiresAt(now)); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "plan applied",
		logger.UserID(userID),
		logger.Plan(string(p.ID)),
		logger.OrderID(orderID),
		slog.Int("messages", p.MessageAllowance))
	return nil
}

func (s *service) CheckExpired(ctx context.Context, userID int64) error {
	expiresAt, err := s.store.GetExpiry(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}

	// Only paid plans carry an expiry; nil means free tier, nothing to sweep.
	if expiresAt == nil || !expiresAt.Before(s.now()) {
		return nil
	}

	if err := s.store.ResetToFree(ctx, userID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "plan expired, user reset to free tier",
		logger.UserID(userID),
		slog.Time("expired_at", *expiresAt))
	return nil
}

func (s *service) GetStatus(ctx context.Context, userID int64) (*UserQuota, error) {
	return s.store.GetOrCreate(ctx, userID)
}
