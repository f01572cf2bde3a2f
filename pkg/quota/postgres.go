package quota

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/meterkit/pkg/pg"
	"github.com/dmitrymomot/meterkit/pkg/plan"
)

// PostgresStore implements Store on a pgx connection pool. Atomicity comes
// from single-statement conditional writes; no statement here is part of a
// multi-statement transaction, so an abandoned request cannot leave a record
// half-updated.
type PostgresStore struct {
	pool          *pgxpool.Pool
	freeAllowance int
	defaultPlanID plan.ID
}

// NewPostgresStore creates a Store backed by the given pool. freeAllowance
// is the MessagesLeft value for lazily created records.
func NewPostgresStore(pool *pgxpool.Pool, freeAllowance int) *PostgresStore {
	if pool == nil {
		panic("quota: pgx pool is required")
	}
	if freeAllowance < 0 {
		freeAllowance = 0
	}
	return &PostgresStore{
		pool:          pool,
		freeAllowance: freeAllowance,
		defaultPlanID: plan.Free,
	}
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, userID int64) (*UserQuota, error) {
	// ON CONFLICT DO NOTHING makes the insert idempotent under concurrent
	// first contact; exactly one row wins, everyone reads the same record.
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, messages_left, plan, expires_at)
		 VALUES ($1, $2, $3, NULL)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, s.freeAllowance, s.defaultPlanID)
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}

	return s.Get(ctx, userID)
}

func (s *PostgresStore) Get(ctx context.Context, userID int64) (*UserQuota, error) {
	u := UserQuota{UserID: userID}
	err := s.pool.QueryRow(ctx,
		`SELECT messages_left, plan, expires_at FROM users WHERE user_id = $1`,
		userID).Scan(&u.MessagesLeft, &u.Plan, &u.ExpiresAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return &u, nil
}

func (s *PostgresStore) TryConsumeOne(ctx context.Context, userID int64) (bool, error) {
	// The conditional decrement is the whole point: the WHERE clause and the
	// SET run as one statement, so the counter cannot go negative no matter
	// how many callers race on the same user.
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET messages_left = messages_left - 1
		 WHERE user_id = $1 AND messages_left > 0`,
		userID)
	if err != nil {
		return false, errors.Join(ErrStorageUnavailable, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) ApplyPlan(ctx context.Context, userID int64, planID plan.ID, messages int, expiresAt *time.Time) error {
	// Upsert keeps plan application a single statement even if the webhook
	// arrives before the user's first message.
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, messages_left, plan, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET messages_left = EXCLUDED.messages_left,
		     plan          = EXCLUDED.plan,
		     expires_at    = EXCLUDED.expires_at`,
		userID, messages, planID, expiresAt)
	if err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) ResetToFree(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET plan = $2, messages_left = 0, expires_at = NULL
		 WHERE user_id = $1`,
		userID, s.defaultPlanID)
	if err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) GetExpiry(ctx context.Context, userID int64) (*time.Time, error) {
	var expiresAt *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT expires_at FROM users WHERE user_id = $1`,
		userID).Scan(&expiresAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return expiresAt, nil
}

func (s *PostgresStore) RecordPayment(ctx context.Context, rec PaymentRecord) (bool, error) {
	// Conditional insert on the unique order ID gives at-most-once plan
	// application per captured order.
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO payments (id, order_id, user_id, amount, plan, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (order_id) DO NOTHING`,
		rec.ID, rec.OrderID, rec.UserID, rec.Amount, rec.Plan, rec.Status, rec.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, errors.Join(ErrStorageUnavailable, err)
	}
	return tag.RowsAffected() == 1, nil
}
