package quota

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/meterkit/pkg/plan"
)

// MemoryStore is an in-memory Store for tests and embedded use. A single
// mutex guards both maps; every mutating method holds it for the whole
// check-and-write, which gives the same atomicity the Postgres store gets
// from single conditional statements.
type MemoryStore struct {
	mu            sync.Mutex
	users         map[int64]*UserQuota
	payments      map[string]PaymentRecord
	freeAllowance int
}

// NewMemoryStore creates an empty in-memory store. freeAllowance is the
// MessagesLeft value for lazily created records.
func NewMemoryStore(freeAllowance int) *MemoryStore {
	if freeAllowance < 0 {
		freeAllowance = 0
	}
	return &MemoryStore{
		users:         make(map[int64]*UserQuota),
		payments:      make(map[string]PaymentRecord),
		freeAllowance: freeAllowance,
	}
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, userID int64) (*UserQuota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = &UserQuota{
			UserID:       userID,
			MessagesLeft: s.freeAllowance,
			Plan:         plan.Free,
		}
		s.users[userID] = u
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*UserQuota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) TryConsumeOne(ctx context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.MessagesLeft <= 0 {
		return false, nil
	}
	u.MessagesLeft--
	return true, nil
}

func (s *MemoryStore) ApplyPlan(ctx context.Context, userID int64, planID plan.ID, messages int, expiresAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = &UserQuota{UserID: userID}
		s.users[userID] = u
	}
	u.MessagesLeft = messages
	u.Plan = planID
	u.ExpiresAt = expiresAt
	return nil
}

func (s *MemoryStore) ResetToFree(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	u.MessagesLeft = 0
	u.Plan = plan.Free
	u.ExpiresAt = nil
	return nil
}

func (s *MemoryStore) GetExpiry(ctx context.Context, userID int64) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.ExpiresAt, nil
}

func (s *MemoryStore) RecordPayment(ctx context.Context, rec PaymentRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[rec.OrderID]; ok {
		return false, nil
	}
	s.payments[rec.OrderID] = rec
	return true, nil
}

// Payments returns a snapshot of the recorded payments, keyed by order ID.
// Intended for assertions in tests.
func (s *MemoryStore) Payments() map[string]PaymentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]PaymentRecord, len(s.payments))
	for k, v := range s.payments {
		out[k] = v
	}
	return out
}
