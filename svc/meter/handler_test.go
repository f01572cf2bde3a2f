package meter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/meterkit/pkg/gateway"
	"github.com/dmitrymomot/meterkit/pkg/plan"
	"github.com/dmitrymomot/meterkit/pkg/quota"
	"github.com/dmitrymomot/meterkit/svc/meter"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ConsumeMessage(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockService) Purchase(ctx context.Context, userID int64, planID plan.ID, orderID string) error {
	args := m.Called(ctx, userID, planID, orderID)
	return args.Error(0)
}

func (m *mockService) CheckExpired(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockService) GetStatus(ctx context.Context, userID int64) (*quota.UserQuota, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.UserQuota), args.Error(1)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleMessage(t *testing.T) {
	t.Parallel()

	t.Run("allowed", func(t *testing.T) {
		t.Parallel()

		svc := new(mockService)
		svc.On("ConsumeMessage", mock.Anything, int64(42)).Return(true, nil)
		h := meter.NewHandler(svc, nil, nil)

		rec := postJSON(t, h.Router(), "/v1/events/message", map[string]any{"user_id": 42})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"allowed": true}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("quota exhausted", func(t *testing.T) {
		t.Parallel()

		svc := new(mockService)
		svc.On("ConsumeMessage", mock.Anything, int64(42)).Return(false, nil)
		h := meter.NewHandler(svc, nil, nil)

		rec := postJSON(t, h.Router(), "/v1/events/message", map[string]any{"user_id": 42})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"allowed": false}`, rec.Body.String())
	})

	t.Run("storage unavailable", func(t *testing.T) {
		t.Parallel()

		svc := new(mockService)
		svc.On("ConsumeMessage", mock.Anything, int64(42)).
			Return(false, errors.Join(quota.ErrStorageUnavailable, errors.New("dial refused")))
		h := meter.NewHandler(svc, nil, nil)

		rec := postJSON(t, h.Router(), "/v1/events/message", map[string]any{"user_id": 42})

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("flood limited message skips quota", func(t *testing.T) {
		t.Parallel()

		_, client := newTestRedis(t)
		limiter := meter.NewFloodLimiter(client, meter.FloodConfig{Limit: 1, Window: time.Minute, Prefix: "flood"})

		svc := new(mockService)
		svc.On("ConsumeMessage", mock.Anything, int64(42)).Return(true, nil).Once()
		h := meter.NewHandler(svc, limiter, nil)

		rec := postJSON(t, h.Router(), "/v1/events/message", map[string]any{"user_id": 42})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = postJSON(t, h.Router(), "/v1/events/message", map[string]any{"user_id": 42})
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"allowed": false}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("bad body", func(t *testing.T) {
		t.Parallel()

		h := meter.NewHandler(new(mockService), nil, nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/events/message", bytes.NewReader([]byte("not json")))
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlePaymentCaptured(t *testing.T) {
	t.Parallel()

	body := map[string]any{"user_id": 42, "plan": "basic", "order_id": "txn_1"}

	t.Run("applied", func(t *testing.T) {
		t.Parallel()

		svc := new(mockService)
		svc.On("Purchase", mock.Anything, int64(42), plan.Basic, "txn_1").Return(nil)
		h := meter.NewHandler(svc, nil, nil)

		rec := postJSON(t, h.Router(), "/v1/webhooks/payment", body)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("order not captured", func(t *testing.T) {
		t.Parallel()

		svc := new(mockService)
		svc.On("Purchase", mock.Anything, int64(42), plan.Basic, "txn_1").
			Return(quota.ErrPaymentNotCaptured)
		h := meter.NewHandler(svc, nil, nil)

		rec := postJSON(t, h.Router(), "/v1/webhooks/payment", body)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("gateway failure maps to bad gateway", func(t *testing.T) {
		t.Parallel()

		svc := new(mockService)
		svc.On("Purchase", mock.Anything, int64(42), plan.Basic, "txn_1").
			Return(errors.Join(gateway.ErrPaymentGateway, errors.New("timeout")))
		h := meter.NewHandler(svc, nil, nil)

		rec := postJSON(t, h.Router(), "/v1/webhooks/payment", body)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing order id", func(t *testing.T) {
		t.Parallel()

		h := meter.NewHandler(new(mockService), nil, nil)
		rec := postJSON(t, h.Router(), "/v1/webhooks/payment", map[string]any{"user_id": 42, "plan": "basic"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()

	t.Run("returns the record", func(t *testing.T) {
		t.Parallel()

		svc := new(mockService)
		svc.On("GetStatus", mock.Anything, int64(42)).Return(&quota.UserQuota{
			UserID:       42,
			MessagesLeft: 7,
			Plan:         plan.Free,
		}, nil)
		h := meter.NewHandler(svc, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/users/42/status", nil)
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id": 42, "messages_left": 7, "plan": "free"}`, rec.Body.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		h := meter.NewHandler(new(mockService), nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/v1/users/abc/status", nil)
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
