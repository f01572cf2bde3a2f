package meter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/meterkit/pkg/gateway"
	"github.com/dmitrymomot/meterkit/pkg/logger"
	"github.com/dmitrymomot/meterkit/pkg/plan"
	"github.com/dmitrymomot/meterkit/pkg/quota"
)

// Handler serves the metering endpoints. The flood limiter is optional;
// without one every message goes straight to quota consumption.
type Handler struct {
	svc   quota.Service
	flood *FloodLimiter
	log   *slog.Logger
}

// NewHandler creates the HTTP handler for the metering engine.
func NewHandler(svc quota.Service, flood *FloodLimiter, log *slog.Logger) *Handler {
	if svc == nil {
		panic("meter: quota service is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, flood: flood, log: log}
}

// Router mounts the metering routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/events/message", h.handleMessage)
		r.Post("/webhooks/payment", h.handlePaymentCaptured)
		r.Get("/users/{id}/status", h.handleStatus)
	})
	return r
}

type messageRequest struct {
	UserID int64 `json:"user_id"`
}

type messageResponse struct {
	Allowed bool `json:"allowed"`
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()

	if h.flood != nil {
		ok, err := h.flood.Allow(ctx, req.UserID)
		if err != nil {
			// A broken limiter must not take messaging down; fall through
			// to the quota check.
			h.log.ErrorContext(ctx, "flood limiter failed", logger.UserID(req.UserID), logger.Error(err))
		} else if !ok {
			writeJSON(w, http.StatusTooManyRequests, messageResponse{Allowed: false})
			return
		}
	}

	allowed, err := h.svc.ConsumeMessage(ctx, req.UserID)
	if err != nil {
		h.log.ErrorContext(ctx, "consume message failed", logger.UserID(req.UserID), logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable, retry later")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Allowed: allowed})
}

type paymentRequest struct {
	UserID  int64  `json:"user_id"`
	Plan    string `json:"plan"`
	OrderID string `json:"order_id"`
}

func (h *Handler) handlePaymentCaptured(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()

	err := h.svc.Purchase(ctx, req.UserID, plan.ID(req.Plan), req.OrderID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, quota.ErrPaymentNotCaptured):
		writeError(w, http.StatusConflict, "order not captured")
	case errors.Is(err, gateway.ErrPaymentGateway):
		h.log.ErrorContext(ctx, "payment gateway failure",
			logger.UserID(req.UserID), logger.OrderID(req.OrderID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "payment gateway unavailable, retry later")
	default:
		h.log.ErrorContext(ctx, "purchase failed",
			logger.UserID(req.UserID), logger.OrderID(req.OrderID), logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable, retry later")
	}
}

type statusResponse struct {
	UserID       int64      `json:"user_id"`
	MessagesLeft int        `json:"messages_left"`
	Plan         string     `json:"plan"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID == 0 {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ctx := r.Context()

	u, err := h.svc.GetStatus(ctx, userID)
	if err != nil {
		h.log.ErrorContext(ctx, "get status failed", logger.UserID(userID), logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable, retry later")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		UserID:       u.UserID,
		MessagesLeft: u.MessagesLeft,
		Plan:         string(u.Plan),
		ExpiresAt:    u.ExpiresAt,
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
