package gateway

import (
	"testing"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
	"github.com/stretchr/testify/assert"
)

func TestMapTransactionStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status paddle.TransactionStatus
		want   Status
	}{
		{paddle.TransactionStatusPaid, StatusCaptured},
		{paddle.TransactionStatusCompleted, StatusCaptured},
		{paddle.TransactionStatusCanceled, StatusFailed},
		{paddle.TransactionStatusPastDue, StatusFailed},
		{paddle.TransactionStatusDraft, StatusPending},
		{paddle.TransactionStatusReady, StatusPending},
		{paddle.TransactionStatusBilled, StatusPending},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapTransactionStatus(tt.status), "status %s", tt.status)
	}
}

func TestNewPaddleClient(t *testing.T) {
	t.Parallel()

	t.Run("requires api key", func(t *testing.T) {
		t.Parallel()

		_, err := NewPaddleClient(PaddleConfig{})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		t.Parallel()

		_, err := NewPaddleClient(PaddleConfig{APIKey: "pdl_test", Environment: "staging"})
		assert.ErrorIs(t, err, ErrInvalidEnvironment)
	})
}
