package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"

	"github.com/dmitrymomot/meterkit/pkg/plan"
)

// PaddleConfig holds configuration for the Paddle-backed client. Plans are
// sold as catalog prices in Paddle, so each purchasable plan maps to a
// Paddle price ID.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY,required"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`

	PriceTry   string `env:"PADDLE_PRICE_TRY,required"`
	PriceBasic string `env:"PADDLE_PRICE_BASIC,required"`
	PricePro   string `env:"PADDLE_PRICE_PRO,required"`
}

// PaddleClient implements Client on the Paddle Billing API. An order in the
// engine's vocabulary is a Paddle transaction; capture corresponds to the
// transaction reaching a paid state.
type PaddleClient struct {
	client *paddle.SDK
	prices map[plan.ID]string
}

// NewPaddleClient creates a Paddle-backed gateway client.
func NewPaddleClient(cfg PaddleConfig) (*PaddleClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var sdk *paddle.SDK
	var err error

	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		sdk, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		sdk, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvironment, cfg.Environment)
	}
	if err != nil {
		return nil, errors.Join(ErrPaymentGateway, err)
	}

	return &PaddleClient{
		client: sdk,
		prices: map[plan.ID]string{
			plan.Try:   cfg.PriceTry,
			plan.Basic: cfg.PriceBasic,
			plan.Pro:   cfg.PricePro,
		},
	}, nil
}

// CreateOrder creates a Paddle transaction for the plan's catalog price and
// returns its ID plus the hosted checkout URL the user pays at.
func (p *PaddleClient) CreateOrder(ctx context.Context, amount plan.Money, planID plan.ID) (*Order, error) {
	priceID, ok := p.prices[planID]
	if !ok || priceID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPriceForPlan, planID)
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  priceID,
		Quantity: 1,
	})

	txn, err := p.client.TransactionsClient.CreateTransaction(ctx, &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"plan":   string(planID),
			"amount": amount.Amount,
		},
	})
	if err != nil {
		return nil, errors.Join(ErrPaymentGateway, err)
	}

	order := &Order{ID: txn.ID}
	if txn.Checkout != nil && txn.Checkout.URL != nil {
		order.CheckoutURL = *txn.Checkout.URL
	}
	if order.CheckoutURL == "" {
		return nil, ErrNoCheckoutURL
	}

	return order, nil
}

// CaptureOrder fetches the transaction and maps its state to a capture
// status. Safe to call repeatedly for the same order.
func (p *PaddleClient) CaptureOrder(ctx context.Context, orderID string) (Status, error) {
	if orderID == "" {
		return StatusFailed, ErrNoOrderID
	}

	txn, err := p.client.TransactionsClient.GetTransaction(ctx, &paddle.GetTransactionRequest{
		TransactionID: orderID,
	})
	if err != nil {
		return StatusFailed, errors.Join(ErrPaymentGateway, err)
	}

	return mapTransactionStatus(txn.Status), nil
}

// mapTransactionStatus normalizes Paddle transaction states to the capture
// statuses the engine understands. Anything not terminal is pending.
func mapTransactionStatus(status paddle.TransactionStatus) Status {
	switch status {
	case paddle.TransactionStatusPaid, paddle.TransactionStatusCompleted:
		return StatusCaptured
	case paddle.TransactionStatusCanceled, paddle.TransactionStatusPastDue:
		return StatusFailed
	default:
		return StatusPending
	}
}
