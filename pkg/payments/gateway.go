// Package payments defines the payment gateway collaborator. The gateway's
// internals are out of scope; the core only creates orders, verifies capture
// before confirming a booking, and issues refunds keyed by transaction id.
package payments

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tutormatch/pkg/client"
	apperrors "tutormatch/pkg/errors"
	"tutormatch/pkg/logger"
)

type Order struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Receipt       string  `json:"receipt"`
	Status        string  `json:"status"`
}

type Verification struct {
	TransactionID string     `json:"transaction_id"`
	Captured      bool       `json:"captured"`
	Method        string     `json:"method"`
	PaidAt        *time.Time `json:"paid_at"`
}

type Refund struct {
	TransactionID string  `json:"transaction_id"`
	RefundID      string  `json:"refund_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, receipt string) (*Order, error)
	VerifyPayment(ctx context.Context, transactionID string) (*Verification, error)
	IssueRefund(ctx context.Context, transactionID string, amount float64) (*Refund, error)
}

// HTTPGateway talks to the gateway over its JSON API with a bounded timeout
// and retry count per call.
type HTTPGateway struct {
	client  *client.HttpClient
	retries int
	log     *logger.Logger
}

func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration, retries int, log *logger.Logger) *HTTPGateway {
	httpClient := client.NewHttpClient(baseURL, timeout)
	if apiKey != "" {
		httpClient.WithHeader("Authorization", "Bearer "+apiKey)
	}
	return &HTTPGateway{
		client:  httpClient,
		retries: retries,
		log:     log,
	}
}

func (g *HTTPGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*Order, error) {
	if receipt == "" {
		receipt = uuid.New().String()
	}

	var order Order
	err := g.withRetry(ctx, "create order", func() error {
		resp, err := g.client.POST(ctx, "/v1/orders", map[string]any{
			"amount":  amount,
			"receipt": receipt,
		})
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			return fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}
		return resp.DecodeJSON(&order)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "payment gateway is temporarily unavailable", http.StatusServiceUnavailable)
	}
	return &order, nil
}

func (g *HTTPGateway) VerifyPayment(ctx context.Context, transactionID string) (*Verification, error) {
	var verification Verification
	err := g.withRetry(ctx, "verify payment", func() error {
		resp, err := g.client.GET(ctx, "/v1/payments/"+transactionID)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}
		return resp.DecodeJSON(&verification)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "payment gateway is temporarily unavailable", http.StatusServiceUnavailable)
	}
	return &verification, nil
}

func (g *HTTPGateway) IssueRefund(ctx context.Context, transactionID string, amount float64) (*Refund, error) {
	var refund Refund
	err := g.withRetry(ctx, "issue refund", func() error {
		resp, err := g.client.POST(ctx, "/v1/payments/"+transactionID+"/refunds", map[string]any{
			"amount": amount,
		})
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			return fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}
		return resp.DecodeJSON(&refund)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "payment gateway is temporarily unavailable", http.StatusServiceUnavailable)
	}
	return &refund, nil
}

func (g *HTTPGateway) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		g.log.Warn("Payment gateway call failed",
			"operation", operation,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}
	return lastErr
}
