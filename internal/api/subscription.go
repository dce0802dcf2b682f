package api

import (
	"context"
	"fmt"
	"net/url"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

// CreateOrder asks the server to open a payment order for a plan.
func (c *Client) CreateOrder(ctx context.Context, planType string) (*Order, error) {
	var order Order
	if err := c.Post(ctx, "/subscription/create-order/"+url.PathEscape(planType), nil, &order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("create order: %w: response has no order id", jerrors.ErrServer)
	}
	return &order, nil
}

// ProcessPayment submits the gateway's payment result for verification.
func (c *Client) ProcessPayment(ctx context.Context, v PaymentVerification) error {
	var result PaymentResult
	if err := c.Post(ctx, "/subscription/process-payment", v, &result); err != nil {
		return fmt.Errorf("process payment: %w", err)
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = result.Message
		}
		if msg == "" {
			msg = "payment verification failed"
		}
		return fmt.Errorf("process payment: %w: %s", jerrors.ErrServer, msg)
	}
	return nil
}
