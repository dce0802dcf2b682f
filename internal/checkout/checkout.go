package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/tessro/jukebar/internal/api"
	jerrors "github.com/tessro/jukebar/internal/errors"
)

// Gateway is the server side of a purchase.
type Gateway interface {
	CreateOrder(ctx context.Context, planType string) (*api.Order, error)
	ProcessPayment(ctx context.Context, v api.PaymentVerification) error
	URL(path string) string
}

// Checkout drives a purchase: create an order, hand the user to the
// payment page, then verify what the gateway returned.
type Checkout struct {
	gateway Gateway
	open    func(url string) error
	log     zerolog.Logger
}

// New creates a Checkout. open launches the payment page; it may be nil
// when no browser is available, in which case the caller prints the URL.
func New(gateway Gateway, open func(string) error, log zerolog.Logger) *Checkout {
	return &Checkout{gateway: gateway, open: open, log: log}
}

// Pending is an order waiting for the user to pay.
type Pending struct {
	Plan     Plan
	Order    api.Order
	PayURL   string
	Launched bool
}

// Summary reads like the pay button: "Pay USD 4.99".
func (p *Pending) Summary() string {
	return fmt.Sprintf("Pay %s %s", p.Order.Currency, FormatAmount(p.Order.Amount))
}

// Begin creates an order for planType and opens the payment page.
// A page that fails to open is not an error; Launched reports it.
func (c *Checkout) Begin(ctx context.Context, planType string) (*Pending, error) {
	plan, err := Lookup(planType)
	if err != nil {
		return nil, err
	}

	order, err := c.gateway.CreateOrder(ctx, plan.Type)
	if err != nil {
		return nil, jerrors.WithSuggestion(err, "Unable to process payment at this time. Please try again later")
	}
	c.log.Info().Str("plan", plan.Type).Str("order_id", order.ID).Int64("amount", order.Amount).Msg("order created")

	p := &Pending{Plan: plan, Order: *order, PayURL: c.payURL(plan, order)}
	if c.open != nil {
		if err := c.open(p.PayURL); err != nil {
			c.log.Debug().Err(err).Msg("could not open payment page")
		} else {
			p.Launched = true
		}
	}
	return p, nil
}

func (c *Checkout) payURL(plan Plan, order *api.Order) string {
	q := url.Values{}
	q.Set("plan", plan.Type)
	q.Set("order_id", order.ID)
	return c.gateway.URL("/subscription") + "?" + q.Encode()
}

// Complete verifies the gateway's result for p. The order id defaults
// to the pending order's.
func (c *Checkout) Complete(ctx context.Context, p *Pending, paymentID, orderID, signature string) error {
	paymentID = strings.TrimSpace(paymentID)
	signature = strings.TrimSpace(signature)
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		orderID = p.Order.ID
	}

	var errs []string
	if paymentID == "" {
		errs = append(errs, "payment id is required")
	}
	if signature == "" {
		errs = append(errs, "signature is required")
	}
	if len(errs) > 0 {
		return jerrors.Validation("%s", strings.Join(errs, "; "))
	}

	err := c.gateway.ProcessPayment(ctx, api.PaymentVerification{
		PaymentID: paymentID,
		OrderID:   orderID,
		Signature: signature,
		PlanType:  p.Plan.Type,
	})
	if err != nil {
		return jerrors.WithSuggestion(err, "There was an error processing your payment. Please contact support")
	}
	c.log.Info().Str("plan", p.Plan.Type).Str("order_id", orderID).Msg("payment verified")
	return nil
}

// FormatAmount renders minor units as a decimal amount, e.g. 149900 as
// "1,499.00".
func FormatAmount(minor int64) string {
	return humanize.FormatFloat("#,###.##", float64(minor)/100)
}
