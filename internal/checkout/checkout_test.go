package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tessro/jukebar/internal/api"
	jerrors "github.com/tessro/jukebar/internal/errors"
)

type fakeGateway struct {
	orders   []string
	verified []api.PaymentVerification
	orderErr error
	payErr   error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, planType string) (*api.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.orders = append(g.orders, planType)
	return &api.Order{ID: "order_1", Amount: 999, Currency: "USD"}, nil
}

func (g *fakeGateway) ProcessPayment(ctx context.Context, v api.PaymentVerification) error {
	if g.payErr != nil {
		return g.payErr
	}
	g.verified = append(g.verified, v)
	return nil
}

func (g *fakeGateway) URL(path string) string {
	return "http://music.test" + path
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"basic", "basic", false},
		{" Premium ", "premium", false},
		{"student", "student", false},
		{"free", "", true},
		{"gold", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			plan, err := Lookup(tt.in)
			if tt.wantErr {
				if !errors.Is(err, jerrors.ErrValidation) {
					t.Fatalf("Lookup(%q) error = %v, want validation", tt.in, err)
				}
				if jerrors.GetSuggestion(err) == "" {
					t.Error("expected a suggestion listing plans")
				}
				return
			}
			if err != nil || plan.Type != tt.want {
				t.Errorf("Lookup(%q) = %v, %v", tt.in, plan.Type, err)
			}
		})
	}
}

func TestBeginOpensPaymentPage(t *testing.T) {
	gw := &fakeGateway{}
	var opened string
	c := New(gw, func(u string) error { opened = u; return nil }, zerolog.Nop())

	p, err := c.Begin(context.Background(), "premium")
	if err != nil {
		t.Fatal(err)
	}
	if len(gw.orders) != 1 || gw.orders[0] != "premium" {
		t.Errorf("orders = %v", gw.orders)
	}
	if !p.Launched || opened != p.PayURL {
		t.Errorf("launched=%v opened=%q payURL=%q", p.Launched, opened, p.PayURL)
	}
	if !strings.Contains(p.PayURL, "order_id=order_1") || !strings.Contains(p.PayURL, "plan=premium") {
		t.Errorf("PayURL = %q", p.PayURL)
	}
	if got := p.Summary(); got != "Pay USD 9.99" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestBeginWithoutBrowser(t *testing.T) {
	c := New(&fakeGateway{}, func(string) error { return errors.New("no display") }, zerolog.Nop())
	p, err := c.Begin(context.Background(), "basic")
	if err != nil {
		t.Fatal(err)
	}
	if p.Launched {
		t.Error("Launched should be false when the page fails to open")
	}
}

func TestBeginFreePlanMakesNoOrder(t *testing.T) {
	gw := &fakeGateway{}
	c := New(gw, nil, zerolog.Nop())
	if _, err := c.Begin(context.Background(), "free"); !errors.Is(err, jerrors.ErrValidation) {
		t.Fatalf("Begin(free) error = %v", err)
	}
	if len(gw.orders) != 0 {
		t.Error("no order should be created for the free plan")
	}
}

func TestBeginOrderFailure(t *testing.T) {
	c := New(&fakeGateway{orderErr: jerrors.ErrServer}, nil, zerolog.Nop())
	if _, err := c.Begin(context.Background(), "family"); !errors.Is(err, jerrors.ErrServer) {
		t.Fatalf("Begin() error = %v", err)
	}
}

func TestComplete(t *testing.T) {
	gw := &fakeGateway{}
	c := New(gw, nil, zerolog.Nop())
	p, err := c.Begin(context.Background(), "student")
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Complete(context.Background(), p, "", "", ""); !errors.Is(err, jerrors.ErrValidation) {
		t.Fatalf("Complete(empty) error = %v", err)
	}

	if err := c.Complete(context.Background(), p, "pay_1", "", "sig"); err != nil {
		t.Fatal(err)
	}
	want := api.PaymentVerification{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig", PlanType: "student"}
	if len(gw.verified) != 1 || gw.verified[0] != want {
		t.Errorf("verified = %+v", gw.verified)
	}
}

func TestCompleteRejected(t *testing.T) {
	gw := &fakeGateway{payErr: jerrors.ErrServer}
	c := New(gw, nil, zerolog.Nop())
	p := &Pending{Plan: Plans[0], Order: api.Order{ID: "o"}}
	err := c.Complete(context.Background(), p, "pay", "o", "sig")
	if !errors.Is(err, jerrors.ErrServer) {
		t.Fatalf("Complete() error = %v", err)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{499, "4.99"},
		{1500, "15.00"},
		{149900, "1,499.00"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.minor); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.minor, got, tt.want)
		}
	}
}
