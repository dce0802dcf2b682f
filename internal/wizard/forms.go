package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

// Confirm asks a yes/no question. Declining is not an error.
func Confirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}
	return ok, nil
}

// Credentials is what the login form collects.
type Credentials struct {
	Email    string
	Password string
}

// Login prompts for an email and password. A prefilled email is kept.
func Login(email string) (Credentials, error) {
	c := Credentials{Email: email}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&c.Email).
				Validate(required("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&c.Password).
				Validate(required("password")),
		),
	)
	if err := form.Run(); err != nil {
		return Credentials{}, fmt.Errorf("login cancelled: %w", err)
	}
	c.Email = strings.TrimSpace(c.Email)
	return c, nil
}

// Option is a labelled choice.
type Option struct {
	Label string
	Value string
}

// Select offers a single choice.
func Select(title string, options []Option) (string, error) {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return selected, nil
}

// Payment is what the gateway hands back after a successful payment.
type Payment struct {
	PaymentID string
	OrderID   string
	Signature string
}

// PaymentResult prompts for the gateway's payment reply. orderID is
// prefilled with the pending order.
func PaymentResult(orderID string) (Payment, error) {
	p := Payment{OrderID: orderID}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Complete the payment in your browser").
				Description("Then paste the values the payment page shows."),
			huh.NewInput().
				Title("Payment ID").
				Value(&p.PaymentID).
				Validate(required("payment id")),
			huh.NewInput().
				Title("Order ID").
				Value(&p.OrderID).
				Validate(required("order id")),
			huh.NewInput().
				Title("Signature").
				Value(&p.Signature).
				Validate(required("signature")),
		),
	)
	if err := form.Run(); err != nil {
		return Payment{}, fmt.Errorf("payment entry cancelled: %w", err)
	}
	p.PaymentID = strings.TrimSpace(p.PaymentID)
	p.OrderID = strings.TrimSpace(p.OrderID)
	p.Signature = strings.TrimSpace(p.Signature)
	return p, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return jerrors.Validation("%s is required", field)
		}
		return nil
	}
}
