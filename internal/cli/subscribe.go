package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/browser"
	"github.com/tessro/jukebar/internal/checkout"
	jerrors "github.com/tessro/jukebar/internal/errors"
	"github.com/tessro/jukebar/internal/wizard"
)

var (
	subscribePaymentID string
	subscribeOrderID   string
	subscribeSignature string
	subscribeNoBrowser bool
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe [plan]",
	Short: "Buy a subscription plan",
	Long: `Buy a subscription plan. An order is created on the server and
the payment page opens in your browser. Paste back the payment id and
signature it shows to finish, or pass them as flags.

Plans: basic, premium, family, student.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSubscribe,
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans",
	Args:  cobra.NoArgs,
	RunE:  runPlans,
}

func init() {
	subscribeCmd.Flags().StringVar(&subscribePaymentID, "payment-id", "", "payment id returned by the gateway")
	subscribeCmd.Flags().StringVar(&subscribeOrderID, "order-id", "", "order id returned by the gateway (defaults to the new order)")
	subscribeCmd.Flags().StringVar(&subscribeSignature, "signature", "", "payment signature returned by the gateway")
	subscribeCmd.Flags().BoolVar(&subscribeNoBrowser, "no-browser", false, "print the payment URL instead of opening it")
	subscribeCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(subscribeCmd)
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, _, err := newClient()
	if err != nil {
		return err
	}
	if !client.IsAuthenticated() {
		return jerrors.ErrUnauthorized
	}

	planType := ""
	if len(args) > 0 {
		planType = args[0]
	} else {
		if !isInteractive() {
			return jerrors.WithSuggestion(jerrors.Validation("no plan given"),
				"Choose one of: "+strings.Join(checkout.PlanTypes(), ", "))
		}
		if planType, err = wizard.Select("Choose a plan", planOptions()); err != nil {
			return err
		}
	}

	open := browser.Open
	if subscribeNoBrowser {
		open = nil
	}
	co := checkout.New(client, open, logger)

	pending, err := co.Begin(ctx, planType)
	if err != nil {
		return err
	}
	if !JSONOutput() {
		fmt.Printf("%s plan: %s\n", pending.Plan.Name, pending.Summary())
		if !pending.Launched {
			fmt.Printf("Open this URL to pay:\n\n  %s\n\n", pending.PayURL)
		} else {
			fmt.Println("Opened the payment page in your browser.")
		}
	}

	payment := wizard.Payment{
		PaymentID: subscribePaymentID,
		OrderID:   subscribeOrderID,
		Signature: subscribeSignature,
	}
	if payment.PaymentID == "" || payment.Signature == "" {
		if !isInteractive() {
			if JSONOutput() {
				return printJSON(map[string]any{
					"status":   "pending",
					"order_id": pending.Order.ID,
					"pay_url":  pending.PayURL,
				})
			}
			fmt.Printf("Finish with: jukebar subscribe %s --payment-id <id> --signature <sig> --order-id %s\n",
				pending.Plan.Type, pending.Order.ID)
			return nil
		}
		if payment, err = wizard.PaymentResult(pending.Order.ID); err != nil {
			return err
		}
	}

	if err := co.Complete(ctx, pending, payment.PaymentID, payment.OrderID, payment.Signature); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{"status": "subscribed", "plan": pending.Plan.Type, "order_id": pending.Order.ID})
	}
	fmt.Printf("✓ Subscribed to %s\n", pending.Plan.Name)
	return nil
}

func planOptions() []wizard.Option {
	var out []wizard.Option
	for _, p := range checkout.Plans {
		out = append(out, wizard.Option{
			Label: fmt.Sprintf("%s (%s / %s)", p.Name, checkout.FormatAmount(p.Price), p.Cycle),
			Value: p.Type,
		})
	}
	return out
}

func runPlans(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(checkout.Plans)
	}
	tbl := NewTable("Plan", "Price", "Billed", "Description")
	for _, p := range checkout.Plans {
		tbl.Row(p.Type, checkout.FormatAmount(p.Price), p.Cycle, p.Description)
	}
	tbl.Flush()
	return nil
}
