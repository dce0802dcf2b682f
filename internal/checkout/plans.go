// Package checkout buys subscription plans through the server's payment
// gateway.
package checkout

import (
	"strings"

	"github.com/samber/lo"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

// Plan is a subscription tier.
type Plan struct {
	Type        string
	Name        string
	Price       int64 // minor units
	Cycle       string
	Description string
}

// PlanFree is the default tier. It has nothing to buy.
const PlanFree = "free"

// Plans lists the purchasable tiers in display order.
var Plans = []Plan{
	{Type: "basic", Name: "Basic", Price: 499, Cycle: "monthly", Description: "Ad-free listening with basic features"},
	{Type: "premium", Name: "Premium", Price: 999, Cycle: "monthly", Description: "Full streaming experience without limitations"},
	{Type: "family", Name: "Family", Price: 1499, Cycle: "monthly", Description: "Premium features for up to 6 family members"},
	{Type: "student", Name: "Student", Price: 499, Cycle: "monthly", Description: "Premium plan for verified students"},
}

// Lookup finds a purchasable plan by type, case-insensitively.
func Lookup(planType string) (Plan, error) {
	t := strings.ToLower(strings.TrimSpace(planType))
	if t == PlanFree {
		return Plan{}, jerrors.WithSuggestion(
			jerrors.Validation("the free plan cannot be purchased"),
			"Choose one of: "+strings.Join(PlanTypes(), ", "),
		)
	}
	plan, ok := lo.Find(Plans, func(p Plan) bool { return p.Type == t })
	if !ok {
		return Plan{}, jerrors.WithSuggestion(
			jerrors.Validation("unknown plan %q", planType),
			"Choose one of: "+strings.Join(PlanTypes(), ", "),
		)
	}
	return plan, nil
}

// PlanTypes returns the purchasable plan types.
func PlanTypes() []string {
	return lo.Map(Plans, func(p Plan, _ int) string { return p.Type })
}
