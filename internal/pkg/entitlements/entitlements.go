package entitlements

import (
	"errors"
	"strings"
	"time"

	"github.com/lnking/lnking/app/models"
)

// Unlimited marks limit fields that carry no effective cap. The value mirrors
// the maximum safe integer of the billing frontend so both sides compare equal.
const Unlimited int64 = 1<<53 - 1

// ErrUnknownPlan is returned when a plan name has no limits entry.
var ErrUnknownPlan = errors.New("entitlements: unknown plan")

// Limits is the per-plan resource allowance tuple.
type Limits struct {
	Usage   int64
	Links   int64
	Domains int64
	Tags    int64
	Folders int64
	Users   int64
	AI      int64
	Sales   int64
}

// WorkspacePatch is the full replacement of the plan-dependent workspace
// fields. Switching plans always rewrites every limit so nothing from a
// previous plan can leak through. Pointer fields stay untouched when nil.
type WorkspacePatch struct {
	Plan                      string
	Limits                    Limits
	FlutterwaveSubscriptionID *string
	BillingCycleStart         *int
}

// Table maps plan names to their limits. It is immutable configuration,
// injected into the reconciliation service rather than read as global state.
type Table struct {
	plans map[string]Limits
}

// NewTable returns the built-in plan catalog.
func NewTable() *Table {
	return &Table{plans: map[string]Limits{
		models.PlanFree: {
			Usage: 1000, Links: 25, Domains: 3, Tags: 5,
			Folders: 0, Users: 1, AI: 10, Sales: 0,
		},
		models.PlanPro: {
			Usage: 50000, Links: 1000, Domains: 10, Tags: 25,
			Folders: 3, Users: 5, AI: 1000, Sales: 0,
		},
		models.PlanBusiness: {
			Usage: 150000, Links: 5000, Domains: 40, Tags: Unlimited,
			Folders: 10, Users: 15, AI: 1000, Sales: 500000,
		},
		models.PlanBusinessPlus: {
			Usage: 400000, Links: 15000, Domains: 100, Tags: Unlimited,
			Folders: 25, Users: 30, AI: 1000, Sales: 1500000,
		},
		models.PlanBusinessExtra: {
			Usage: 1000000, Links: 40000, Domains: 250, Tags: Unlimited,
			Folders: 50, Users: 50, AI: 1000, Sales: 4000000,
		},
		models.PlanBusinessMax: {
			Usage: 2500000, Links: 100000, Domains: 500, Tags: Unlimited,
			Folders: 100, Users: 100, AI: 1000, Sales: 10000000,
		},
	}}
}

// NormalizePlan lowercases and trims a plan name from the wire.
func NormalizePlan(plan string) string {
	return strings.ToLower(strings.TrimSpace(plan))
}

// LimitsFor resolves the limits tuple for a plan name.
func (t *Table) LimitsFor(plan string) (Limits, error) {
	l, ok := t.plans[NormalizePlan(plan)]
	if !ok {
		return Limits{}, ErrUnknownPlan
	}
	return l, nil
}

// ApplyPlan computes the patch for switching a workspace onto planName,
// persisting the provider reference for later cancellation lookups and
// restarting the billing cycle at today's day of month.
func (t *Table) ApplyPlan(planName, flutterwaveRef string, now time.Time) (WorkspacePatch, error) {
	plan := NormalizePlan(planName)
	limits, err := t.LimitsFor(plan)
	if err != nil {
		return WorkspacePatch{}, err
	}
	cycleStart := now.Day()
	return WorkspacePatch{
		Plan:                      plan,
		Limits:                    limits,
		FlutterwaveSubscriptionID: &flutterwaveRef,
		BillingCycleStart:         &cycleStart,
	}, nil
}

// FreePatch is the downgrade applied on cancellation. It resets plan and
// limits but leaves the stored provider reference and cycle start alone.
func (t *Table) FreePatch() WorkspacePatch {
	return WorkspacePatch{
		Plan:   models.PlanFree,
		Limits: t.plans[models.PlanFree],
	}
}
