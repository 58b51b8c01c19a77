package entitlements

import (
	"testing"
	"time"

	"github.com/lnking/lnking/app/models"
)

func TestLimitsForKnownPlans(t *testing.T) {
	table := NewTable()

	tests := []struct {
		plan  string
		usage int64
		tags  int64
	}{
		{plan: "free", usage: 1000, tags: 5},
		{plan: "pro", usage: 50000, tags: 25},
		{plan: "business", usage: 150000, tags: Unlimited},
		{plan: "businessplus", usage: 400000, tags: Unlimited},
		{plan: "businessextra", usage: 1000000, tags: Unlimited},
		{plan: "businessmax", usage: 2500000, tags: Unlimited},
	}

	for _, tt := range tests {
		l, err := table.LimitsFor(tt.plan)
		if err != nil {
			t.Fatalf("LimitsFor(%q) returned error: %v", tt.plan, err)
		}
		if l.Usage != tt.usage {
			t.Fatalf("LimitsFor(%q).Usage = %d, want %d", tt.plan, l.Usage, tt.usage)
		}
		if l.Tags != tt.tags {
			t.Fatalf("LimitsFor(%q).Tags = %d, want %d", tt.plan, l.Tags, tt.tags)
		}
	}
}

func TestLimitsForNormalizesCase(t *testing.T) {
	table := NewTable()

	l, err := table.LimitsFor("  BusinessPlus ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Folders != 25 {
		t.Fatalf("expected businessplus folders limit 25, got %d", l.Folders)
	}
}

func TestLimitsForUnknownPlan(t *testing.T) {
	table := NewTable()

	if _, err := table.LimitsFor("enterprise"); err != ErrUnknownPlan {
		t.Fatalf("expected ErrUnknownPlan, got %v", err)
	}
}

func TestApplyPlanIsTotal(t *testing.T) {
	table := NewTable()
	now := time.Date(2026, 3, 17, 10, 0, 0, 0, time.UTC)

	pro, err := table.ApplyPlan("pro", "flw_1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	business, err := table.ApplyPlan("business", "flw_2", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Switching plans must replace every limit field, so nothing from the
	// pro tuple may survive into the business patch.
	if business.Limits == pro.Limits {
		t.Fatalf("expected disjoint limit tuples for pro and business")
	}
	want, _ := table.LimitsFor("business")
	if business.Limits != want {
		t.Fatalf("business patch limits = %+v, want %+v", business.Limits, want)
	}
	if business.FlutterwaveSubscriptionID == nil || *business.FlutterwaveSubscriptionID != "flw_2" {
		t.Fatalf("expected subscription ref flw_2 in patch")
	}
	if business.BillingCycleStart == nil || *business.BillingCycleStart != 17 {
		t.Fatalf("expected billing cycle start 17, got %v", business.BillingCycleStart)
	}
}

func TestApplyPlanUnknown(t *testing.T) {
	table := NewTable()

	if _, err := table.ApplyPlan("platinum", "flw_1", time.Now()); err != ErrUnknownPlan {
		t.Fatalf("expected ErrUnknownPlan, got %v", err)
	}
}

func TestFreePatchLeavesProviderRefAlone(t *testing.T) {
	table := NewTable()

	patch := table.FreePatch()
	if patch.Plan != models.PlanFree {
		t.Fatalf("expected free plan, got %q", patch.Plan)
	}
	if patch.FlutterwaveSubscriptionID != nil {
		t.Fatalf("free patch must not touch the provider reference")
	}
	if patch.BillingCycleStart != nil {
		t.Fatalf("free patch must not touch the billing cycle start")
	}
	want, _ := table.LimitsFor(models.PlanFree)
	if patch.Limits != want {
		t.Fatalf("free patch limits = %+v, want %+v", patch.Limits, want)
	}
}
