package billing

import "testing"

func TestParseNotificationEventChargeCompleted(t *testing.T) {
	raw := []byte(`{
		"event": "charge.completed",
		"data": {
			"id": 1234,
			"tx_ref": "lnking_u1_a1_pro_monthly_x1y2z3",
			"flw_ref": "flw_99",
			"amount": 10000,
			"currency": "NGN",
			"status": "successful",
			"payment_type": "card",
			"customer": {
				"id": 7,
				"name": "Ada Obi",
				"email": "ada@example.com",
				"phone_number": "+2348000000000"
			}
		}
	}`)

	ev, err := ParseNotificationEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Kind != EventChargeCompleted {
		t.Fatalf("expected charge.completed kind, got %q", ev.Kind)
	}
	if ev.Data.FlwRef != "flw_99" || ev.Data.TxRef != "lnking_u1_a1_pro_monthly_x1y2z3" {
		t.Fatalf("unexpected data: %+v", ev.Data)
	}
	if ev.Data.Customer.Email != "ada@example.com" {
		t.Fatalf("customer did not parse: %+v", ev.Data.Customer)
	}
	if ev.Data.Amount != 10000 {
		t.Fatalf("amount did not parse: %v", ev.Data.Amount)
	}
}

func TestParseNotificationEventKinds(t *testing.T) {
	tests := []struct {
		event string
		want  EventKind
	}{
		{event: "charge.completed", want: EventChargeCompleted},
		{event: "subscription.created", want: EventSubscriptionCreated},
		{event: "subscription.cancelled", want: EventSubscriptionCancelled},
		{event: "subscription.disabled", want: EventSubscriptionDisabled},
		{event: "transfer.completed", want: EventUnknown},
		{event: "", want: EventUnknown},
	}

	for _, tt := range tests {
		ev, err := ParseNotificationEvent([]byte(`{"event":"` + tt.event + `","data":{}}`))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.event, err)
		}
		if ev.Kind != tt.want {
			t.Fatalf("ParseNotificationEvent(%q).Kind = %q, want %q", tt.event, ev.Kind, tt.want)
		}
	}
}

func TestParseNotificationEventInvalidJSON(t *testing.T) {
	if _, err := ParseNotificationEvent([]byte("{not json")); err == nil {
		t.Fatalf("expected invalid JSON to fail")
	}
}
