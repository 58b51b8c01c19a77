package billing

import (
	"strings"
	"testing"
)

func TestTxRefRoundTrip(t *testing.T) {
	in := TransactionReference{
		UserID:      "u1",
		WorkspaceID: "a42",
		PlanName:    "BusinessPlus",
		Interval:    "Monthly",
	}

	encoded, err := EncodeTxRef(in)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if !strings.HasPrefix(encoded, "lnking_u1_a42_businessplus_monthly_") {
		t.Fatalf("unexpected encoded form: %q", encoded)
	}

	out, err := DecodeTxRef(encoded)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if out.UserID != "u1" || out.WorkspaceID != "a42" {
		t.Fatalf("ids did not round-trip: %+v", out)
	}
	if out.PlanName != "businessplus" || out.Interval != "monthly" {
		t.Fatalf("plan/interval did not normalize: %+v", out)
	}
}

func TestDecodeTxRefWithoutNonce(t *testing.T) {
	out, err := DecodeTxRef("lnking_u1_a1_pro_monthly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.WorkspaceID != "a1" || out.PlanName != "pro" {
		t.Fatalf("unexpected decode result: %+v", out)
	}
}

func TestDecodeTxRefNonceCarriesNoMeaning(t *testing.T) {
	a, err := DecodeTxRef("lnking_u1_a1_pro_monthly_abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := DecodeTxRef("lnking_u1_a1_pro_monthly_zzz999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("nonce leaked into decode: %+v vs %+v", a, b)
	}
}

func TestDecodeTxRefMalformed(t *testing.T) {
	tests := []string{
		"",
		"lnking_u1_a1_pro",          // missing interval
		"other_u1_a1_pro_monthly",   // wrong namespace
		"lnking__a1_pro_monthly_x",  // empty user id
		"lnking_u1_a1__monthly_x",   // empty plan
		"plain-text-reference",      // no delimiters
	}

	for _, raw := range tests {
		if _, err := DecodeTxRef(raw); err == nil {
			t.Fatalf("expected decode of %q to fail", raw)
		}
	}
}

func TestEncodeTxRefRejectsDelimiterInSegments(t *testing.T) {
	_, err := EncodeTxRef(TransactionReference{
		UserID:      "u_1",
		WorkspaceID: "a1",
		PlanName:    "pro",
		Interval:    "monthly",
	})
	if err == nil {
		t.Fatalf("expected segment with delimiter to be rejected")
	}
}
