package billing

import "testing"

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec_abc123"

	if !VerifyWebhookSignature(secret, secret) {
		t.Fatalf("expected matching signature to validate")
	}
	if !VerifyWebhookSignature("  "+secret+" ", secret) {
		t.Fatalf("expected surrounding whitespace to be tolerated")
	}
	if VerifyWebhookSignature("whsec_wrong", secret) {
		t.Fatalf("expected mismatched signature to fail")
	}
	if VerifyWebhookSignature("", secret) {
		t.Fatalf("expected empty signature to fail")
	}
	if VerifyWebhookSignature(secret, "") {
		t.Fatalf("expected empty secret to fail even on match")
	}
}
