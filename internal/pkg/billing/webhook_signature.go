package billing

import (
	"crypto/subtle"
	"strings"
)

// VerifyWebhookSignature checks the verif-hash header Flutterwave sends with
// every webhook against the configured secret hash. The comparison is
// constant time; a plain string compare would leak the match prefix length.
func VerifyWebhookSignature(signatureHeader, secretHash string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(secretHash)
	if sig == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(secret)) == 1
}
