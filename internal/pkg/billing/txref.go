package billing

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/lnking/lnking/internal/pkg/entitlements"
)

// Transaction references are the only context a webhook carries back to us,
// so their wire format is treated as versioned:
//
//	lnking_{userId}_{workspaceId}_{planName}_{interval}[_{nonce}]
//
// The namespace token doubles as the format discriminator; a future format
// bump introduces a new namespace instead of changing this one.
const (
	TxRefNamespace = "lnking"
	txRefDelimiter = "_"
	txRefNonceLen  = 8
)

// ErrMalformedReference is returned for references this codec cannot decode.
var ErrMalformedReference = errors.New("billing: malformed transaction reference")

// TransactionReference is the decoded checkout context of a webhook.
type TransactionReference struct {
	UserID      string
	WorkspaceID string
	PlanName    string
	Interval    string
}

// EncodeTxRef builds the reference for a checkout session. A random nonce is
// appended so retried checkouts never collide; decode ignores it.
func EncodeTxRef(ref TransactionReference) (string, error) {
	for _, part := range []string{ref.UserID, ref.WorkspaceID, ref.PlanName, ref.Interval} {
		if strings.TrimSpace(part) == "" || strings.Contains(part, txRefDelimiter) {
			return "", ErrMalformedReference
		}
	}
	nonce, err := txRefNonce(txRefNonceLen)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		TxRefNamespace,
		ref.UserID,
		ref.WorkspaceID,
		entitlements.NormalizePlan(ref.PlanName),
		strings.ToLower(ref.Interval),
		nonce,
	}, txRefDelimiter), nil
}

// DecodeTxRef parses a reference string. The namespace must match and all
// four semantic segments must be present; a trailing nonce carries no meaning.
func DecodeTxRef(raw string) (TransactionReference, error) {
	parts := strings.Split(raw, txRefDelimiter)
	if len(parts) < 5 || parts[0] != TxRefNamespace {
		return TransactionReference{}, fmt.Errorf("%w: %q", ErrMalformedReference, raw)
	}
	ref := TransactionReference{
		UserID:      parts[1],
		WorkspaceID: parts[2],
		PlanName:    entitlements.NormalizePlan(parts[3]),
		Interval:    strings.ToLower(parts[4]),
	}
	if ref.UserID == "" || ref.WorkspaceID == "" || ref.PlanName == "" || ref.Interval == "" {
		return TransactionReference{}, fmt.Errorf("%w: %q", ErrMalformedReference, raw)
	}
	return ref, nil
}

const nonceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func txRefNonce(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = nonceAlphabet[int(buf[i])%len(nonceAlphabet)]
	}
	return string(buf), nil
}
