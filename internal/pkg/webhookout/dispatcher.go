package webhookout

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Outbound webhook triggers.
const (
	TriggerSaleCreated = "sale.created"
	TriggerLeadCreated = "lead.created"
)

const signatureHeader = "X-Lnking-Signature"

// Sender delivers events to a workspace's registered webhook endpoint.
type Sender interface {
	Send(ctx context.Context, endpointURL, secret, trigger string, data interface{}) error
}

// Dispatcher posts signed JSON envelopes to merchant endpoints. Delivery is
// best effort; callers treat failures as logged-only.
type Dispatcher struct {
	HTTPClient *http.Client
}

// NewDispatcher creates a dispatcher with a sane delivery timeout.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type envelope struct {
	Event     string      `json:"event"`
	CreatedAt string      `json:"created_at"`
	Data      interface{} `json:"data"`
}

func (d *Dispatcher) Send(ctx context.Context, endpointURL, secret, trigger string, data interface{}) error {
	if strings.TrimSpace(endpointURL) == "" {
		return errors.New("webhook endpoint url is empty")
	}

	body, err := json.Marshal(envelope{
		Event:     trigger,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(signatureHeader, SignPayload(body, secret))
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook delivery to %s failed: status=%d body=%s", endpointURL, resp.StatusCode, string(raw))
	}
	return nil
}

// SignPayload computes the hex HMAC-SHA256 the receiver verifies against.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
