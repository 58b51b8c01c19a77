package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lnking/lnking/internal/pkg/env"
)

const defaultFlutterwaveAPIBaseURL = "https://api.flutterwave.com/v3"

// FlutterwaveClient talks to the Flutterwave v3 REST API. The engine only
// uses it for opaque RPCs: checkout initiation, transaction verification and
// subscription cancellation.
type FlutterwaveClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

// CheckoutCustomer identifies the paying user during checkout initiation.
type CheckoutCustomer struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// CheckoutRequest is the payload for initiating a hosted payment.
type CheckoutRequest struct {
	TxRef       string           `json:"tx_ref"`
	Amount      float64          `json:"amount"`
	Currency    string           `json:"currency"`
	RedirectURL string           `json:"redirect_url"`
	Customer    CheckoutCustomer `json:"customer"`
	PaymentPlan string           `json:"payment_plan,omitempty"`
}

// CheckoutSession is the hosted payment link returned by the provider.
type CheckoutSession struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// Transaction is the provider's view of a charge, used for verification.
type Transaction struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    WebhookData `json:"data"`
}

// ProviderResult is the generic status/message envelope of mutation RPCs.
type ProviderResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewFlutterwaveClientFromEnv builds a client from FLUTTERWAVE_* variables.
func NewFlutterwaveClientFromEnv() *FlutterwaveClient {
	return &FlutterwaveClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("FLUTTERWAVE_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("FLUTTERWAVE_API_BASE_URL", defaultFlutterwaveAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// InitiateCheckout starts a hosted payment session.
func (c *FlutterwaveClient) InitiateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if strings.TrimSpace(req.TxRef) == "" {
		return nil, errors.New("tx_ref is required")
	}
	var out CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTransaction fetches the authoritative state of a charge by id.
func (c *FlutterwaveClient) VerifyTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	id := strings.TrimSpace(transactionID)
	if id == "" {
		return nil, errors.New("transaction id is required")
	}
	var out Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+id+"/verify", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelSubscription cancels a provider subscription by its opaque id.
func (c *FlutterwaveClient) CancelSubscription(ctx context.Context, subscriptionID string) (*ProviderResult, error) {
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return nil, errors.New("subscription id is required")
	}
	var out ProviderResult
	if err := c.do(ctx, http.MethodPut, "/subscriptions/"+id+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *FlutterwaveClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("FLUTTERWAVE_SECRET_KEY is not configured")
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIBaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("flutterwave %s %s failed: status=%d body=%s", method, path, resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
