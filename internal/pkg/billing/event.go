package billing

import (
	"encoding/json"
	"strings"
)

// EventKind names the webhook event variants the engine models.
type EventKind string

const (
	EventChargeCompleted       EventKind = "charge.completed"
	EventSubscriptionCreated   EventKind = "subscription.created"
	EventSubscriptionCancelled EventKind = "subscription.cancelled"
	EventSubscriptionDisabled  EventKind = "subscription.disabled"
	EventUnknown               EventKind = "unknown"
)

// WebhookCustomer is the customer identity embedded in webhook payloads.
type WebhookCustomer struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// WebhookData is the transaction payload of a webhook event.
type WebhookData struct {
	ID          int             `json:"id"`
	TxRef       string          `json:"tx_ref"`
	FlwRef      string          `json:"flw_ref"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	PaymentType string          `json:"payment_type"`
	Customer    WebhookCustomer `json:"customer"`
}

// NotificationEvent is one inbound webhook, immutable once parsed.
type NotificationEvent struct {
	Kind EventKind
	Data WebhookData
}

// ParseNotificationEvent decodes a raw webhook body. Events with a name the
// engine does not model come back with EventUnknown rather than an error so
// the caller can acknowledge them without retries.
func ParseNotificationEvent(payload []byte) (NotificationEvent, error) {
	var raw struct {
		Event string      `json:"event"`
		Data  WebhookData `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return NotificationEvent{}, err
	}

	kind := EventUnknown
	switch EventKind(strings.ToLower(strings.TrimSpace(raw.Event))) {
	case EventChargeCompleted:
		kind = EventChargeCompleted
	case EventSubscriptionCreated:
		kind = EventSubscriptionCreated
	case EventSubscriptionCancelled:
		kind = EventSubscriptionCancelled
	case EventSubscriptionDisabled:
		kind = EventSubscriptionDisabled
	}

	return NotificationEvent{Kind: kind, Data: raw.Data}, nil
}
