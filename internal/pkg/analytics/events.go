package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Event names used for billing-derived records.
const (
	EventNameMonthlySubscription = "Monthly Subscription"
	EventNameYearlySubscription  = "Yearly Subscription"
	EventNameSignUp              = "Sign up"
)

// Event is one observational analytics record derived from a reconciled
// charge. It is write-once and never authoritative billing state.
type Event struct {
	EventID          string  `json:"event_id"`
	EventName        string  `json:"event_name"`
	Timestamp        string  `json:"timestamp"`
	CustomerID       string  `json:"customer_id"`
	PaymentProcessor string  `json:"payment_processor"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	InvoiceID        string  `json:"invoice_id"`
	Metadata         string  `json:"metadata"`
}

// NewEventID issues an identifier for a derived event.
func NewEventID() string {
	return uuid.NewString()
}

// Now formats the current instant the way the sink expects timestamps.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
