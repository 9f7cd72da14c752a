package webhook

import (
	"time"

	"github.com/openbrick/brick-ledger/internal/domain"
)

// EventTypeWildcard is a special filter that matches all event types
const EventTypeWildcard = "*"

// WebhookEvent represents a webhook event to be delivered to clients
type WebhookEvent struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the dotted ledger event type (e.g. "token.transferred")
	EventType string `json:"event_type"`
	// Timestamp is when the event was generated
	Timestamp time.Time `json:"timestamp"`
	// Data contains the full ledger event payload
	Data domain.LedgerEvent `json:"data"`
}

// NewWebhookEvent wraps a ledger event for webhook delivery
func NewWebhookEvent(event domain.LedgerEvent) WebhookEvent {
	return WebhookEvent{
		EventID:   event.EventID,
		EventType: string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event,
	}
}

// DeliveryResult represents the result of a webhook delivery attempt
type DeliveryResult struct {
	// Success indicates whether the delivery was successful
	Success bool
	// StatusCode is the HTTP status code returned by the webhook endpoint
	StatusCode int
	// Error contains error details if delivery failed
	Error string
}
