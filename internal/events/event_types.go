package events

import "time"

// EventType enumerates audit event identifiers.
type EventType string

const (
	EventAccountRegistered  EventType = "account_registered"
	EventAccountConfirmed   EventType = "account_confirmed"
	EventAccountDeleted     EventType = "account_deleted"
	EventPasswordReset      EventType = "password_reset"
	EventCustomerCreated    EventType = "customer_created"
	EventCustomerDeleted    EventType = "customer_deleted"
	EventInvoiceCreated     EventType = "invoice_created"
	EventInvoiceDeleted     EventType = "invoice_deleted"
	EventStalePatchRejected EventType = "stale_patch_rejected"
)

// Event represents an audit event emitted by services. Payloads carry only
// identifiers and field names, never credentials or tokens.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	AccountID string         `json:"account_id"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// StalePatchPayload builds the payload for a rejected stale patch.
func StalePatchPayload(entity, entityID string, clientTime time.Time) map[string]any {
	return map[string]any{
		"entity":      entity,
		"entity_id":   entityID,
		"client_time": clientTime,
	}
}
