package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates checkout lifecycle events.
type EventType string

const (
	EventHandedOff EventType = "checkout.handed_off"
	EventRejected  EventType = "checkout.rejected"
)

// Event is published after a hand-off completes either way.
type Event struct {
	Type       EventType `json:"type"`
	HandoffID  uuid.UUID `json:"handoffId"`
	Reference  string    `json:"reference,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	GrandTotal string    `json:"grandTotal"`
	ItemCount  int       `json:"itemCount"`
	CustomerID string    `json:"customerId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent summarises a hand-off and its decision.
func NewEvent(eventType EventType, handoff *Handoff, decision *Decision, now time.Time) Event {
	event := Event{
		Type:       eventType,
		HandoffID:  handoff.ID,
		GrandTotal: handoff.Amount().StringFixed(2),
		ItemCount:  handoff.Totals.ItemCount,
		CustomerID: handoff.Customer.ID,
		OccurredAt: now.UTC(),
	}
	if decision != nil {
		event.Reference = decision.Reference
		event.Reason = decision.Reason
	}
	return event
}
