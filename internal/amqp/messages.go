package amqp

import (
	"encoding/json"
	"time"

	"bizops/internal/core"
)

// EventMessage is the wire form of a core.DomainEvent.
type EventMessage struct {
	Type        string    `json:"type"`
	EntityID    string    `json:"entity_id"`
	WalletKey   string    `json:"wallet_key,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Status      string    `json:"status,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	PublishedAt time.Time `json:"published_at"`
}

// NewEventMessage wraps ev, stamping the publish time.
func NewEventMessage(ev core.DomainEvent) *EventMessage {
	return &EventMessage{
		Type:        string(ev.Type),
		EntityID:    ev.EntityID,
		WalletKey:   ev.WalletKey,
		AmountCents: ev.AmountCents,
		Status:      ev.Status,
		Actor:       ev.Actor,
		OccurredAt:  ev.OccurredAt,
		PublishedAt: time.Now(),
	}
}

// Event converts the message back into a domain event.
func (m *EventMessage) Event() core.DomainEvent {
	return core.DomainEvent{
		Type:        core.EventType(m.Type),
		EntityID:    m.EntityID,
		WalletKey:   m.WalletKey,
		AmountCents: m.AmountCents,
		Status:      m.Status,
		Actor:       m.Actor,
		OccurredAt:  m.OccurredAt,
	}
}

func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
