package core

import "time"

// EventType names a domain mutation.
type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingStatusChanged EventType = "booking.status_changed"
	EventBookingRemoved       EventType = "booking.removed"
	EventWalletCredited       EventType = "wallet.credited"
	EventWalletDebited        EventType = "wallet.debited"
	EventExpenseCreated       EventType = "expense.created"
	EventExpenseRemoved       EventType = "expense.removed"
)

// DomainEvent describes a mutation that already happened in memory. It is
// what the presentation layer turns into toasts and what the export worker
// listens to.
type DomainEvent struct {
	Type        EventType
	EntityID    string
	WalletKey   string
	AmountCents int64
	Status      string
	Actor       string
	OccurredAt  time.Time
}
