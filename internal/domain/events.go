package domain

import "time"

// DomainEvent is implemented by all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

type baseEvent struct {
	occurredAt time.Time
}

func (e baseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func newBaseEvent() baseEvent {
	return baseEvent{occurredAt: time.Now().UTC()}
}

// TransactionCompletedEvent is emitted when a transaction reaches COMPLETED
type TransactionCompletedEvent struct {
	baseEvent
	TransactionID string
	Type          TransactionType
	ItemCount     int
}

func (e TransactionCompletedEvent) EventType() string {
	return "stock.transaction.completed"
}

// TransactionCancelledEvent is emitted when a transaction is rejected
type TransactionCancelledEvent struct {
	baseEvent
	TransactionID string
	Type          TransactionType
}

func (e TransactionCancelledEvent) EventType() string {
	return "stock.transaction.cancelled"
}

// RequestDecidedEvent is emitted when a material request is approved or rejected
type RequestDecidedEvent struct {
	baseEvent
	RequestID string
	Code      string
	Decision  string
}

func (e RequestDecidedEvent) EventType() string {
	return "material.request.decided"
}

// RequestCompletedEvent is emitted when a material request is received at the site
type RequestCompletedEvent struct {
	baseEvent
	RequestID string
	Code      string
}

func (e RequestCompletedEvent) EventType() string {
	return "material.request.completed"
}

// LowStockAlertEvent is emitted when a ledger application pushes an item's
// total stock at or below its minimum threshold
type LowStockAlertEvent struct {
	baseEvent
	ItemID     string
	SKU        string
	TotalStock int
	MinStock   int
}

func (e LowStockAlertEvent) EventType() string {
	return "inventory.item.low_stock"
}
