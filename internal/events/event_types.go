package events

import (
	"time"

	"github.com/spec-kit/creator-platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventOrderCancelled     EventType = "order_cancelled"
	EventProfileUpdated     EventType = "profile_updated"
)

// Event represents a domain event emitted by the accessors.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID     string `json:"order_id"`
	CreatorID   string `json:"creator_id"`
	AmountCents int64  `json:"amount_cents"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OrderID   string             `json:"order_id"`
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// OrderCancelledPayload payload.
type OrderCancelledPayload struct {
	OrderID string `json:"order_id"`
}

// ProfileUpdatedPayload payload.
type ProfileUpdatedPayload struct {
	ProfileID string   `json:"profile_id"`
	Fields    []string `json:"fields"`
}
