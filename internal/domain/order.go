package domain

import "time"

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// Order is a paid personalized-video order placed by a fan against a creator.
// Monetary fields are integer cents; CreatorEarningsCents + PlatformFeeCents
// always equals AmountCents.
type Order struct {
	ID                   string
	UserID               string
	CreatorID            string
	RequestID            string
	AmountCents          int64
	PlatformFeeCents     int64
	CreatorEarningsCents int64
	Status               OrderStatus
	CreatedAt            time.Time
	AcceptedAt           *time.Time
	CompletedAt          *time.Time

	// Denormalized display summaries attached on read.
	CreatorName      string
	CreatorAvatarURL string
	RequestOccasion  string
}

// OrderOwnership is the minimal projection loaded for authorization checks:
// the two owning parties plus the stored status, never the full record.
type OrderOwnership struct {
	UserID    string
	CreatorID string
	Status    OrderStatus
	CreatedAt time.Time
}
