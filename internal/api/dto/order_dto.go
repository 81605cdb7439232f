package dto

import "github.com/spec-kit/creator-platform/internal/domain"

// OrderCreateRequest payload for placing an order.
type OrderCreateRequest struct {
	CreatorID    string `json:"creator_id"`
	Occasion     string `json:"occasion"`
	Instructions string `json:"instructions"`
	AmountCents  int64  `json:"amount_cents"`
}

// OrderStatusRequest payload for creator-driven status advances.
type OrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}
