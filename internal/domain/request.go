package domain

import "time"

// Request captures what a fan asked a creator to record.
type Request struct {
	ID           string
	FanID        string
	CreatorID    string
	Occasion     string
	Instructions string
	CreatedAt    time.Time
}

// RequestOwnership is the minimal projection used by access checks.
type RequestOwnership struct {
	FanID     string
	CreatorID string
}
