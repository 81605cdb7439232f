package domain

import "time"

// Role enumerates the marketplace roles.
type Role string

const (
	RoleFan     Role = "fan"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleFan, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// Profile is the public identity record for any account. Creator-only
// commercial fields are nil/zero for fans and admins.
type Profile struct {
	ID                string
	Email             string
	DisplayName       string
	AvatarURL         string
	Bio               string
	Role              Role
	PriceCents        *int64
	ResponseTimeHours *int
	Rating            *float64
	ReviewCount       int
	Verified          bool
	SocialLinks       map[string]string
	Categories        []string
	Languages         []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SubscriptionTier is a creator-defined recurring offering.
type SubscriptionTier struct {
	ID         string
	CreatorID  string
	Name       string
	PriceCents int64
	Perks      []string
}

// CreatorProfile extends Profile with commercial metadata that only exists
// for accounts whose role is creator.
type CreatorProfile struct {
	Profile
	TotalEarningsCents int64
	CompletedOrders    int
	ResponseRate       float64
	Tiers              []SubscriptionTier
}

// CreatorRank is one row of the top-creators ranking.
type CreatorRank struct {
	CreatorID       string
	DisplayName     string
	AvatarURL       string
	Rating          float64
	CompletedOrders int
	Score           float64
}
