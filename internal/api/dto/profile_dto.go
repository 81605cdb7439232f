package dto

// ProfileUpdate carries the fields a caller may change on their own profile.
// Nil means "leave unchanged". Anything not listed here is never written,
// regardless of what the request body contained.
type ProfileUpdate struct {
	DisplayName       *string           `json:"display_name,omitempty"`
	AvatarURL         *string           `json:"avatar_url,omitempty"`
	Bio               *string           `json:"bio,omitempty"`
	PriceCents        *int64            `json:"price_cents,omitempty"`
	ResponseTimeHours *int              `json:"response_time_hours,omitempty"`
	SocialLinks       map[string]string `json:"social_links,omitempty"`
	Categories        []string          `json:"categories,omitempty"`
	Languages         []string          `json:"languages,omitempty"`
}

// Empty reports whether the update carries no changes at all.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.AvatarURL == nil && u.Bio == nil &&
		u.PriceCents == nil && u.ResponseTimeHours == nil &&
		u.SocialLinks == nil && u.Categories == nil && u.Languages == nil
}

// CreatorSearch bundles the optional, independently combinable search filters.
type CreatorSearch struct {
	Query         *string  `json:"query,omitempty"`
	Category      *string  `json:"category,omitempty"`
	MinPriceCents *int64   `json:"min_price_cents,omitempty"`
	MaxPriceCents *int64   `json:"max_price_cents,omitempty"`
	Limit         int      `json:"limit"`
	Offset        int      `json:"offset"`
}
