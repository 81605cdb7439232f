package auth

import (
	"strings"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/domain"
)

// ProjectUser maps a raw auth account plus its profile row into the UserDTO
// that crosses the server boundary. The mapping is a pure allow-list: fields
// are copied one by one, so sensitive columns on either input can never leak
// through. The profile may be nil for freshly created accounts.
func ProjectUser(account *domain.Account, profile *domain.Profile) dto.UserDTO {
	out := dto.UserDTO{
		ID:        account.ID,
		Email:     account.Email,
		Role:      domain.RoleFan,
		Verified:  account.EmailVerified,
		CreatedAt: account.CreatedAt,
	}
	if profile != nil {
		if profile.Role.Valid() {
			out.Role = profile.Role
		}
		out.DisplayName = profile.DisplayName
		out.AvatarURL = profile.AvatarURL
		if profile.Verified {
			out.Verified = true
		}
	}
	if out.DisplayName == "" {
		out.DisplayName = displayNameFromEmail(account.Email)
	}
	return out
}

// displayNameFromEmail derives a fallback display name from the local part
// of the email address.
func displayNameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	return local
}
