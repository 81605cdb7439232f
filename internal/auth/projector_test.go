package auth

import (
	"testing"
	"time"

	"github.com/spec-kit/creator-platform/internal/domain"
)

func TestProjectUser(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	account := &domain.Account{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: "$2a$12$secret",
		CreatedAt:    created,
	}

	t.Run("with profile", func(t *testing.T) {
		profile := &domain.Profile{
			ID:          "u1",
			Role:        domain.RoleCreator,
			DisplayName: "Ana",
			AvatarURL:   "https://cdn.example.com/a.png",
			Verified:    true,
		}
		got := ProjectUser(account, profile)
		if got.ID != "u1" || got.Email != "ana@example.com" || got.CreatedAt != created {
			t.Errorf("identity fields not copied: %+v", got)
		}
		if got.Role != domain.RoleCreator || got.DisplayName != "Ana" || !got.Verified {
			t.Errorf("profile fields not copied: %+v", got)
		}
	})

	t.Run("nil profile defaults", func(t *testing.T) {
		got := ProjectUser(account, nil)
		if got.Role != domain.RoleFan {
			t.Errorf("role must default to fan, got %s", got.Role)
		}
		if got.DisplayName != "ana" {
			t.Errorf("display name must fall back to email local part, got %q", got.DisplayName)
		}
		if got.Verified {
			t.Error("unverified account must project unverified")
		}
	})

	t.Run("invalid profile role falls back to fan", func(t *testing.T) {
		got := ProjectUser(account, &domain.Profile{ID: "u1", Role: domain.Role("owner")})
		if got.Role != domain.RoleFan {
			t.Errorf("invalid role must project as fan, got %s", got.Role)
		}
	})

	t.Run("account verification carries without profile flag", func(t *testing.T) {
		verified := *account
		verified.EmailVerified = true
		got := ProjectUser(&verified, &domain.Profile{ID: "u1", Role: domain.RoleFan})
		if !got.Verified {
			t.Error("email-verified account must project verified")
		}
	})
}

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec := NewCookieCodec("unit-secret")

	value, err := codec.Sign("sess-42", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	got, err := codec.Parse(value)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "sess-42" {
		t.Errorf("got session id %q", got)
	}
}

func TestCookieCodec_RejectsBadInput(t *testing.T) {
	codec := NewCookieCodec("unit-secret")

	if _, err := codec.Parse("not-a-token"); err == nil {
		t.Error("garbage must not parse")
	}

	other := NewCookieCodec("different-secret")
	value, err := other.Sign("sess-42", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := codec.Parse(value); err == nil {
		t.Error("foreign signature must not parse")
	}

	expired, err := codec.Sign("sess-42", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := codec.Parse(expired); err == nil {
		t.Error("expired token must not parse")
	}
}
