package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/auth"
	"github.com/spec-kit/creator-platform/internal/domain"
	"github.com/spec-kit/creator-platform/internal/repository"
)

type stubAccountStore struct {
	byID    map[string]*domain.Account
	byEmail map[string]*domain.Account
}

func newStubAccountStore() *stubAccountStore {
	return &stubAccountStore{
		byID:    map[string]*domain.Account{},
		byEmail: map[string]*domain.Account{},
	}
}

func (s *stubAccountStore) Create(_ context.Context, account *domain.Account) error {
	account.ID = uuid.NewString()
	account.CreatedAt = time.Now()
	s.byID[account.ID] = account
	s.byEmail[account.Email] = account
	return nil
}

func (s *stubAccountStore) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (s *stubAccountStore) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	account, ok := s.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func (s *stubSessionStore) Create(_ context.Context, session *domain.Session) error {
	if s.sessions == nil {
		s.sessions = map[string]*domain.Session{}
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func newAuthService(accounts *stubAccountStore, profiles *stubProfileRepo, sessions *stubSessionStore) *AuthService {
	logger := zap.NewNop()
	manager := auth.NewSessionManager("test-secret", 24*time.Hour, time.Hour, auth.SessionDependencies{
		SessionRepo: sessions,
		AccountRepo: accounts,
		ProfileRepo: profiles,
	}, logger)
	return NewAuthService(AuthDependencies{
		AccountRepo: accounts,
		ProfileRepo: profiles,
		Sessions:    manager,
	}, 4, logger) // minimal bcrypt cost keeps the test fast
}

func TestRegister(t *testing.T) {
	accounts := newStubAccountStore()
	profiles := &stubProfileRepo{profiles: map[string]*domain.Profile{}}
	sessions := &stubSessionStore{}
	svc := newAuthService(accounts, profiles, sessions)

	ident, cookie, expiresAt, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:       "  Ana@Example.COM ",
		Password:    "hunter22",
		DisplayName: "Ana",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if ident.Email != "ana@example.com" {
		t.Errorf("email must be normalized, got %q", ident.Email)
	}
	if ident.Role != domain.RoleFan {
		t.Errorf("new accounts start as fans, got %s", ident.Role)
	}
	if cookie == "" || expiresAt.Before(time.Now()) {
		t.Error("registration must start a session")
	}
	if len(sessions.sessions) != 1 {
		t.Errorf("expected one stored session, got %d", len(sessions.sessions))
	}

	account := accounts.byEmail["ana@example.com"]
	if account == nil {
		t.Fatal("account not stored")
	}
	if account.PasswordHash == "hunter22" || account.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if _, ok := profiles.profiles[account.ID]; !ok {
		t.Error("registration must create the profile row")
	}

	if _, _, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "other",
	}); err == nil {
		t.Error("duplicate email must be rejected")
	}
}

func TestLogin(t *testing.T) {
	accounts := newStubAccountStore()
	profiles := &stubProfileRepo{profiles: map[string]*domain.Profile{}}
	svc := newAuthService(accounts, profiles, &stubSessionStore{})

	if _, _, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
	}); err != nil {
		t.Fatalf("seed register: %v", err)
	}

	ident, cookie, _, err := svc.Login(context.Background(), "ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if ident.Email != "ana@example.com" || cookie == "" {
		t.Errorf("unexpected login result: %+v", ident)
	}

	if _, _, _, err := svc.Login(context.Background(), "ana@example.com", "wrong"); err == nil {
		t.Error("wrong password must fail")
	}
	if _, _, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); err == nil {
		t.Error("unknown email must fail")
	}
}

func TestLogout(t *testing.T) {
	accounts := newStubAccountStore()
	sessions := &stubSessionStore{}
	svc := newAuthService(accounts, &stubProfileRepo{profiles: map[string]*domain.Profile{}}, sessions)

	_, cookie, _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("seed register: %v", err)
	}

	if err := svc.Logout(context.Background(), cookie); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Error("logout must delete the session")
	}

	if err := svc.Logout(context.Background(), "mangled"); err != nil {
		t.Errorf("mangled cookie logout must be a no-op, got %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("empty cookie logout must be a no-op, got %v", err)
	}
}
