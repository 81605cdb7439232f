package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/auth"
	"github.com/spec-kit/creator-platform/internal/domain"
	"github.com/spec-kit/creator-platform/internal/repository"
)

// AuthService coordinates registration, login, and logout. Successful calls
// issue a server-side session and return the signed cookie value to set.
type AuthService struct {
	accounts   repository.AccountRepository
	profiles   repository.ProfileRepository
	sessions   *auth.SessionManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	ProfileRepo repository.ProfileRepository
	Sessions    *auth.SessionManager
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies, bcryptCost int, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		profiles:   deps.ProfileRepo,
		sessions:   deps.Sessions,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates an account plus its fan-role profile and starts a session.
func (s *AuthService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.UserDTO, string, time.Time, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, "", time.Time{}, errors.New("email and password required")
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", time.Time{}, err
	}

	profile := &domain.Profile{
		ID:          account.ID,
		Email:       email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        domain.RoleFan,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, "", time.Time{}, err
	}

	cookie, expiresAt, err := s.sessions.IssueSession(ctx, account.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	ident := auth.ProjectUser(account, profile)
	return &ident, cookie, expiresAt, nil
}

// Login authenticates credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.UserDTO, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errors.New("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}

	profile, err := s.profiles.GetByID(ctx, account.ID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, err
		}
		profile = nil
	}

	cookie, expiresAt, err := s.sessions.IssueSession(ctx, account.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	ident := auth.ProjectUser(account, profile)
	return &ident, cookie, expiresAt, nil
}

// Logout destroys the session behind the cookie value. Unknown or mangled
// cookies are treated as already logged out.
func (s *AuthService) Logout(ctx context.Context, cookieValue string) error {
	if cookieValue == "" {
		return nil
	}
	return s.sessions.DestroySession(ctx, cookieValue)
}
