package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/domain"
	"github.com/spec-kit/creator-platform/internal/repository"
)

// ErrCookieUnwritable signals that the current context cannot write response
// cookies (pure read/render paths). Read paths deliberately ignore it.
var ErrCookieUnwritable = errors.New("session cookie not writable in this context")

// CookieSink writes the session cookie on the response. A nil sink means the
// context is read-only.
type CookieSink interface {
	WriteSessionCookie(value string, expiresAt time.Time) error
}

// SessionDependencies bundles stores for the session manager.
type SessionDependencies struct {
	SessionRepo repository.SessionRepository
	AccountRepo repository.AccountRepository
	ProfileRepo repository.ProfileRepository
}

// SessionManager issues, destroys, and resolves cookie-backed sessions.
type SessionManager struct {
	sessions      repository.SessionRepository
	accounts      repository.AccountRepository
	profiles      repository.ProfileRepository
	codec         *CookieCodec
	ttl           time.Duration
	refreshWindow time.Duration
	logger        *zap.Logger
}

// NewSessionManager builds the manager.
func NewSessionManager(secret string, ttl, refreshWindow time.Duration, deps SessionDependencies, logger *zap.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if refreshWindow <= 0 || refreshWindow >= ttl {
		refreshWindow = ttl / 4
	}
	return &SessionManager{
		sessions:      deps.SessionRepo,
		accounts:      deps.AccountRepo,
		profiles:      deps.ProfileRepo,
		codec:         NewCookieCodec(secret),
		ttl:           ttl,
		refreshWindow: refreshWindow,
		logger:        logger,
	}
}

// IssueSession creates a server-side session for the user and returns the
// signed cookie value to set on the response.
func (m *SessionManager) IssueSession(ctx context.Context, userID string) (string, time.Time, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}
	value, err := m.codec.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return value, session.ExpiresAt, nil
}

// DestroySession deletes the session referenced by the cookie value. An
// unparseable cookie is treated as already logged out.
func (m *SessionManager) DestroySession(ctx context.Context, cookieValue string) error {
	sessionID, err := m.codec.Parse(cookieValue)
	if err != nil {
		return nil
	}
	return m.sessions.Delete(ctx, sessionID)
}

// NewResolver builds the per-request identity resolver for the given cookie
// value. The sink may be nil in contexts where the response is not writable.
func (m *SessionManager) NewResolver(cookieValue string, sink CookieSink) *Resolver {
	return &Resolver{manager: m, cookieValue: cookieValue, sink: sink}
}

// Resolver resolves the authenticated identity for exactly one request.
// The first Resolve performs the session, account, and profile round-trips;
// every later call returns the identical cached result. Resolvers are not
// shared across requests.
type Resolver struct {
	manager     *SessionManager
	cookieValue string
	sink        CookieSink

	mu         sync.Mutex
	resolved   bool
	identity   *dto.UserDTO
	refreshErr error
}

// Resolve returns the authenticated identity, or nil when the request has no
// valid session. "Not logged in" is a normal outcome, never an error; storage
// failures are logged and degrade to nil.
func (r *Resolver) Resolve(ctx context.Context) *dto.UserDTO {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return r.identity
	}
	r.resolved = true
	r.identity = r.resolve(ctx)
	return r.identity
}

// RefreshErr reports the outcome of the opportunistic cookie refresh, if one
// was attempted. Read paths ignore it; boundaries that must know whether the
// cookie was rewritten can inspect it after Resolve.
func (r *Resolver) RefreshErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshErr
}

func (r *Resolver) resolve(ctx context.Context) *dto.UserDTO {
	m := r.manager
	if r.cookieValue == "" {
		return nil
	}
	sessionID, err := m.codec.Parse(r.cookieValue)
	if err != nil {
		return nil
	}

	session, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			m.logger.Warn("session lookup failed", zap.Error(err))
		}
		return nil
	}
	if session.Expired(time.Now()) {
		_ = m.sessions.Delete(ctx, session.ID)
		return nil
	}

	account, err := m.accounts.GetByID(ctx, session.UserID)
	if err != nil {
		if !isNotFound(err) {
			m.logger.Warn("account lookup failed", zap.Error(err))
		}
		return nil
	}

	profile, err := m.profiles.GetByID(ctx, session.UserID)
	if err != nil {
		if !isNotFound(err) {
			m.logger.Warn("profile lookup failed", zap.Error(err))
			return nil
		}
		profile = nil
	}

	identity := ProjectUser(account, profile)
	r.maybeRefresh(ctx, session)
	return &identity
}

// maybeRefresh rotates sessions nearing expiry and rewrites the cookie. Any
// failure here must not abort the read: store errors are logged, and the
// cookie-write outcome is surfaced through RefreshErr only.
func (r *Resolver) maybeRefresh(ctx context.Context, session *domain.Session) {
	m := r.manager
	if time.Until(session.ExpiresAt) > m.refreshWindow {
		return
	}

	now := time.Now()
	rotated := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    session.UserID,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, rotated); err != nil {
		m.logger.Warn("session rotation failed", zap.Error(err))
		return
	}
	_ = m.sessions.Delete(ctx, session.ID)

	value, err := m.codec.Sign(rotated.ID, rotated.ExpiresAt)
	if err != nil {
		m.logger.Warn("session cookie signing failed", zap.Error(err))
		return
	}
	if r.sink == nil {
		r.refreshErr = ErrCookieUnwritable
		return
	}
	r.refreshErr = r.sink.WriteSessionCookie(value, rotated.ExpiresAt)
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
