package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/creator-platform/internal/domain"
	"github.com/spec-kit/creator-platform/internal/repository"
)

type stubSessionRepo struct {
	sessions map[string]*domain.Session
	created  []*domain.Session
	deleted  []string
	getErr   error
}

func (s *stubSessionRepo) Create(_ context.Context, session *domain.Session) error {
	if s.sessions == nil {
		s.sessions = map[string]*domain.Session{}
	}
	s.sessions[session.ID] = session
	s.created = append(s.created, session)
	return nil
}

func (s *stubSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *stubSessionRepo) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	calls    int
}

func (s *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	if s.accounts == nil {
		s.accounts = map[string]*domain.Account{}
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *stubAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	s.calls++
	account, ok := s.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (s *stubAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubAuthProfileRepo struct {
	profiles map[string]*domain.Profile
}

func (s *stubAuthProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	if s.profiles == nil {
		s.profiles = map[string]*domain.Profile{}
	}
	s.profiles[profile.ID] = profile
	return nil
}

func (s *stubAuthProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return profile, nil
}

func (s *stubAuthProfileRepo) GetCreatorByID(_ context.Context, _ string) (*domain.CreatorProfile, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubAuthProfileRepo) Search(_ context.Context, _ repository.CreatorFilter) ([]domain.Profile, error) {
	return nil, nil
}

func (s *stubAuthProfileRepo) UpdateFields(_ context.Context, _ string, _ repository.ProfileFields) error {
	return nil
}

type recordingSink struct {
	value     string
	expiresAt time.Time
	writes    int
	err       error
}

func (s *recordingSink) WriteSessionCookie(value string, expiresAt time.Time) error {
	s.writes++
	s.value = value
	s.expiresAt = expiresAt
	return s.err
}

func newTestManager(sessions *stubSessionRepo, accounts *stubAccountRepo, profiles *stubAuthProfileRepo, ttl, refreshWindow time.Duration) *SessionManager {
	return NewSessionManager("test-secret", ttl, refreshWindow, SessionDependencies{
		SessionRepo: sessions,
		AccountRepo: accounts,
		ProfileRepo: profiles,
	}, zap.NewNop())
}

func seedSession(t *testing.T, m *SessionManager, sessions *stubSessionRepo, userID string, expiresAt time.Time) string {
	t.Helper()
	session := &domain.Session{
		ID:        "sess-1",
		UserID:    userID,
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := sessions.Create(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	value, err := m.codec.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		t.Fatalf("sign cookie: %v", err)
	}
	return value
}

func TestResolver_MemoizesAcrossCalls(t *testing.T) {
	sessions := &stubSessionRepo{}
	accounts := &stubAccountRepo{accounts: map[string]*domain.Account{
		"u1": {ID: "u1", Email: "ana@example.com", CreatedAt: time.Now()},
	}}
	profiles := &stubAuthProfileRepo{profiles: map[string]*domain.Profile{
		"u1": {ID: "u1", Role: domain.RoleCreator, DisplayName: "Ana"},
	}}
	m := newTestManager(sessions, accounts, profiles, 24*time.Hour, time.Hour)
	cookie := seedSession(t, m, sessions, "u1", time.Now().Add(24*time.Hour))

	resolver := m.NewResolver(cookie, nil)
	first := resolver.Resolve(context.Background())
	second := resolver.Resolve(context.Background())

	if first == nil {
		t.Fatal("expected identity")
	}
	if first != second {
		t.Error("second Resolve must return the identical cached pointer")
	}
	if accounts.calls != 1 {
		t.Errorf("expected a single account lookup, got %d", accounts.calls)
	}
	if first.ID != "u1" || first.Role != domain.RoleCreator || first.DisplayName != "Ana" {
		t.Errorf("unexpected identity: %+v", first)
	}
}

func TestResolver_NegativeOutcomes(t *testing.T) {
	accounts := &stubAccountRepo{accounts: map[string]*domain.Account{
		"u1": {ID: "u1", Email: "ana@example.com"},
	}}

	t.Run("no cookie", func(t *testing.T) {
		m := newTestManager(&stubSessionRepo{}, accounts, &stubAuthProfileRepo{}, 24*time.Hour, time.Hour)
		if m.NewResolver("", nil).Resolve(context.Background()) != nil {
			t.Error("empty cookie must resolve to nil")
		}
	})

	t.Run("garbage cookie", func(t *testing.T) {
		m := newTestManager(&stubSessionRepo{}, accounts, &stubAuthProfileRepo{}, 24*time.Hour, time.Hour)
		if m.NewResolver("not-a-token", nil).Resolve(context.Background()) != nil {
			t.Error("unparseable cookie must resolve to nil")
		}
	})

	t.Run("session missing from store", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		m := newTestManager(sessions, accounts, &stubAuthProfileRepo{}, 24*time.Hour, time.Hour)
		value, err := m.codec.Sign("gone", time.Now().Add(time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if m.NewResolver(value, nil).Resolve(context.Background()) != nil {
			t.Error("missing session must resolve to nil")
		}
	})

	t.Run("expired session is purged", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		m := newTestManager(sessions, accounts, &stubAuthProfileRepo{}, 24*time.Hour, time.Hour)
		session := &domain.Session{ID: "sess-old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)}
		_ = sessions.Create(context.Background(), session)
		value, err := m.codec.Sign(session.ID, time.Now().Add(time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if m.NewResolver(value, nil).Resolve(context.Background()) != nil {
			t.Error("expired session must resolve to nil")
		}
		if len(sessions.deleted) != 1 || sessions.deleted[0] != "sess-old" {
			t.Errorf("expired session should be deleted, got %v", sessions.deleted)
		}
	})

	t.Run("store failure degrades to nil", func(t *testing.T) {
		sessions := &stubSessionRepo{getErr: errors.New("redis down")}
		m := newTestManager(sessions, accounts, &stubAuthProfileRepo{}, 24*time.Hour, time.Hour)
		value, err := m.codec.Sign("sess-1", time.Now().Add(time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if m.NewResolver(value, nil).Resolve(context.Background()) != nil {
			t.Error("store failure must resolve to nil, not error")
		}
	})

	t.Run("account without profile still resolves", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		m := newTestManager(sessions, accounts, &stubAuthProfileRepo{}, 24*time.Hour, time.Hour)
		cookie := seedSession(t, m, sessions, "u1", time.Now().Add(24*time.Hour))
		ident := m.NewResolver(cookie, nil).Resolve(context.Background())
		if ident == nil {
			t.Fatal("profile-less account must still resolve")
		}
		if ident.Role != domain.RoleFan {
			t.Errorf("role must default to fan, got %s", ident.Role)
		}
		if ident.DisplayName != "ana" {
			t.Errorf("display name must fall back to email local part, got %q", ident.DisplayName)
		}
	})
}

func TestResolver_RefreshNearExpiry(t *testing.T) {
	accounts := &stubAccountRepo{accounts: map[string]*domain.Account{
		"u1": {ID: "u1", Email: "ana@example.com"},
	}}

	t.Run("rotates and rewrites cookie", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		m := newTestManager(sessions, accounts, &stubAuthProfileRepo{}, 24*time.Hour, 2*time.Hour)
		cookie := seedSession(t, m, sessions, "u1", time.Now().Add(time.Hour))

		sink := &recordingSink{}
		resolver := m.NewResolver(cookie, sink)
		if resolver.Resolve(context.Background()) == nil {
			t.Fatal("expected identity")
		}
		if sink.writes != 1 {
			t.Fatalf("expected one cookie write, got %d", sink.writes)
		}
		if len(sessions.created) != 2 {
			t.Fatalf("expected a rotated session, created=%d", len(sessions.created))
		}
		rotated := sessions.created[1]
		if rotated.ID == "sess-1" || rotated.UserID != "u1" {
			t.Errorf("bad rotated session: %+v", rotated)
		}
		if len(sessions.deleted) != 1 || sessions.deleted[0] != "sess-1" {
			t.Errorf("old session should be deleted, got %v", sessions.deleted)
		}
		if gotID, err := m.codec.Parse(sink.value); err != nil || gotID != rotated.ID {
			t.Errorf("rewritten cookie must reference the rotated session: id=%q err=%v", gotID, err)
		}
		if resolver.RefreshErr() != nil {
			t.Errorf("successful refresh must leave RefreshErr nil, got %v", resolver.RefreshErr())
		}
	})

	t.Run("nil sink surfaces unwritable", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		m := newTestManager(sessions, accounts, &stubAuthProfileRepo{}, 24*time.Hour, 2*time.Hour)
		cookie := seedSession(t, m, sessions, "u1", time.Now().Add(time.Hour))

		resolver := m.NewResolver(cookie, nil)
		if resolver.Resolve(context.Background()) == nil {
			t.Fatal("read path must still resolve")
		}
		if !errors.Is(resolver.RefreshErr(), ErrCookieUnwritable) {
			t.Errorf("expected ErrCookieUnwritable, got %v", resolver.RefreshErr())
		}
	})

	t.Run("far from expiry does nothing", func(t *testing.T) {
		sessions := &stubSessionRepo{}
		m := newTestManager(sessions, accounts, &stubAuthProfileRepo{}, 24*time.Hour, time.Hour)
		cookie := seedSession(t, m, sessions, "u1", time.Now().Add(24*time.Hour))

		sink := &recordingSink{}
		resolver := m.NewResolver(cookie, sink)
		if resolver.Resolve(context.Background()) == nil {
			t.Fatal("expected identity")
		}
		if sink.writes != 0 || len(sessions.created) != 1 {
			t.Error("no refresh expected far from expiry")
		}
	})
}

func TestSessionManager_IssueAndDestroy(t *testing.T) {
	sessions := &stubSessionRepo{}
	m := newTestManager(sessions, &stubAccountRepo{}, &stubAuthProfileRepo{}, 24*time.Hour, time.Hour)

	value, expiresAt, err := m.IssueSession(context.Background(), "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) < 23*time.Hour {
		t.Errorf("expiry too close: %v", expiresAt)
	}
	sessionID, err := m.codec.Parse(value)
	if err != nil {
		t.Fatalf("parse issued cookie: %v", err)
	}
	if _, ok := sessions.sessions[sessionID]; !ok {
		t.Error("issued session must exist in the store")
	}

	if err := m.DestroySession(context.Background(), value); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, ok := sessions.sessions[sessionID]; ok {
		t.Error("destroyed session must be gone")
	}

	if err := m.DestroySession(context.Background(), "garbage"); err != nil {
		t.Errorf("garbage cookie destroy must be a no-op, got %v", err)
	}
}
