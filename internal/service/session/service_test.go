package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-web/internal/apiclient"
	"storefront-web/internal/domain"
	sessionrepo "storefront-web/internal/repository/session"

	"github.com/golang-jwt/jwt/v5"
)

type memoryRepo struct {
	sessions map[string]sessionrepo.Session
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: map[string]sessionrepo.Session{}}
}

func (m *memoryRepo) Create(_ context.Context, s sessionrepo.Session) (*sessionrepo.Session, error) {
	if _, ok := m.sessions[s.ID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	m.sessions[s.ID] = s
	clone := s
	return &clone, nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (*sessionrepo.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *memoryRepo) ReplaceIdentity(_ context.Context, id string, identity domain.Identity) error {
	s, ok := m.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Identity = identity
	m.sessions[id] = s
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memoryRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type stubAuth struct {
	result *apiclient.LoginResult
	err    error
	calls  int
}

func (s *stubAuth) Login(_ context.Context, _, _ string) (*apiclient.LoginResult, error) {
	s.calls++
	return s.result, s.err
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "exp": exp.Unix()}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestStart_PersistsSessionWithIdentity(t *testing.T) {
	repo := newMemoryRepo()
	auth := &stubAuth{result: &apiclient.LoginResult{Token: "opaque", User: domain.Identity{ID: "u1", Name: "Ananya"}}}
	svc := New(repo, auth, time.Hour, nil)

	h, err := svc.Start(context.Background(), "  Ananya@Example.com ", "pw")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if h.CurrentIdentity().Name != "Ananya" || h.Token() != "opaque" {
		t.Fatalf("unexpected handle %+v", h.rec)
	}
	if _, ok := repo.sessions[h.ID()]; !ok {
		t.Fatalf("session not persisted")
	}
}

func TestStart_RequiresCredentials(t *testing.T) {
	auth := &stubAuth{}
	svc := New(newMemoryRepo(), auth, time.Hour, nil)
	if _, err := svc.Start(context.Background(), " ", "pw"); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("expected ErrCredentialsRequired, got %v", err)
	}
	if auth.calls != 0 {
		t.Fatalf("api must not be called without credentials")
	}
}

func TestStart_PropagatesLoginError(t *testing.T) {
	auth := &stubAuth{err: &apiclient.Error{Status: 401, Message: "Invalid email or password"}}
	svc := New(newMemoryRepo(), auth, time.Hour, nil)
	_, err := svc.Start(context.Background(), "a@example.com", "bad")
	if err == nil || err.Error() != "Invalid email or password" {
		t.Fatalf("expected server message, got %v", err)
	}
}

func TestExpiry_UsesShorterTokenExpiry(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := New(newMemoryRepo(), &stubAuth{}, 24*time.Hour, nil)

	short := signedToken(t, fixed.Add(2*time.Hour))
	if got := svc.expiry(fixed, short); !got.Equal(fixed.Add(2 * time.Hour)) {
		t.Fatalf("expected token expiry, got %s", got)
	}
	long := signedToken(t, fixed.Add(48*time.Hour))
	if got := svc.expiry(fixed, long); !got.Equal(fixed.Add(24 * time.Hour)) {
		t.Fatalf("expected ttl cap, got %s", got)
	}
	if got := svc.expiry(fixed, "not-a-jwt"); !got.Equal(fixed.Add(24 * time.Hour)) {
		t.Fatalf("expected ttl for opaque token, got %s", got)
	}
}

func TestLookup_ExpiredSessionIsRemoved(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, &stubAuth{}, time.Hour, nil)
	id := "7d2b8a4e-1f7c-4c55-9d0c-0f2a6b1e3c44"
	repo.sessions[id] = sessionrepo.Session{ID: id, ExpiresAt: time.Now().Add(-time.Minute)}

	if _, err := svc.Lookup(context.Background(), id); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := repo.sessions[id]; ok {
		t.Fatalf("expired session should be deleted")
	}
}

func TestLookup_RejectsMalformedID(t *testing.T) {
	svc := New(newMemoryRepo(), &stubAuth{}, time.Hour, nil)
	if _, err := svc.Lookup(context.Background(), "../etc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandle_ReplaceIdentityIsWholesale(t *testing.T) {
	repo := newMemoryRepo()
	auth := &stubAuth{result: &apiclient.LoginResult{Token: "t", User: domain.Identity{ID: "u1", Name: "Old", Phone: "1", ProfilePhoto: "/a.png"}}}
	svc := New(repo, auth, time.Hour, nil)
	h, err := svc.Start(context.Background(), "a@example.com", "pw")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	next := domain.Identity{ID: "u1", Name: "New"}
	if err := h.ReplaceIdentity(context.Background(), next); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if h.CurrentIdentity() != next {
		t.Fatalf("expected wholesale replacement, got %+v", h.CurrentIdentity())
	}
	if repo.sessions[h.ID()].Identity != next {
		t.Fatalf("repository not updated")
	}

	if err := h.EndSession(context.Background()); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := svc.End(context.Background(), h.ID()); err != nil {
		t.Fatalf("ending twice should be fine: %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, &stubAuth{}, time.Hour, nil)
	repo.sessions["a"] = sessionrepo.Session{ID: "a", ExpiresAt: time.Now().Add(-time.Hour)}
	repo.sessions["b"] = sessionrepo.Session{ID: "b", ExpiresAt: time.Now().Add(time.Hour)}

	n, err := svc.PurgeExpired(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected one purged, got %d %v", n, err)
	}
}
