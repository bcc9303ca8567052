package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront-web/internal/apiclient"
	"storefront-web/internal/domain"
	"storefront-web/internal/logging"
	sessionrepo "storefront-web/internal/repository/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCredentialsRequired is returned when email or password is blank.
var ErrCredentialsRequired = errors.New("email and password are required")

// Authenticator exchanges credentials for an API token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error)
}

// Service owns session lifecycle: start on login, lookup per request, end on logout.
type Service struct {
	repo   sessionrepo.Repository
	auth   Authenticator
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// New creates a Service. ttl caps how long a session lives even when the API
// token would allow longer.
func New(repo sessionrepo.Repository, auth Authenticator, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		auth:   auth,
		ttl:    ttl,
		now:    time.Now,
		logger: logging.OrNop(logger).Named("session"),
	}
}

// Start logs the customer in against the API and persists a new session.
func (s *Service) Start(ctx context.Context, email, password string) (*Handle, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec, err := s.repo.Create(ctx, sessionrepo.Session{
		ID:        uuid.NewString(),
		Token:     res.Token,
		Identity:  res.User,
		CreatedAt: now,
		ExpiresAt: s.expiry(now, res.Token),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session started", zap.String("session_id", rec.ID), zap.String("user_id", rec.Identity.ID))
	return &Handle{svc: s, rec: *rec}, nil
}

// Lookup returns the live session for id. Expired sessions are removed and
// reported as domain.ErrSessionExpired.
func (s *Service) Lookup(ctx context.Context, id string) (*Handle, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Expired(s.now()) {
		if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("delete expired session", zap.String("session_id", id), zap.Error(err))
		}
		return nil, domain.ErrSessionExpired
	}
	return &Handle{svc: s, rec: *rec}, nil
}

// End deletes the session. Ending an unknown session is not an error.
func (s *Service) End(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.logger.Info("session ended", zap.String("session_id", id))
	return nil
}

// PurgeExpired removes every expired session.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

// expiry is now+ttl, shortened to the token's own exp claim when it has one.
func (s *Service) expiry(now time.Time, token string) time.Time {
	exp := now.Add(s.ttl)
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return exp
	}
	tokenExp, err := claims.GetExpirationTime()
	if err != nil || tokenExp == nil {
		return exp
	}
	if tokenExp.Time.Before(exp) {
		return tokenExp.Time
	}
	return exp
}

// Handle is one session as seen by a dashboard: read the identity, replace it
// wholesale, or end the session.
type Handle struct {
	svc *Service

	mu  sync.RWMutex
	rec sessionrepo.Session
}

// ID is the session id stored in the browser cookie.
func (h *Handle) ID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.ID
}

// Token is the API bearer token of the session.
func (h *Handle) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.Token
}

// ExpiresAt is when the session stops being valid.
func (h *Handle) ExpiresAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.ExpiresAt
}

// CurrentIdentity returns a copy of the cached identity.
func (h *Handle) CurrentIdentity() domain.Identity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rec.Identity
}

// ReplaceIdentity persists identity and swaps the cached copy.
func (h *Handle) ReplaceIdentity(ctx context.Context, identity domain.Identity) error {
	id := h.ID()
	if err := h.svc.repo.ReplaceIdentity(ctx, id, identity); err != nil {
		return fmt.Errorf("replace identity: %w", err)
	}
	h.mu.Lock()
	h.rec.Identity = identity
	h.mu.Unlock()
	return nil
}

// EndSession deletes the session record.
func (h *Handle) EndSession(ctx context.Context) error {
	return h.svc.End(ctx, h.ID())
}
