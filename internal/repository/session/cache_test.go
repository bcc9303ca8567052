package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-web/internal/domain"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failAll bool
	gets    int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.gets++
	if f.failAll {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	if f.failAll {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, exp time.Duration) *redis.BoolCmd {
	if f.failAll {
		return redis.NewBoolResult(false, errors.New("connection refused"))
	}
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.Set(ctx, key, value, exp)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failAll {
		return redis.NewIntResult(0, errors.New("connection refused"))
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			n++
		}
		delete(f.data, k)
	}
	return redis.NewIntResult(n, nil)
}

// memoryRepo is a lightweight in-memory session repository for tests.
type memoryRepo struct {
	sessions map[string]Session
	gets     int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: map[string]Session{}}
}

func (m *memoryRepo) Create(_ context.Context, s Session) (*Session, error) {
	if _, ok := m.sessions[s.ID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	m.sessions[s.ID] = s
	clone := s
	return &clone, nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (*Session, error) {
	m.gets++
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

func TestCachedRepo_ReadThrough(t *testing.T) {
	inner := newMemoryRepo()
	rdb := newFakeRedis()
	repo := NewCached(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	now := time.Now()
	inner.sessions["s1"] = Session{ID: "s1", Token: "tok", Identity: domain.Identity{ID: "u1", Name: "Ananya"}, ExpiresAt: now.Add(time.Hour)}

	first, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("expected one inner read, got %d", inner.gets)
	}
	if first.Identity.Name != "Ananya" || second.Identity.Name != "Ananya" {
		t.Fatalf("unexpected identities %+v %+v", first.Identity, second.Identity)
	}
	if rdb.ttls["session:s1"] != time.Minute {
		t.Fatalf("unexpected ttl %s", rdb.ttls["session:s1"])
	}
}

func TestCachedRepo_TTLBoundedBySessionExpiry(t *testing.T) {
	inner := newMemoryRepo()
	rdb := newFakeRedis()
	repo := NewCached(inner, rdb, time.Hour, nil).(*cachedRepo)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	if _, err := repo.Create(context.Background(), Session{ID: "s1", ExpiresAt: fixed.Add(10 * time.Second)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rdb.ttls["session:s1"] != 10*time.Second {
		t.Fatalf("expected ttl bounded to 10s, got %s", rdb.ttls["session:s1"])
	}
}

func TestCachedRepo_ReplaceIdentityWritesThrough(t *testing.T) {
	inner := newMemoryRepo()
	rdb := newFakeRedis()
	repo := NewCached(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	if _, err := repo.Create(ctx, Session{ID: "s1", Identity: domain.Identity{Name: "Old"}, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.ReplaceIdentity(ctx, "s1", domain.Identity{Name: "New"}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	reads := inner.gets
	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Identity.Name != "New" {
		t.Fatalf("expected replaced identity, got %+v", got.Identity)
	}
	if inner.gets != reads {
		t.Fatalf("expected the replaced record to be served from cache")
	}
}

// interleavedRepo runs beforeReturn once, after the record was read and
// before it is handed back.
type interleavedRepo struct {
	*memoryRepo
	beforeReturn func()
}

func (r *interleavedRepo) Get(ctx context.Context, id string) (*Session, error) {
	s, err := r.memoryRepo.Get(ctx, id)
	if hook := r.beforeReturn; hook != nil {
		r.beforeReturn = nil
		hook()
	}
	return s, err
}

func TestCachedRepo_StaleFillDoesNotOverwriteReplace(t *testing.T) {
	inner := &interleavedRepo{memoryRepo: newMemoryRepo()}
	rdb := newFakeRedis()
	repo := NewCached(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	inner.sessions["s1"] = Session{ID: "s1", Identity: domain.Identity{Name: "Old"}, ExpiresAt: time.Now().Add(time.Hour)}
	inner.beforeReturn = func() {
		if err := repo.ReplaceIdentity(ctx, "s1", domain.Identity{Name: "New"}); err != nil {
			t.Fatalf("replace: %v", err)
		}
	}

	if _, err := repo.Get(ctx, "s1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if got.Identity.Name != "New" {
		t.Fatalf("stale fill replaced the newer entry: %+v", got.Identity)
	}
}

func TestCachedRepo_RedisDownFallsBack(t *testing.T) {
	inner := newMemoryRepo()
	rdb := newFakeRedis()
	rdb.failAll = true
	repo := NewCached(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	if _, err := repo.Create(ctx, Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("create should survive redis failure: %v", err)
	}
	if _, err := repo.Get(ctx, "s1"); err != nil {
		t.Fatalf("get should survive redis failure: %v", err)
	}
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete should survive redis failure: %v", err)
	}
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	if (Session{}).Expired(now) {
		t.Fatalf("zero expiry never expires")
	}
	if !(Session{ExpiresAt: now}).Expired(now) {
		t.Fatalf("expiry instant counts as expired")
	}
}
