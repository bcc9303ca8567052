package dashboard

import (
	"context"
	"testing"
	"time"
)

func TestRegistry_OpenReusesDashboard(t *testing.T) {
	r := NewRegistry(Options{LoaderTimeout: time.Second})
	api := &stubAPI{}
	sess := &fakeSession{identity: testIdentity()}

	a := r.Open(context.Background(), "s1", sess, api)
	b := r.Open(context.Background(), "s1", sess, api)
	if a != b {
		t.Fatalf("expected the same dashboard for one session")
	}
	waitIdle(t, a)
	if api.count("orders") != 1 {
		t.Fatalf("expected one orders load, got %d", api.count("orders"))
	}
	if _, ok := r.Get("s2"); ok {
		t.Fatalf("unexpected dashboard for unknown session")
	}
	r.Drop("s1")
	if r.Len() != 0 {
		t.Fatalf("expected registry empty after drop")
	}
}

func TestRegistry_SweepDropsIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(Options{LoaderTimeout: time.Second})
	r.now = func() time.Time { return now }
	sess := &fakeSession{identity: testIdentity()}

	old := r.Open(context.Background(), "old", sess, &stubAPI{})
	now = now.Add(40 * time.Minute)
	fresh := r.Open(context.Background(), "fresh", sess, &stubAPI{})
	waitIdle(t, old)
	waitIdle(t, fresh)

	if n := r.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("expected one dropped, got %d", n)
	}
	if _, ok := r.Get("old"); ok {
		t.Fatalf("idle dashboard survived sweep")
	}
	if _, ok := r.Get("fresh"); !ok {
		t.Fatalf("fresh dashboard dropped")
	}
}
