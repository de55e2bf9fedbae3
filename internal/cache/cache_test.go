package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLatestAbsent(t *testing.T) {
	s := openTestStore(t)

	snap, err := s.Latest(context.Background(), "prices")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if snap != nil {
		t.Errorf("Latest on empty cache = %+v, want nil", snap)
	}
}

func TestPutAndLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "prices", []byte(`{"prices":[]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "prices", []byte(`{"prices":[{"symbol":"AAPL"}]}`)); err != nil {
		t.Fatalf("Put update: %v", err)
	}

	snap, err := s.Latest(ctx, "prices")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if snap == nil {
		t.Fatal("Latest = nil after Put")
	}
	if string(snap.Payload) != `{"prices":[{"symbol":"AAPL"}]}` {
		t.Errorf("Payload = %s, want second Put to win", snap.Payload)
	}
	if time.Since(snap.FetchedAt) > time.Minute {
		t.Errorf("FetchedAt = %v, want recent", snap.FetchedAt)
	}
}

func TestSectionsIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "prices", []byte(`p`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "briefing", []byte(`b`)); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Latest(ctx, "briefing")
	if err != nil {
		t.Fatal(err)
	}
	if string(snap.Payload) != "b" {
		t.Errorf("briefing payload = %s", snap.Payload)
	}
}

func TestHistoryAccumulates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"one", "two", "three"} {
		if err := s.Put(ctx, "predictions", []byte(p)); err != nil {
			t.Fatal(err)
		}
	}

	hist, err := s.History(ctx, "predictions", time.Time{})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("history length = %d, want 3", len(hist))
	}
	if string(hist[0].Payload) != "one" || string(hist[2].Payload) != "three" {
		t.Errorf("history order wrong: %s .. %s", hist[0].Payload, hist[2].Payload)
	}
}

func TestPruneKeepsLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "prices", []byte(`old`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Prune(ctx, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	hist, err := s.History(ctx, "prices", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 0 {
		t.Errorf("history after prune = %d entries, want 0", len(hist))
	}
	snap, err := s.Latest(ctx, "prices")
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil || string(snap.Payload) != "old" {
		t.Error("latest snapshot lost by prune")
	}
}
