package export

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"augur/internal/api"
	"augur/internal/cache"
)

func newExporter(t *testing.T) (*Exporter, *cache.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := cache.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &Exporter{
		Cache:  store,
		OutDir: filepath.Join(dir, "out"),
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, store
}

// Seed the cache the way the dashboard does: the marshaled row slice, not
// the wire envelope.
func putRows(t *testing.T, store *cache.Store, section string, rows any) {
	t.Helper()
	payload, err := json.Marshal(rows)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), section, payload); err != nil {
		t.Fatal(err)
	}
}

func TestRunExportsPrices(t *testing.T) {
	e, store := newExporter(t)
	ctx := context.Background()

	putRows(t, store, "prices", []api.Price{
		{Symbol: "AAPL", Price: 213.4, ChangePct: 1.2},
		{Symbol: "TSLA", Price: 182.0, ChangePct: -4.7},
	})

	counts, err := e.Run(ctx, time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if counts["prices"] != 2 {
		t.Errorf("prices rows = %d, want 2", counts["prices"])
	}

	date := time.Now().Format("2006-01-02")
	path := filepath.Join(e.OutDir, "prices", date+".parquet")
	records, err := parquet.ReadFile[PriceRecord](path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if len(records) != 2 {
		t.Fatalf("parquet rows = %d, want 2", len(records))
	}
	syms := map[string]bool{records[0].Symbol: true, records[1].Symbol: true}
	if !syms["AAPL"] || !syms["TSLA"] {
		t.Errorf("exported symbols = %v", syms)
	}
}

func TestRunSkipsCorruptSnapshots(t *testing.T) {
	e, store := newExporter(t)
	ctx := context.Background()

	if err := store.Put(ctx, "predictions", []byte(`{broken`)); err != nil {
		t.Fatal(err)
	}
	putRows(t, store, "predictions", []api.Prediction{
		{Symbol: "NVDA", Direction: "up", Confidence: 0.8, Consensus: 0.7, Agents: 5},
	})

	counts, err := e.Run(ctx, time.Time{})
	if err != nil {
		t.Fatalf("Run with corrupt snapshot: %v", err)
	}
	if counts["predictions"] != 1 {
		t.Errorf("prediction rows = %d, want 1 (corrupt skipped)", counts["predictions"])
	}
}

func TestRunEmptyCacheWritesNothing(t *testing.T) {
	e, _ := newExporter(t)

	counts, err := e.Run(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if counts["prices"] != 0 || counts["predictions"] != 0 {
		t.Errorf("counts = %v, want zeros", counts)
	}
	if _, err := os.Stat(filepath.Join(e.OutDir, "prices")); !os.IsNotExist(err) {
		t.Error("prices dir created despite empty cache")
	}
}
