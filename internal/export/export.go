// Package export writes price and prediction history from the snapshot cache
// to parquet files for offline analysis.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"augur/internal/api"
	"augur/internal/cache"
)

// PriceRecord is the parquet schema for exported price rows.
type PriceRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // snapshot time, Unix ms
	Price     float64 `parquet:"price"`
	ChangePct float64 `parquet:"change_pct"`
}

// PredictionRecord is the parquet schema for exported prediction rows.
type PredictionRecord struct {
	Symbol     string  `parquet:"symbol"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"`
	Direction  string  `parquet:"direction"`
	Confidence float64 `parquet:"confidence"`
	Consensus  float64 `parquet:"consensus"`
	Agents     int32   `parquet:"agents"`
}

// Exporter flattens cached section history into per-date parquet files under
// OutDir: <OutDir>/prices/<YYYY-MM-DD>.parquet and likewise for predictions.
type Exporter struct {
	Cache  *cache.Store
	OutDir string
	Log    *slog.Logger
}

// Run exports all snapshots taken at or after since. It returns the number
// of rows written per section. Corrupt cached payloads are skipped, not
// fatal.
func (e *Exporter) Run(ctx context.Context, since time.Time) (map[string]int, error) {
	counts := make(map[string]int)

	n, err := e.exportPrices(ctx, since)
	if err != nil {
		return counts, fmt.Errorf("exporting prices: %w", err)
	}
	counts["prices"] = n

	n, err = e.exportPredictions(ctx, since)
	if err != nil {
		return counts, fmt.Errorf("exporting predictions: %w", err)
	}
	counts["predictions"] = n

	return counts, nil
}

func (e *Exporter) exportPrices(ctx context.Context, since time.Time) (int, error) {
	snaps, err := e.Cache.History(ctx, "prices", since)
	if err != nil {
		return 0, err
	}

	// Snapshots hold what the dashboard caches: the bare row slice, not the
	// wire envelope.
	byDate := make(map[string][]PriceRecord)
	for _, snap := range snaps {
		var prices []api.Price
		if err := json.Unmarshal(snap.Payload, &prices); err != nil {
			e.Log.Warn("skipping corrupt price snapshot", "fetched_at", snap.FetchedAt, "error", err)
			continue
		}
		date := snap.FetchedAt.Format("2006-01-02")
		for _, p := range prices {
			byDate[date] = append(byDate[date], PriceRecord{
				Symbol:    p.Symbol,
				Timestamp: snap.FetchedAt.UnixMilli(),
				Price:     p.Price,
				ChangePct: p.ChangePct,
			})
		}
	}

	return writeDated(e.OutDir, "prices", byDate)
}

func (e *Exporter) exportPredictions(ctx context.Context, since time.Time) (int, error) {
	snaps, err := e.Cache.History(ctx, "predictions", since)
	if err != nil {
		return 0, err
	}

	byDate := make(map[string][]PredictionRecord)
	for _, snap := range snaps {
		var preds []api.Prediction
		if err := json.Unmarshal(snap.Payload, &preds); err != nil {
			e.Log.Warn("skipping corrupt prediction snapshot", "fetched_at", snap.FetchedAt, "error", err)
			continue
		}
		date := snap.FetchedAt.Format("2006-01-02")
		for _, p := range preds {
			byDate[date] = append(byDate[date], PredictionRecord{
				Symbol:     p.Symbol,
				Timestamp:  snap.FetchedAt.UnixMilli(),
				Direction:  p.Direction,
				Confidence: p.Confidence,
				Consensus:  p.Consensus,
				Agents:     int32(p.Agents),
			})
		}
	}

	return writeDated(e.OutDir, "predictions", byDate)
}

// writeDated writes one parquet file per date under <outDir>/<section>/.
func writeDated[T any](outDir, section string, byDate map[string][]T) (int, error) {
	total := 0
	for date, records := range byDate {
		path := filepath.Join(outDir, section, date+".parquet")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return total, err
		}
		if err := parquet.WriteFile(path, records); err != nil {
			return total, fmt.Errorf("writing %s: %w", path, err)
		}
		total += len(records)
	}
	return total, nil
}
