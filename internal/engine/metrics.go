package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

const slowOperationThreshold = 5 * time.Second

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests   atomic.Int64
	ValidationErrors atomic.Int64
	FetchRequests    atomic.Int64
	FetchErrors      atomic.Int64
	ExtractErrors    atomic.Int64
	VideosReturned   atomic.Int64
	SlowOperations   atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"search_requests", "validation_errors",
	"fetch_requests", "fetch_errors",
	"extract_errors", "videos_returned",
	"slow_operations",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"search_requests":   metrics.SearchRequests.Load(),
		"validation_errors": metrics.ValidationErrors.Load(),
		"fetch_requests":    metrics.FetchRequests.Load(),
		"fetch_errors":      metrics.FetchErrors.Load(),
		"extract_errors":    metrics.ExtractErrors.Load(),
		"videos_returned":   metrics.VideosReturned.Load(),
		"slow_operations":   metrics.SlowOperations.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > slowOperationThreshold {
		metrics.SlowOperations.Add(1)
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
