package famplex

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if rec.Name() == "" {
		t.Fatalf("expected generated name")
	}
	ctx := context.Background()
	rec.Observe(ctx, "flatten", true, 20*time.Millisecond)
	rec.Observe(ctx, "flatten", true, 30*time.Millisecond)
	rec.Observe(ctx, "flatten", false, 5*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond) // ignored

	snap := rec.Snapshot()
	if got := snap.Results["flatten"]["success"]; got != 2 {
		t.Fatalf("success count = %d, want 2", got)
	}
	if got := snap.Results["flatten"]["error"]; got != 1 {
		t.Fatalf("error count = %d, want 1", got)
	}
	if got := snap.DurationsMS["flatten"]; got < 54 || got > 56 {
		t.Fatalf("duration total = %f, want ~55", got)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("unexpected operations recorded: %+v", snap.Results)
	}
}

func TestExpvarSnapshotIsolated(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	rec.Observe(context.Background(), "append", true, time.Millisecond)
	snap := rec.Snapshot()
	snap.Results["append"]["success"] = 99
	if got := rec.Snapshot().Results["append"]["success"]; got != 1 {
		t.Fatalf("snapshot mutation leaked into recorder: %d", got)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusMetricsRecorder: %v", err)
	}
	ctx := context.Background()
	rec.Observe(ctx, "append", true, 10*time.Millisecond)
	rec.Observe(ctx, "append", false, 10*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond) // ignored

	if got := testutil.ToFloat64(rec.results.WithLabelValues("append", "success")); got != 1 {
		t.Fatalf("success counter = %f, want 1", got)
	}
	if got := testutil.ToFloat64(rec.results.WithLabelValues("append", "error")); got != 1 {
		t.Fatalf("error counter = %f, want 1", got)
	}
}

func TestPrometheusMetricsRecorderDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
