package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration(StageIngest, 150*time.Millisecond)
	pr.ObserveSolveDuration(500 * time.Millisecond)
	pr.IncSolveOutcome(OutcomeSuccess)
	pr.SetPiecesTotal(256)
	pr.SetPiecesPlaced(255)
	pr.SetWorkers(8)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration(StageAssemble, time.Second)
	pr.ObserveSolveDuration(time.Second)
	pr.IncSolveOutcome(OutcomeFailed)
	pr.SetPiecesTotal(1)
	pr.SetPiecesPlaced(1)
	pr.SetWorkers(1)
}

func TestNoopRecorderImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration(StageEncode, time.Second)
	r.IncSolveOutcome(OutcomeCached)
}
