package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	stageDuration *prom.HistogramVec
	solveDuration prom.Histogram
	solveOutcome  *prom.CounterVec
	piecesTotal   prom.Gauge
	piecesPlaced  prom.Gauge
	workers       prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "tilefit",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual solve stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.solveDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "tilefit",
			Name:      "solve_duration_seconds",
			Help:      "Total solve duration",
			Buckets:   prom.DefBuckets,
		})
		pr.solveOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "tilefit",
			Name:      "solve_outcomes_total",
			Help:      "Solve outcomes by final status",
		}, []string{"outcome"})
		pr.piecesTotal = prom.NewGauge(prom.GaugeOpts{
			Namespace: "tilefit",
			Name:      "pieces_total",
			Help:      "Tiles ingested in the most recent solve",
		})
		pr.piecesPlaced = prom.NewGauge(prom.GaugeOpts{
			Namespace: "tilefit",
			Name:      "pieces_placed",
			Help:      "Tiles placed on the canvas in the most recent solve",
		})
		pr.workers = prom.NewGauge(prom.GaugeOpts{
			Namespace: "tilefit",
			Name:      "workers",
			Help:      "Configured worker count for parallel stages",
		})
		reg.MustRegister(pr.stageDuration, pr.solveDuration, pr.solveOutcome, pr.piecesTotal, pr.piecesPlaced, pr.workers)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveSolveDuration(d time.Duration) {
	if p == nil || p.solveDuration == nil {
		return
	}
	p.solveDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSolveOutcome(outcome string) {
	if p == nil || p.solveOutcome == nil {
		return
	}
	p.solveOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetPiecesTotal(n int) {
	if p == nil || p.piecesTotal == nil {
		return
	}
	p.piecesTotal.Set(float64(n))
}

func (p *PrometheusRecorder) SetPiecesPlaced(n int) {
	if p == nil || p.piecesPlaced == nil {
		return
	}
	p.piecesPlaced.Set(float64(n))
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil || p.workers == nil {
		return
	}
	p.workers.Set(float64(n))
}
