// Package metrics provides observability hooks for solve pipeline metrics.
//
// Components receive a Recorder through dependency injection; the default
// NoopRecorder makes metrics collection optional without nil checks at call
// sites. PrometheusRecorder forwards to a Prometheus registry and is wired
// up in watch mode where a scrape endpoint exists.
package metrics

import "time"

// Recorder defines observability hooks for solve and stage metrics.
// Implementations must tolerate nil receivers so injection stays optional.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveSolveDuration(d time.Duration)
	IncSolveOutcome(outcome string) // outcome: success|failed|cached
	SetPiecesTotal(n int)
	SetPiecesPlaced(n int)
	SetWorkers(n int)
}

// Stage names recorded by the solver.
const (
	StageIngest    = "ingest"
	StageAssemble  = "assemble"
	StageComposite = "composite"
	StageEncode    = "encode"
)

// Solve outcomes recorded by the solver.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeCached  = "cached"
)

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveSolveDuration(time.Duration)         {}
func (NoopRecorder) IncSolveOutcome(string)                     {}
func (NoopRecorder) SetPiecesTotal(int)                         {}
func (NoopRecorder) SetPiecesPlaced(int)                        {}
func (NoopRecorder) SetWorkers(int)                             {}
