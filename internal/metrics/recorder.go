package metrics

import "time"

// ResultLabel enumerates page outcomes for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines the hooks the processor and the driver report to.
// Implementations must be safe for concurrent use.
type Recorder interface {
	IncPage(result ResultLabel)
	ObservePageDuration(d time.Duration)
	AddComponentsExpanded(tag string, n int)
	AddCodeBlocksHighlighted(language string, n int)
	AddParseDiagnostics(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPage(ResultLabel)                  {}
func (NoopRecorder) ObservePageDuration(time.Duration)    {}
func (NoopRecorder) AddComponentsExpanded(string, int)    {}
func (NoopRecorder) AddCodeBlocksHighlighted(string, int) {}
func (NoopRecorder) AddParseDiagnostics(int)              {}
