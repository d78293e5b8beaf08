package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docpost"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg          *prom.Registry
	pages        *prom.CounterVec
	pageDuration prom.Histogram
	expanded     *prom.CounterVec
	highlighted  *prom.CounterVec
	diagnostics  prom.Counter
}

// NewPrometheusRecorder constructs the collectors and registers them on
// reg. A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Processed pages by result",
		}, []string{"result"}),
		pageDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time to read, transform and write one page",
			Buckets:   prom.ExponentialBuckets(0.001, 4, 8),
		}),
		expanded: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "components_expanded_total",
			Help:      "Custom elements replaced by their component",
		}, []string{"tag"}),
		highlighted: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "code_blocks_highlighted_total",
			Help:      "Code blocks highlighted by language",
		}, []string{"language"}),
		diagnostics: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parse_diagnostics_total",
			Help:      "Markup problems repaired by the parser",
		}),
	}
	reg.MustRegister(pr.pages, pr.pageDuration, pr.expanded, pr.highlighted, pr.diagnostics)
	return pr
}

func (p *PrometheusRecorder) IncPage(result ResultLabel) {
	if p == nil {
		return
	}
	p.pages.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePageDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.pageDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddComponentsExpanded(tag string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.expanded.WithLabelValues(tag).Add(float64(n))
}

func (p *PrometheusRecorder) AddCodeBlocksHighlighted(language string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.highlighted.WithLabelValues(language).Add(float64(n))
}

func (p *PrometheusRecorder) AddParseDiagnostics(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.diagnostics.Add(float64(n))
}

// Gatherer exposes the collected metrics.
func (p *PrometheusRecorder) Gatherer() prom.Gatherer {
	return p.reg
}

// WriteTextfile writes the collected metrics to path in the text
// exposition format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.Gatherer()); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
