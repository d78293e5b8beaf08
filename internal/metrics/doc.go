// Package metrics records per-run processing metrics.
//
// Components receive a Recorder and call it unconditionally. NoopRecorder
// is the default; PrometheusRecorder collects into a registry that the
// CLI writes out in the node exporter textfile format at the end of a
// run.
package metrics
