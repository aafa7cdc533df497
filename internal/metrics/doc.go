// Package metrics provides build metrics for blogbuilder.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// collection never needs nil checks. When a textfile path is configured the
// CLI swaps in a PrometheusRecorder and writes the registry once the build
// finishes:
//
//	rec := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
//	b := build.New(cfg, build.WithRecorder(rec))
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/blogbuilder.prom")
package metrics
