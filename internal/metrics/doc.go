// Package metrics records build and page metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics stay
// optional without nil checks at call sites:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	builder := build.NewBuilder(cfg, build.WithObserver(build.NewMetricsObserver(recorder)))
//
// HTTPHandler exposes a registry for scraping; the preview server mounts it
// at /metrics.
package metrics
