// Package metrics records build observations.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	b := site.NewBuilder(cfg, site.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder backs the interface with client_golang collectors on a
// private registry. A one-shot build has no scrape endpoint, so the registry
// is exported to a node-exporter textfile with WriteTextfile.
package metrics
