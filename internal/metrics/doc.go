// Package metrics provides the observability hooks for docgen builds.
//
// The package implements the Null Object pattern: components receive a
// Recorder through dependency injection and default to NoopRecorder, so no
// nil checks are needed and disabled metrics carry zero overhead. When
// metrics are wanted, a PrometheusRecorder is injected instead; the watch
// mode exposes its registry over HTTP via HTTPHandler.
package metrics
