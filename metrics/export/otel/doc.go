// Package otel mirrors the engine's in-process metrics as OpenTelemetry
// observable instruments. Registration is pull-based: values are read from
// a MetricsSnapshot inside the collector callback, so the hot path stays
// free of OTel machinery.
package otel
