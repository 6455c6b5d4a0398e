// Package otel binds giftauth engine metrics to OpenTelemetry observable
// instruments.
//
// [NewExporter] registers one Int64ObservableCounter per engine counter and,
// per latency histogram, a cumulative bucket gauge keyed by an "le" attribute
// plus a count gauge. A single callback reads the engine snapshot on each
// collection cycle. Callers own the MeterProvider.
package otel
