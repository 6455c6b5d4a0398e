// Package prometheus exposes giftauth engine metrics through
// prometheus/client_golang.
//
// [Exporter] is a [prometheus.Collector] that reads
// [giftauth.Engine.MetricsSnapshot] on every scrape. Counter names are
// giftauth_*_total; the single histogram is giftauth_authenticate_latency_seconds.
//
// The exporter never registers itself globally. Callers either register it on
// their own registry or mount [Exporter.Handler], which serves a private one.
package prometheus
