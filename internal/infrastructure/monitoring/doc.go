// Package monitoring exposes Prometheus metrics for host round trips and
// live bridges. Metrics live on their own registry so several groups, or
// tests, never collide on the default one.
package monitoring
