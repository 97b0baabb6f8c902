// Package metrics declares the Prometheus collectors for the sync workflow.
//
// Collectors are registered on the default registry through promauto and exposed
// by the start command at /metrics.
package metrics
