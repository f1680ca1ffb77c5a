// Package influxdb provides optional operational metrics for jsonvault.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes, and health monitoring.
//
// # Purpose
//
// This package records service telemetry, not item data:
//   - HTTP request metrics (route, method, status, latency)
//   - Retention sweep results (scanned, purged, failed, duration)
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // metrics off, carry on without them
//	}
//	defer client.Close()
//
//	client.WriteRequestMetric("/json/{id}", "GET", 200, elapsed)
//
// # Error Handling
//
// Writes are non-blocking; batch errors are delivered asynchronously via
// SetOnError. Connection and health check errors are returned directly.
// A failed metric write never affects the request that produced it.
package influxdb
