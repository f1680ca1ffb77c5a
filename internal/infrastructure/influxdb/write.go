package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteRequestMetric records one handled HTTP request.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Route should be the pattern, not the concrete path ("/json/{id}", never
// "/json/3e1f...") to keep tag cardinality bounded.
func (c *Client) WriteRequestMetric(route, method string, status int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"http_requests",
		map[string]string{
			"route":  route,
			"method": method,
			"status": strconv.Itoa(status),
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Microseconds()) / millisecondsPerSecond,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSweepMetric records the outcome of one retention sweep.
func (c *Client) WriteSweepMetric(scanned, purged, failed int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"retention_sweeps",
		nil,
		map[string]interface{}{
			"scanned":     scanned,
			"purged":      purged,
			"failed":      failed,
			"duration_ms": float64(duration.Microseconds()) / millisecondsPerSecond,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
