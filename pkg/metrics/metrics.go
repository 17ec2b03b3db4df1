// Package metrics exposes run counters for the dashboard client, the exporter
// and the reconciler. A run can dump them in the node_exporter textfile
// format with WriteTextfile.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every merakisync collector. It is separate from the
// default registry so a textfile dump contains only this tool's series.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	apiRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merakisync_api_requests_total",
			Help: "Dashboard API requests by method and response code",
		},
		[]string{"method", "code"}, // code is "error" for transport failures
	)

	apiRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "merakisync_api_request_duration_seconds",
			Help:    "Dashboard API request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	rowsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merakisync_update_rows_total",
			Help: "Update rows processed by result",
		},
		[]string{"result"}, // updated, skipped, failed, preview
	)

	exportedDevicesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "merakisync_exported_devices_total",
			Help: "Devices written to export files",
		},
	)

	lastRunTimestamp = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "merakisync_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		},
	)
)

// ObserveRequest records one API call. A zero code means the request never
// got a response.
func ObserveRequest(method string, code int, elapsed time.Duration) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	apiRequestsTotal.WithLabelValues(method, label).Inc()
	apiRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveRow records the outcome of one update row.
func ObserveRow(result string) {
	rowsTotal.WithLabelValues(result).Inc()
}

// ObserveExport records the number of devices written by an export.
func ObserveExport(devices int) {
	exportedDevicesTotal.Add(float64(devices))
}

// WriteTextfile stamps the finish time and writes every series to path.
func WriteTextfile(path string) error {
	lastRunTimestamp.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, Registry)
}
