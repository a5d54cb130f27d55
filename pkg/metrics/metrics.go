// Package metrics holds the importer's Prometheus collectors.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	runsTotal     *prometheus.CounterVec
	rowsTotal     *prometheus.CounterVec
	restoresTotal *prometheus.CounterVec

	runDuration *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		runsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitstation",
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Total number of import attempts.",
		}, []string{"mode", "result"}),
		rowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitstation",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Total number of rows written by bulk inserts.",
		}, []string{"table"}),
		restoresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vitstation",
			Subsystem: "import",
			Name:      "restores_total",
			Help:      "Total number of store file restores after a failed import.",
		}, []string{"result"}),
		runDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vitstation",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Wall time of import attempts.",
			Buckets: []float64{
				0.01, 0.05, 0.1, 0.5,
				1, 2, 5, 10, 30, 60, 300,
			},
		}, []string{"mode", "result"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// ObserveRun records one finished import attempt.
func ObserveRun(mode, result string, elapsed time.Duration) {
	m := getMetrics()
	m.runsTotal.WithLabelValues(mode, result).Inc()
	m.runDuration.WithLabelValues(mode, result).Observe(elapsed.Seconds())
}

func AddRows(table string, n int) {
	if n <= 0 {
		return
	}
	getMetrics().rowsTotal.WithLabelValues(table).Add(float64(n))
}

func ObserveRestore(result string) {
	getMetrics().restoresTotal.WithLabelValues(result).Inc()
}
