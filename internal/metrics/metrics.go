// Package metrics 定义进程级 Prometheus 指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "job_portal"

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "fetch_total",
		Help:      "Job collection fetches by result",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "fetch_duration_seconds",
		Help:      "Job collection fetch latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	jobsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "jobs",
		Help:      "Jobs in the current collection",
	})

	filterResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "filter",
		Name:      "results",
		Help:      "Result count per filter evaluation",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "export",
		Name:      "total",
		Help:      "Exports by format and result",
	}, []string{"format", "result"})
)

// ObserveFetch 记录一次抓取。
func ObserveFetch(started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	fetchTotal.WithLabelValues(result).Inc()
	fetchDuration.Observe(time.Since(started).Seconds())
}

// SetJobs 记录当前集合大小。
func SetJobs(n int) {
	jobsLoaded.Set(float64(n))
}

// ObserveFilter 记录一次筛选的结果数。
func ObserveFilter(n int) {
	filterResults.Observe(float64(n))
}

// ObserveExport 记录一次导出。
func ObserveExport(format string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	exportsTotal.WithLabelValues(format, result).Inc()
}
