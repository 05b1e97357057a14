package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "school"

var (
	StoreOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "store_ops_total", Help: "Store operations by kind",
	}, []string{"op", "kind"})
	StoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "store_errors_total", Help: "Failed store operations",
	}, []string{"op", "kind"})
	StoreLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "store_op_seconds", Help: "Store operation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	CascadeDeleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "cascade_deleted_rows_total", Help: "Rows removed by cascading deletes",
	}, []string{"kind"})
	CascadeFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "cascade_failures_total", Help: "Aborted cascades by root kind",
	}, []string{"kind"})
	Orphans = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "orphan_rows", Help: "Orphaned rows found by the last integrity audit",
	})

	ReportsBuilt = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "reports_built_total", Help: "Aggregation reports built",
	}, []string{"report"})

	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		StoreOps, StoreErrors, StoreLatency,
		CascadeDeleted, CascadeFailures, Orphans,
		ReportsBuilt, DBPing,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// ObserveStore records one store call.
func ObserveStore(op, kind string, started time.Time, err error) {
	StoreOps.WithLabelValues(op, kind).Inc()
	StoreLatency.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(op, kind).Inc()
	}
}
