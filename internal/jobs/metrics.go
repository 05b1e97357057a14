package jobs

import "github.com/prometheus/client_golang/prometheus"

// Метки job: имя из Runner.Every, например integrity_audit.
var (
	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "school",
			Name:      "job_runs_total",
			Help:      "Background job runs by job name (integrity_audit checks the store for orphaned rows)",
		},
		[]string{"job"},
	)

	jobErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "school",
			Name:      "job_errors_total",
			Help:      "Background job runs that returned an error",
		},
		[]string{"job"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "school",
			Name:      "job_duration_seconds",
			Help:      "Background job duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	jobLastSuccess = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "school",
			Name:      "job_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run; stale values mean the audit is failing",
		},
		[]string{"job"},
	)
)

func init() {
	prometheus.MustRegister(jobRuns, jobErrors, jobDuration, jobLastSuccess)
}
