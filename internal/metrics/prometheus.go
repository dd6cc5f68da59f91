package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptopulse_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptopulse_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cryptopulse_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Source metrics
	SourceRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptopulse_source_requests_total",
			Help: "Total number of upstream source API calls",
		},
		[]string{"source", "status"}, // status: success|error
	)

	SourceLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptopulse_source_latency_seconds",
			Help:    "Upstream source API latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	RecordsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptopulse_records_ingested_total",
			Help: "Total number of social records stored",
		},
		[]string{"source"},
	)

	// Filter metrics
	FilterDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptopulse_filter_dropped_total",
			Help: "Comments dropped by each filter stage",
		},
		[]string{"stage"}, // stage: bot|language|duplicate|relevance
	)

	// Aggregation metrics
	AggregationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptopulse_aggregation_runs_total",
			Help: "Total number of aggregation runs",
		},
		[]string{"status"}, // status: success|partial|error
	)

	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cryptopulse_aggregation_duration_seconds",
			Help:    "Aggregation run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	AssetsNormalized = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cryptopulse_assets_normalized",
			Help: "Number of assets written by the last aggregation run",
		},
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptopulse_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|clickhouse|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptopulse_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	// System metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptopulse_kafka_messages_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic", "status"},
	)
)

var initOnce sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			WorkerExecutions,
			WorkerDuration,
			WorkerLastRun,
			SourceRequests,
			SourceLatency,
			RecordsIngested,
			FilterDropped,
			AggregationRuns,
			AggregationDuration,
			AssetsNormalized,
			DBQueries,
			DBQueryDuration,
			KafkaMessages,
		)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	WorkerExecutions.WithLabelValues(worker, status(err)).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordSourceCall records an upstream API call
func RecordSourceCall(source string, latency time.Duration, err error) {
	SourceRequests.WithLabelValues(source, status(err)).Inc()
	SourceLatency.WithLabelValues(source).Observe(latency.Seconds())
}

// RecordIngested counts stored records per source
func RecordIngested(source string, n int64) {
	if n > 0 {
		RecordsIngested.WithLabelValues(source).Add(float64(n))
	}
}

// RecordFilterDropped counts comments removed by a filter stage
func RecordFilterDropped(stage string, n int) {
	if n > 0 {
		FilterDropped.WithLabelValues(stage).Add(float64(n))
	}
}

// RecordAggregation records one aggregation run. partial marks runs where
// some sources failed but output was still written.
func RecordAggregation(duration time.Duration, assets int, partial bool, err error) {
	s := status(err)
	if err == nil && partial {
		s = "partial"
	}
	AggregationRuns.WithLabelValues(s).Inc()
	AggregationDuration.Observe(duration.Seconds())
	if err == nil {
		AssetsNormalized.Set(float64(assets))
	}
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	DBQueries.WithLabelValues(database, operation, status(err)).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}

// RecordKafkaMessages counts produced messages for a topic
func RecordKafkaMessages(topic string, n int, err error) {
	KafkaMessages.WithLabelValues(topic, status(err)).Add(float64(n))
}
