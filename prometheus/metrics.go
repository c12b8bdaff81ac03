package prometheus

import (
	"time"

	"github.com/OumaCavin/DataLinkCRM/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Dashboard metrics
	DashboardViewsCounter     prometheus.Counter
	AnalyticsViewsCounter     prometheus.Counter
	WidgetDataRequestsCounter prometheus.Counter

	// Notification metrics
	NotificationOperationsCounter prometheus.CounterVec

	// Record store metrics
	RecordOperationsCounter prometheus.CounterVec

	// Cache metrics
	CacheRequestsCounter prometheus.CounterVec

	// Snapshot metrics
	StatsSnapshotsCreatedCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DashboardViewsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_dashboard_views_total",
			Help: "Total number of dashboard views",
		},
	)

	AnalyticsViewsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_analytics_views_total",
			Help: "Total number of analytics views",
		},
	)

	WidgetDataRequestsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_widget_data_requests_total",
			Help: "Total number of widget data requests",
		},
	)

	NotificationOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_notification_operations_total",
			Help: "Total number of notification operations",
		},
		[]string{"operation"}, // "mark_read", "mark_all_read", "unread_count"
	)

	RecordOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_record_operations_total",
			Help: "Total number of record store operations",
		},
		[]string{"entity", "operation"},
	)

	CacheRequestsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_requests_total",
			Help: "Total number of cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	StatsSnapshotsCreatedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_stats_snapshots_created_total",
			Help: "Total number of system stats snapshots created",
		},
	)
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordCacheResult increments the cache lookup counter
func RecordCacheResult(result string) {
	CacheRequestsCounter.WithLabelValues(result).Inc()
}

// RecordNotificationOperation increments the notification operation counter
func RecordNotificationOperation(operation string) {
	NotificationOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordEntityOperation increments the record store operation counter
func RecordEntityOperation(entity, operation string) {
	RecordOperationsCounter.WithLabelValues(entity, operation).Inc()
}
