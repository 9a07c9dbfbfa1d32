package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kemomovies_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kemomovies_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Playback session metrics
	PlaybackSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kemomovies_playback_sessions_total",
			Help: "Total number of playback sessions created",
		},
	)

	PlaybackSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kemomovies_playback_sessions_active",
			Help: "Number of currently active playback sessions",
		},
	)

	PlaybackErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kemomovies_playback_errors_total",
			Help: "Total number of playback errors by error code",
		},
		[]string{"code"},
	)

	QualitySwitchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kemomovies_quality_switches_total",
			Help: "Total number of adaptive quality switches",
		},
		[]string{"quality"},
	)

	PlaybackBufferingTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kemomovies_playback_buffering_total",
			Help: "Total number of buffering events across sessions",
		},
	)

	ResumeSeeksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kemomovies_resume_seeks_total",
			Help: "Total number of sessions resumed from a stored position",
		},
	)

	// Resolver metrics
	SourceResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kemomovies_source_resolution_duration_seconds",
			Help:    "Stream source resolution latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SourceCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kemomovies_source_cache_hits_total",
			Help: "Stream source cache lookups by result",
		},
		[]string{"result"},
	)

	// Telemetry pipeline metrics
	AnalyticsReportsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kemomovies_analytics_reports_published_total",
			Help: "Total number of session analytics reports published",
		},
	)

	AnalyticsReportsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kemomovies_analytics_reports_persisted_total",
			Help: "Total number of session analytics reports persisted by status",
		},
		[]string{"status"},
	)
)
