package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MediaBrowserMetrics struct {
	ThumbnailRequestCount *prometheus.CounterVec

	TranscodeJobsStarted prometheus.Counter
	TranscodeJobsReused  prometheus.Counter
	TranscodeJobsReaped  prometheus.Counter
	TranscodeJobsActive  prometheus.Gauge

	HTTPRequestDurationSec *prometheus.SummaryVec
}

func NewMetrics() *MediaBrowserMetrics {
	m := &MediaBrowserMetrics{
		ThumbnailRequestCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thumbnail_request_count",
			Help: "The total number of thumbnail cache requests, broken up by outcome",
		}, []string{"outcome"}),

		TranscodeJobsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcode_jobs_started_count",
			Help: "The total number of transcoder subprocesses spawned",
		}),
		TranscodeJobsReused: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcode_jobs_reused_count",
			Help: "The total number of play requests that reused a running transcode job",
		}),
		TranscodeJobsReaped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcode_jobs_reaped_count",
			Help: "The total number of idle transcode jobs evicted by the reaper",
		}),
		TranscodeJobsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "transcode_jobs_active",
			Help: "The number of transcode jobs currently in the registry",
		}),

		HTTPRequestDurationSec: promauto.NewSummaryVec(prometheus.SummaryOpts{
			Name: "http_request_duration_seconds",
			Help: "The latency of HTTP requests in seconds, broken up by route and status code",
		}, []string{"route", "status_code"}),
	}

	return m
}

var Metrics = NewMetrics()
