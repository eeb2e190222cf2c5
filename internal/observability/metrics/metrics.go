package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	ChatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns handled.",
		},
		[]string{"service", "mode", "result"},
	)

	AIRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Duration of generative-AI boundary calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "result"},
	)

	FramesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_frames_received_total",
			Help: "Total number of device frames pushed into session buffers.",
		},
		[]string{"service"},
	)

	StreamSessionsStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_sessions_started_total",
			Help: "Total number of streaming sessions started.",
		},
		[]string{"service"},
	)

	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of registration and login attempts.",
		},
		[]string{"service", "flow", "result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	ChatTurnsTotal = ChatTurnsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	AIRequestDurationSeconds = AIRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	FramesReceivedTotal = FramesReceivedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	StreamSessionsStartedTotal = StreamSessionsStartedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	AuthAttemptsTotal = AuthAttemptsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		ChatTurnsTotal,
		AIRequestDurationSeconds,
		FramesReceivedTotal,
		StreamSessionsStartedTotal,
		AuthAttemptsTotal,
	)
}
