package client

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes recorded by Metrics.
const (
	RefreshSucceeded = "success"
	RefreshFailed    = "failure"
	RefreshReused    = "reused"
)

// Metrics tracks API round-trips and session recovery for one client.
// A nil *Metrics records nothing.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TransportErrors prometheus.Counter
	Refreshes       *prometheus.CounterVec
	SessionsExpired prometheus.Counter
}

// NewMetrics registers the client metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "buildtrack_api_requests_total",
			Help: "API requests sent, by method and HTTP status code",
		}, []string{"method", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "buildtrack_api_request_duration_seconds",
			Help:    "Duration of API round-trips",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		TransportErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "buildtrack_api_transport_errors_total",
			Help: "Requests that failed before a response was received",
		}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "buildtrack_token_refreshes_total",
			Help: "Session recoveries after a 401, by outcome",
		}, []string{"result"}),
		SessionsExpired: f.NewCounter(prometheus.CounterOpts{
			Name: "buildtrack_sessions_expired_total",
			Help: "Sessions terminated because the token could not be refreshed",
		}),
	}
}

func (m *Metrics) observeRequest(method string, code int, start time.Time) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (m *Metrics) incTransportError() {
	if m == nil {
		return
	}
	m.TransportErrors.Inc()
}

func (m *Metrics) incRefresh(result string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) incSessionExpired() {
	if m == nil {
		return
	}
	m.SessionsExpired.Inc()
}
