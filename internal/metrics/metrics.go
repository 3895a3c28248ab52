// Package metrics exposes the Prometheus collectors of the questionnaire service.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "disc"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the service collectors.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	flowActions     *prometheus.CounterVec
	resultsRecorded *prometheus.CounterVec
	logins          *prometheus.CounterVec
	exports         *prometheus.CounterVec
	streamClients   prometheus.Gauge
}

// New registers the collectors on reg. Collectors already registered under
// the same name are reused, so New may be called more than once per registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{}
	var err error
	if m.httpRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by route and status code.",
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}
	if m.httpDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})); err != nil {
		return nil, err
	}
	if m.flowActions, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "flow",
		Name:      "actions_total",
		Help:      "Screen router actions, by action and outcome.",
	}, []string{"action", "outcome"})); err != nil {
		return nil, err
	}
	if m.resultsRecorded, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "results",
		Name:      "recorded_total",
		Help:      "Result writes, by outcome. Failed writes are not retried.",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if m.logins, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Logins, by role and outcome.",
	}, []string{"role", "outcome"})); err != nil {
		return nil, err
	}
	if m.exports, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "export",
		Name:      "documents_total",
		Help:      "Generated export documents, by format and outcome.",
	}, []string{"format", "outcome"})); err != nil {
		return nil, err
	}
	if m.streamClients, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ws",
		Name:      "stream_clients",
		Help:      "Connected admin result stream clients.",
	})); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Middleware records request counts and latency. The route label is the
// matched route template, never the raw path.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// FlowAction counts one router action.
func (m *Metrics) FlowAction(action, outcome string) {
	if m == nil {
		return
	}
	m.flowActions.WithLabelValues(action, outcome).Inc()
}

// ResultRecorded counts one result write.
func (m *Metrics) ResultRecorded(outcome string) {
	if m == nil {
		return
	}
	m.resultsRecorded.WithLabelValues(outcome).Inc()
}

// Login counts one login attempt.
func (m *Metrics) Login(role, outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(role, outcome).Inc()
}

// Export counts one generated document.
func (m *Metrics) Export(format, outcome string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format, outcome).Inc()
}

// StreamClientConnected adjusts the connected stream client gauge by delta.
func (m *Metrics) StreamClientConnected(delta int) {
	if m == nil {
		return
	}
	m.streamClients.Add(float64(delta))
}
