package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	PredictionsTotal *prometheus.CounterVec // labels: kind
	PredictionDur    prometheus.Histogram
	MarketDataErrors *prometheus.CounterVec // labels: endpoint
	CacheLookups     *prometheus.CounterVec // labels: result=hit|miss
	JobRuns          *prometheus.CounterVec // labels: job, exit_code
	LiveClients      prometheus.Gauge
}

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "converter_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_predictions_total",
			Help: "Price predictions computed by request kind",
		}, []string{"kind"}),
		PredictionDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "converter_prediction_duration_seconds",
			Help:    "Time spent computing indicators and predictions",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		MarketDataErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_market_data_errors_total",
			Help: "Failed market data provider calls",
		}, []string{"endpoint"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"result"}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_job_runs_total",
			Help: "Scheduled job executions by exit code",
		}, []string{"job", "exit_code"}),
		LiveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "converter_live_clients",
			Help: "Connected live price websocket clients",
		}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.PredictionsTotal,
		m.PredictionDur,
		m.MarketDataErrors,
		m.CacheLookups,
		m.JobRuns,
		m.LiveClients,
	)
	return m
}

// NewNop returns unregistered collectors for tests and CLI commands.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) CacheHit()  { m.CacheLookups.WithLabelValues("hit").Inc() }
func (m *Metrics) CacheMiss() { m.CacheLookups.WithLabelValues("miss").Inc() }
