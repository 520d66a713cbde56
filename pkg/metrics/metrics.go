package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор Prometheus метрик сервиса.
// Каждый экземпляр держит собственный registry, поэтому New можно вызывать повторно.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration      *prometheus.HistogramVec
	DBQueryErrors        *prometheus.CounterVec
	DBOpenConnections    *prometheus.GaugeVec
	DBInUseConnections   *prometheus.GaugeVec
	DBIdleConnections    *prometheus.GaugeVec
	DBWaitCount          *prometheus.GaugeVec
	DBTransactionsTotal  *prometheus.CounterVec
	DBTransactionRetries *prometheus.CounterVec

	// Бизнес-метрики
	BookingsTotal        *prometheus.CounterVec
	SlotConflictsTotal   *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
	CacheRequestsTotal   *prometheus.CounterVec
}

// New регистрирует все метрики с префиксом serviceName
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "db_query_errors_total",
			Help:      "Database query errors",
		}, []string{"service", "operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_open_connections",
			Help:      "Open database connections",
		}, []string{"service"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_in_use_connections",
			Help:      "Database connections in use",
		}, []string{"service"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_idle_connections",
			Help:      "Idle database connections",
		}, []string{"service"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}, []string{"service"}),

		DBTransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "db_transactions_total",
			Help:      "Database transactions by outcome",
		}, []string{"service", "isolation", "result"}),

		DBTransactionRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "db_transaction_retries_total",
			Help:      "Serializable transactions retried after a serialization failure",
		}, []string{"service"}),

		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "bookings_total",
			Help:      "Booking lifecycle events",
		}, []string{"event"}),

		SlotConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "slot_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken",
		}, []string{"stage"}),

		NotificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "notification_failures_total",
			Help:      "Failed notification deliveries",
		}, []string{"channel", "kind"}),

		CacheRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "cache_requests_total",
			Help:      "Slot cache lookups",
		}, []string{"result"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBTransactionsTotal,
		m.DBTransactionRetries,
		m.BookingsTotal,
		m.SlotConflictsTotal,
		m.NotificationFailures,
		m.CacheRequestsTotal,
	)

	return m
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает registry с метриками сервиса
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncBooking увеличивает счетчик событий бронирования. Безопасен для nil.
func (m *Metrics) IncBooking(event string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(event).Inc()
}

// IncSlotConflict увеличивает счетчик конфликтов слотов. Безопасен для nil.
func (m *Metrics) IncSlotConflict(stage string) {
	if m == nil {
		return
	}
	m.SlotConflictsTotal.WithLabelValues(stage).Inc()
}

// IncNotificationFailure увеличивает счетчик неудачных уведомлений. Безопасен для nil.
func (m *Metrics) IncNotificationFailure(channel, kind string) {
	if m == nil {
		return
	}
	m.NotificationFailures.WithLabelValues(channel, kind).Inc()
}

// IncCache увеличивает счетчик обращений к кэшу. Безопасен для nil.
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}
