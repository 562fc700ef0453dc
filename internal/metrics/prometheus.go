// Package metrics реализует экспорт метрик сервиса в Prometheus
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики
var (
	// RequestsTotal общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorbi_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"endpoint", "method", "status"},
	)

	// RequestDuration длительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sensorbi_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"endpoint", "method"},
	)

	// SourceFetchDuration длительность загрузки показаний из источника
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sensorbi_source_fetch_seconds",
			Help:    "Data source fetch latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	// SourceErrors ошибки основного источника
	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensorbi_source_errors_total",
			Help: "Total number of failed data source fetches",
		},
		[]string{"source"},
	)

	// FallbacksTotal количество подстановок примерного набора данных
	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensorbi_fallbacks_total",
			Help: "Total number of requests served from the fallback dataset",
		},
	)

	// ReadingsFetched количество загруженных показаний
	ReadingsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensorbi_readings_fetched_total",
			Help: "Total number of raw readings fetched",
		},
	)

	// LastBatchSize размер последнего набора показаний
	LastBatchSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sensorbi_last_batch_size",
			Help: "Number of raw readings in the most recent fetch",
		},
	)

	// TransformLatency время выполнения преобразования
	TransformLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sensorbi_transform_latency_seconds",
			Help:    "Aggregation transform latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05},
		},
		[]string{"transform"},
	)

	// PanicsRecovered количество перехваченных паник в обработчиках
	PanicsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensorbi_panics_recovered_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
	)

	// CounterErrors ошибки записи счетчиков в Redis
	CounterErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensorbi_counter_errors_total",
			Help: "Total number of failed Redis counter updates",
		},
	)
)

// ObserveFetch обновляет метрики загрузки показаний
func ObserveFetch(source string, seconds float64, readings int) {
	SourceFetchDuration.WithLabelValues(source).Observe(seconds)
	ReadingsFetched.Add(float64(readings))
	LastBatchSize.Set(float64(readings))
}
