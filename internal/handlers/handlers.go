// Package handlers содержит HTTP обработчики для API
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"sensor-bi-service/internal/analytics"
	"sensor-bi-service/internal/cache"
	"sensor-bi-service/internal/metrics"
	"sensor-bi-service/internal/models"
	"sensor-bi-service/internal/source"
)

// Маршруты API
const (
	RouteStatistics   = "/api/sensores-estatisticas"
	RouteRanges       = "/api/sensores-faixas"
	RouteDistribution = "/api/sensores-distribuicao"
	RouteHistogram    = "/api/sensores-histograma"
	RouteStatus       = "/api/sensores-status"
	RouteCorrelation  = "/api/sensores-correlacao"
	RouteDashboard    = "/api/dashboard-bi"
	RouteTemporal     = "/api/sensores-temporal"
	RouteOverview     = "/api/test"
	RouteHealth       = "/health"
	RouteStats        = "/stats"
	RoutePrometheus   = "/prometheus"
)

// Loader загружает набор показаний для одного запроса
type Loader interface {
	Load(ctx context.Context) (source.Batch, error)
	Name() string
}

// Handler содержит зависимости для HTTP обработчиков
type Handler struct {
	loader    Loader
	engine    *analytics.Engine
	counters  *cache.Counters
	logger    *zap.SugaredLogger
	startTime time.Time
}

// NewHandler создает новый обработчик. counters может быть nil.
func NewHandler(loader Loader, engine *analytics.Engine, counters *cache.Counters, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		loader:    loader,
		engine:    engine,
		counters:  counters,
		logger:    logger,
		startTime: time.Now(),
	}
}

// transform строит тело ответа по загруженному набору
type transform func(batch source.Batch, readings []models.NormalizedReading) interface{}

// serve загружает показания, нормализует их и отдает результат преобразования
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, route string, fn transform) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues(route, r.Method))
	defer timer.ObserveDuration()

	ctx := r.Context()
	h.countRequest(ctx, route)

	batch, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.Errorw("failed to load readings",
			"route", route,
			"request_id", RequestID(ctx),
			"error", err,
		)
		metrics.RequestsTotal.WithLabelValues(route, r.Method, "500").Inc()
		h.respondError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.countFetch(ctx, batch.Live)

	start := time.Now()
	body := fn(batch, analytics.NormalizeAll(batch.Readings))
	metrics.TransformLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())

	metrics.RequestsTotal.WithLabelValues(route, r.Method, "200").Inc()
	h.respondJSON(w, body, http.StatusOK)
}

// StatisticsHandler обрабатывает GET /api/sensores-estatisticas
func (h *Handler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteStatistics, func(_ source.Batch, readings []models.NormalizedReading) interface{} {
		return analytics.Statistics(readings)
	})
}

// RangesHandler обрабатывает GET /api/sensores-faixas
func (h *Handler) RangesHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteRanges, func(_ source.Batch, readings []models.NormalizedReading) interface{} {
		return analytics.Ranges(readings)
	})
}

// DistributionHandler обрабатывает GET /api/sensores-distribuicao
func (h *Handler) DistributionHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteDistribution, func(_ source.Batch, readings []models.NormalizedReading) interface{} {
		return analytics.Distribution(readings)
	})
}

// HistogramHandler обрабатывает GET /api/sensores-histograma
func (h *Handler) HistogramHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteHistogram, func(_ source.Batch, readings []models.NormalizedReading) interface{} {
		return analytics.Histograms(readings)
	})
}

// StatusHandler обрабатывает GET /api/sensores-status; критичные датчики идут первыми
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteStatus, func(_ source.Batch, readings []models.NormalizedReading) interface{} {
		resp := h.engine.Status(readings)
		analytics.SortBySeverity(resp.Sensors)
		return resp
	})
}

// CorrelationHandler обрабатывает GET /api/sensores-correlacao
func (h *Handler) CorrelationHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteCorrelation, func(_ source.Batch, readings []models.NormalizedReading) interface{} {
		return h.engine.Correlation(readings)
	})
}

// DashboardHandler обрабатывает GET /api/dashboard-bi
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteDashboard, func(batch source.Batch, readings []models.NormalizedReading) interface{} {
		return h.engine.Dashboard(readings, analytics.FetchInfo{
			Live:    batch.Live,
			Latency: batch.Latency,
		})
	})
}

// TemporalHandler обрабатывает GET /api/sensores-temporal
func (h *Handler) TemporalHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteTemporal, func(_ source.Batch, readings []models.NormalizedReading) interface{} {
		return analytics.DailyAverages(readings)
	})
}

// OverviewHandler обрабатывает GET /api/test
func (h *Handler) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteOverview, func(batch source.Batch, _ []models.NormalizedReading) interface{} {
		return analytics.Overview(batch.Readings)
	})
}

// HealthHandler обрабатывает GET /health - проверка здоровья
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	redisStatus := "disabled"
	if h.counters != nil {
		redisStatus = "connected"
		if err := h.counters.Ping(r.Context()); err != nil {
			redisStatus = "disconnected"
		}
	}

	status := models.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Redis:     redisStatus,
		Source:    h.loader.Name(),
		Uptime:    time.Since(h.startTime).String(),
	}

	h.respondJSON(w, status, http.StatusOK)
}

// StatsHandler обрабатывает GET /stats - статистика сервиса
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues(RouteStats, r.Method))
	defer timer.ObserveDuration()

	response := models.StatsResponse{
		RequestsByPath: map[string]int64{},
		Uptime:         time.Since(h.startTime).String(),
	}

	if h.counters != nil {
		ctx := r.Context()
		response.TotalRequests, _ = h.counters.GetCounter(ctx, cache.RequestsTotalKey)
		response.LiveFetches, _ = h.counters.GetCounter(ctx, cache.LiveFetchesKey)
		response.FallbackCount, _ = h.counters.GetCounter(ctx, cache.FallbackFetchesKey)
		if byRoute, err := h.counters.RequestsByRoute(ctx); err == nil {
			response.RequestsByPath = byRoute
		}
	}

	metrics.RequestsTotal.WithLabelValues(RouteStats, r.Method, "200").Inc()
	h.respondJSON(w, response, http.StatusOK)
}

func (h *Handler) countRequest(ctx context.Context, route string) {
	if h.counters == nil {
		return
	}
	if err := h.counters.RecordRequest(ctx, route); err != nil {
		metrics.CounterErrors.Inc()
		h.logger.Debugw("failed to record request", "route", route, "error", err)
	}
}

func (h *Handler) countFetch(ctx context.Context, live bool) {
	if h.counters == nil {
		return
	}
	if err := h.counters.RecordFetch(ctx, live); err != nil {
		metrics.CounterErrors.Inc()
		h.logger.Debugw("failed to record fetch", "live", live, "error", err)
	}
}

// respondJSON отправляет JSON ответ
func (h *Handler) respondJSON(w http.ResponseWriter, data interface{}, status int) {
	if err := writeJSON(w, data, status); err != nil {
		h.logger.Errorw("failed to encode response", "error", err)
		h.respondError(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// respondError отправляет ошибку в JSON формате
func (h *Handler) respondError(w http.ResponseWriter, message string, status int) {
	_ = writeJSON(w, models.ErrorResponse{Message: message}, status)
}

// writeJSON кодирует тело до записи заголовков: при ошибке кодирования ничего не отправлено
func writeJSON(w http.ResponseWriter, data interface{}, status int) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
	return nil
}
