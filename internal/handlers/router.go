package handlers

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter регистрирует маршруты API и middleware
func NewRouter(h *Handler, logger *zap.SugaredLogger) *mux.Router {
	router := mux.NewRouter()

	// API эндпоинты
	api := map[string]http.HandlerFunc{
		RouteStatistics:   h.StatisticsHandler,
		RouteRanges:       h.RangesHandler,
		RouteDistribution: h.DistributionHandler,
		RouteHistogram:    h.HistogramHandler,
		RouteStatus:       h.StatusHandler,
		RouteCorrelation:  h.CorrelationHandler,
		RouteDashboard:    h.DashboardHandler,
		RouteTemporal:     h.TemporalHandler,
		RouteOverview:     h.OverviewHandler,
	}
	for path, fn := range api {
		router.HandleFunc(path, fn).Methods(http.MethodGet)
	}
	router.HandleFunc(RouteHealth, h.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc(RouteStats, h.StatsHandler).Methods(http.MethodGet)

	// Prometheus метрики
	router.Handle(RoutePrometheus, promhttp.Handler())

	router.Use(RequestIDMiddleware)
	router.Use(LoggingMiddleware(logger))
	router.Use(RecoverMiddleware(logger))

	return router
}

// WithCORS добавляет CORS и gzip поверх маршрутизатора. Пустой список источников разрешает любые.
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
	return cors(handlers.CompressHandler(next))
}
