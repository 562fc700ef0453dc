// Package main запускает BI-сервис показаний IoT-датчиков.
// Сервис реализует:
// - HTTP API статистики, распределений, статуса, корреляции и BI-панели
// - загрузку показаний из REST API или MySQL с подстановкой демонстрационного набора
// - служебные счетчики запросов в Redis
// - экспорт метрик в Prometheus
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sensor-bi-service/internal/analytics"
	"sensor-bi-service/internal/cache"
	"sensor-bi-service/internal/config"
	"sensor-bi-service/internal/handlers"
	"sensor-bi-service/internal/source"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	// Настраиваем логгер
	var logger *zap.Logger
	if cfg.Env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("starting sensor BI service",
		"go_version", runtime.Version(),
		"env", cfg.Env,
		"source", cfg.Source.Kind,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Источник показаний
	primary, closeSource, err := newDataSource(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to set up data source", "error", err)
	}
	defer closeSource()

	var backup source.DataSource
	if cfg.Source.Fallback && cfg.Source.Kind != source.KindFixture {
		backup = source.NewFixture()
	}
	loader := source.NewFallback(primary, backup, cfg.Source.Timeout, sugar)

	// Движок агрегации
	loc, err := cfg.Location()
	if err != nil {
		sugar.Fatalw("invalid timezone", "error", err)
	}
	engine := analytics.NewEngine(analytics.Options{
		Location: loc,
		Dedup:    analytics.Dedup(cfg.Analytics.Dedup),
	})

	// Счетчики в Redis не обязательны: без них /stats отдает нули
	var counters *cache.Counters
	if cfg.RedisEnabled() {
		counters, err = cache.NewCounters(ctx, cfg.Redis, func(attempt uint, err error) {
			sugar.Warnw("redis connection attempt failed", "attempt", attempt, "error", err)
		})
		if err != nil {
			sugar.Warnw("running without redis counters", "addr", cfg.Redis.Addr, "error", err)
			counters = nil
		} else {
			sugar.Infow("connected to redis", "addr", cfg.Redis.Addr)
			defer counters.Close()
		}
	}

	handler := handlers.NewHandler(loader, engine, counters, sugar)
	router := handlers.NewRouter(handler, sugar)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handlers.WithCORS(router, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Запускаем сервер в горутине
	go func() {
		sugar.Infow("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server error", "error", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	sugar.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("server shutdown error", "error", err)
	}

	sugar.Info("server stopped")
}

// newDataSource создает основной источник показаний по конфигурации
func newDataSource(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (source.DataSource, func(), error) {
	noop := func() {}
	switch cfg.Source.Kind {
	case source.KindMySQL:
		connectCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		db, err := source.NewDbConnection(connectCtx, cfg.MySQL, logger)
		if err != nil {
			return nil, noop, err
		}
		src, err := source.NewMySQL(db, cfg.MySQL, logger)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return src, func() { db.Close() }, nil
	case source.KindFixture:
		return source.NewFixture(), noop, nil
	default:
		return source.NewREST(cfg.Source.URL, cfg.Source.Timeout), noop, nil
	}
}
