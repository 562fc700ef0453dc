// Package source загружает сырые показания датчиков из внешних источников
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sensor-bi-service/internal/metrics"
	"sensor-bi-service/internal/models"
)

// Виды источников
const (
	KindREST    = "rest"
	KindMySQL   = "mysql"
	KindFixture = "fixture"
)

// ErrNoSource возвращается, если у стратегии нет основного источника
var ErrNoSource = errors.New("source: primary data source is not configured")

// DataSource предоставляет полный набор сырых показаний
type DataSource interface {
	Fetch(ctx context.Context) ([]models.RawReading, error)
	Name() string
}

// Batch результат одной загрузки
type Batch struct {
	Readings []models.RawReading
	// Source имя источника, отдавшего данные
	Source string
	// Live ложно, если данные подставлены из резервного набора
	Live bool
	// Latency длительность загрузки
	Latency time.Duration
}

// Fallback загружает показания из основного источника, а при ошибке
// подставляет резервный набор. Без резервного источника ошибка возвращается вызывающему.
type Fallback struct {
	primary DataSource
	backup  DataSource
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewFallback создает стратегию загрузки. backup может быть nil.
func NewFallback(primary, backup DataSource, timeout time.Duration, logger *zap.SugaredLogger) *Fallback {
	return &Fallback{
		primary: primary,
		backup:  backup,
		timeout: timeout,
		logger:  logger,
	}
}

// Name возвращает имя основного источника
func (f *Fallback) Name() string {
	if f.primary == nil {
		return ""
	}
	return f.primary.Name()
}

// Load выполняет одну загрузку показаний
func (f *Fallback) Load(ctx context.Context) (Batch, error) {
	if f.primary == nil {
		return Batch{}, ErrNoSource
	}

	start := time.Now()
	readings, err := f.fetch(ctx, f.primary)
	latency := time.Since(start)
	if err == nil {
		metrics.ObserveFetch(f.primary.Name(), latency.Seconds(), len(readings))
		return Batch{Readings: readings, Source: f.primary.Name(), Live: true, Latency: latency}, nil
	}

	metrics.SourceErrors.WithLabelValues(f.primary.Name()).Inc()
	if f.backup == nil {
		return Batch{}, fmt.Errorf("fetch from %s: %w", f.primary.Name(), err)
	}
	f.logger.Warnw("source: primary fetch failed, using fallback dataset",
		"source", f.primary.Name(),
		"fallback", f.backup.Name(),
		"error", err,
	)

	readings, berr := f.backup.Fetch(ctx)
	if berr != nil {
		return Batch{}, fmt.Errorf("fetch from %s: %w (fallback %s: %v)", f.primary.Name(), err, f.backup.Name(), berr)
	}
	metrics.FallbacksTotal.Inc()
	metrics.ObserveFetch(f.backup.Name(), time.Since(start).Seconds(), len(readings))
	return Batch{Readings: readings, Source: f.backup.Name(), Live: false, Latency: latency}, nil
}

func (f *Fallback) fetch(ctx context.Context, src DataSource) ([]models.RawReading, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	readings, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if readings == nil {
		readings = []models.RawReading{}
	}
	return readings, nil
}
