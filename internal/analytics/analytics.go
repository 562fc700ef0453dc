// Package analytics реализует нормализацию показаний и статистические преобразования
// для графиков панели: описательная статистика, распределения по диапазонам,
// статус в реальном времени, корреляция Пирсона и сводка BI.
// Все преобразования работают над списком показаний одного запроса и не хранят состояние.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"sensor-bi-service/internal/models"
)

const (
	// PairingWindow окно сопоставления показаний двух датчиков (±10 минут)
	PairingWindow = 10 * time.Minute
	// SeriesWindow допуск поиска ближайшего показания для временного ряда (±30 минут)
	SeriesWindow = 30 * time.Minute
	// OnlineWindow датчик считается online, если последнее показание моложе 5 минут
	OnlineWindow = 5 * time.Minute
	// MinPairedSamples минимальное число пар для расчета корреляции
	MinPairedSamples = 3
	// MaxSeriesPoints максимальное число отметок времени во временном ряду
	MaxSeriesPoints = 50
	// MaxSeriesLabels максимальное число видимых подписей оси X
	MaxSeriesLabels = 8
	// MaxInsights максимальное число инсайтов в сводке BI
	MaxInsights = 5
)

// Dedup стратегия устранения дубликатов при обратном проходе сопоставления
type Dedup string

const (
	// DedupValue сравнивает пары по значениям с допуском 0.01
	DedupValue Dedup = "value"
	// DedupIdentity сравнивает пары по индексам исходных показаний
	DedupIdentity Dedup = "identity"
)

// Options параметры движка
type Options struct {
	// Now источник текущего времени; по умолчанию time.Now
	Now func() time.Time
	// Location часовой пояс для подписей HH:MM и дат DD/MM/YYYY
	Location *time.Location
	// Dedup стратегия устранения дубликатов пар
	Dedup Dedup
}

// Engine выполняет преобразования над нормализованными показаниями.
// Содержит только неизменяемые параметры и безопасен для конкурентного использования.
type Engine struct {
	now      func() time.Time
	location *time.Location
	dedup    Dedup
}

// NewEngine создает движок агрегации
func NewEngine(opts Options) *Engine {
	e := &Engine{
		now:      opts.Now,
		location: opts.Location,
		dedup:    opts.Dedup,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.location == nil {
		e.location = time.Local
	}
	if e.dedup == "" {
		e.dedup = DedupValue
	}
	return e
}

// Kind категория датчика, определяющая пороги
type Kind int

const (
	KindUnknown Kind = iota
	KindTemperature
	KindHumidity
	KindPH
	KindMethane
	KindPressure
	KindFlow
)

// KindOf определяет категорию датчика по отображаемому имени
func KindOf(name string) Kind {
	switch {
	case strings.Contains(name, "Temperatura"):
		return KindTemperature
	case strings.Contains(name, "Umidade"):
		return KindHumidity
	case strings.Contains(name, "pH"):
		return KindPH
	case strings.Contains(name, "Metano"):
		return KindMethane
	case strings.Contains(name, "Pressão"):
		return KindPressure
	case strings.Contains(name, "Vazão"):
		return KindFlow
	}
	return KindUnknown
}

// group показания одного датчика в порядке входного списка
type group struct {
	name     string
	readings []models.NormalizedReading
}

func (g group) values() []float64 {
	out := make([]float64, len(g.readings))
	for i, r := range g.readings {
		out[i] = r.Value
	}
	return out
}

// groupByName группирует показания по имени датчика,
// сохраняя порядок первого появления каждого имени
func groupByName(readings []models.NormalizedReading) []group {
	index := make(map[string]int)
	var groups []group
	for _, r := range readings {
		i, ok := index[r.SensorName]
		if !ok {
			i = len(groups)
			index[r.SensorName] = i
			groups = append(groups, group{name: r.SensorName})
		}
		groups[i].readings = append(groups[i].readings, r)
	}
	return groups
}

// sortedByTime возвращает копию показаний, упорядоченную по времени (стабильно)
func sortedByTime(readings []models.NormalizedReading) []models.NormalizedReading {
	out := make([]models.NormalizedReading, len(readings))
	copy(out, readings)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimestampMillis < out[j].TimestampMillis
	})
	return out
}

// roundHalfUp округляет половины вверх
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func (e *Engine) nowMillis() int64 {
	return e.now().UnixMilli()
}
