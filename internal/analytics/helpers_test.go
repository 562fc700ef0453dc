package analytics

import (
	"time"

	"sensor-bi-service/internal/models"
)

var t0 = time.Date(2025, 1, 25, 20, 0, 0, 0, time.UTC)

func reading(name string, value float64, at time.Time) models.NormalizedReading {
	return models.NormalizedReading{
		SensorName:      name,
		Value:           value,
		TimestampMillis: at.UnixMilli(),
		ValueParsed:     true,
		TimeParsed:      true,
	}
}

func testEngine(now time.Time) *Engine {
	return NewEngine(Options{
		Now:      func() time.Time { return now },
		Location: time.UTC,
	})
}
