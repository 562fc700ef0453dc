package source

import (
	"context"

	"sensor-bi-service/internal/models"
)

// exampleReadings демонстрационный набор, подставляемый при недоступности основного источника
var exampleReadings = []models.RawReading{
	{SourceID: 1, SensorCode: 1, Value: "38.3 °C", CollectedAt: "2025-01-25T20:12:39.000Z"},
	{SourceID: 2, SensorCode: 6, Value: "0.53 kPa", CollectedAt: "2025-01-25T20:12:44.000Z"},
	{SourceID: 3, SensorCode: 5, Value: "65.0 %CH4", CollectedAt: "2025-01-25T20:12:49.000Z"},
	{SourceID: 4, SensorCode: 2, Value: "34.7 °C", CollectedAt: "2025-01-25T20:12:54.000Z"},
	{SourceID: 5, SensorCode: 3, Value: "93.5 %UR", CollectedAt: "2025-01-25T20:13:09.000Z"},
	{SourceID: 6, SensorCode: 4, Value: "7.8 pH", CollectedAt: "2025-01-25T20:13:24.000Z"},
	{SourceID: 7, SensorCode: 7, Value: "21.2 L/h", CollectedAt: "2025-01-25T20:13:54.000Z"},
	{SourceID: 8, SensorCode: 1, Value: "32.9 °C", CollectedAt: "2025-01-26T20:15:44.000Z"},
	{SourceID: 9, SensorCode: 2, Value: "35.8 °C", CollectedAt: "2025-01-26T20:18:19.000Z"},
	{SourceID: 10, SensorCode: 3, Value: "98.8 %UR", CollectedAt: "2025-01-26T20:22:10.000Z"},
	{SourceID: 11, SensorCode: 4, Value: "7.7 pH", CollectedAt: "2025-01-26T20:22:20.000Z"},
	{SourceID: 12, SensorCode: 5, Value: "61.8 %CH4", CollectedAt: "2025-01-26T20:22:05.000Z"},
	{SourceID: 13, SensorCode: 6, Value: "1.65 kPa", CollectedAt: "2025-01-26T20:22:50.000Z"},
	{SourceID: 14, SensorCode: 7, Value: "26.6 L/h", CollectedAt: "2025-01-26T20:22:55.000Z"},
	{SourceID: 15, SensorCode: 1, Value: "33.2 °C", CollectedAt: "2025-01-27T20:23:10.000Z"},
}

// Fixture отдает встроенный демонстрационный набор
type Fixture struct{}

// NewFixture создает источник демонстрационных данных
func NewFixture() Fixture { return Fixture{} }

// Name возвращает имя источника
func (Fixture) Name() string { return KindFixture }

// Fetch возвращает копию набора
func (Fixture) Fetch(context.Context) ([]models.RawReading, error) {
	out := make([]models.RawReading, len(exampleReadings))
	copy(out, exampleReadings)
	return out, nil
}
