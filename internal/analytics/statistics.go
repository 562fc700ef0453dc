package analytics

import (
	"math"
	"sort"

	"sensor-bi-service/internal/models"
)

// Describe вычисляет описательную статистику (по генеральной совокупности) для набора значений
func Describe(name, unit string, values []float64) models.SensorStatistics {
	stats := models.SensorStatistics{Name: name, Count: len(values), Unit: unit}
	if len(values) == 0 {
		return stats
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	n := float64(len(values))
	mean := sum / n

	var sqDev float64
	for _, v := range values {
		sqDev += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(sqDev / n)

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Mean = mean
	stats.Median = median
	stats.StdDev = stdDev
	if mean != 0 {
		stats.CoefficientOfVariation = stdDev / mean * 100
	}
	return stats
}

// Statistics группирует показания по датчику и вычисляет статистику для каждой группы.
// Единица измерения берется из первого показания группы.
func Statistics(readings []models.NormalizedReading) map[string]models.SensorStatistics {
	out := make(map[string]models.SensorStatistics)
	for _, g := range groupByName(readings) {
		out[g.name] = Describe(g.name, g.readings[0].Unit, g.values())
	}
	return out
}
