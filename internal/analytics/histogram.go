package analytics

import (
	"fmt"
	"math"

	"sensor-bi-service/internal/models"
)

const (
	// HistogramBins число равных корзин гистограммы
	HistogramBins = 5
	// gaussianPrescale множитель плотности до нормировки
	gaussianPrescale = 0.8
)

// GaussianHistogram строит гистограмму из 5 равных корзин на [min, max] по одной лишь
// статистике датчика. Счетчики не являются точной раскладкой показаний: они аппроксимируются
// нормальной плотностью в середине каждой корзины (среднее и σ группы) и масштабируются так,
// чтобы сумма была примерно равна числу показаний.
//
// При σ = 0 плотность не определена, и все показания попадают в корзину, содержащую среднее.
func GaussianHistogram(stats models.SensorStatistics) []models.HistogramBin {
	width := (stats.Max - stats.Min) / HistogramBins
	counts := make([]float64, HistogramBins)

	if stats.StdDev == 0 || math.IsNaN(stats.StdDev) {
		i := 0
		if width > 0 {
			i = int((stats.Mean - stats.Min) / width)
		}
		if i >= HistogramBins {
			i = HistogramBins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i] = float64(stats.Count)
	} else {
		var sum float64
		for i := range counts {
			center := stats.Min + (float64(i)+0.5)*width
			z := (center - stats.Mean) / stats.StdDev
			density := math.Exp(-0.5 * z * z)
			counts[i] = roundHalfUp(density * float64(stats.Count) * gaussianPrescale)
			sum += counts[i]
		}
		if sum > 0 {
			scale := float64(stats.Count) / sum
			for i := range counts {
				counts[i] = roundHalfUp(counts[i] * scale)
			}
		}
	}

	bins := make([]models.HistogramBin, HistogramBins)
	for i := range bins {
		start := stats.Min + float64(i)*width
		end := start + width
		bins[i] = models.HistogramBin{
			Label: fmt.Sprintf("%.1f-%.1f", start, end),
			Start: start,
			End:   end,
			Count: int(counts[i]),
		}
	}
	return bins
}

// Histograms строит аппроксимированную гистограмму для каждого датчика
func Histograms(readings []models.NormalizedReading) map[string][]models.HistogramBin {
	out := make(map[string][]models.HistogramBin)
	for name, stats := range Statistics(readings) {
		out[name] = GaussianHistogram(stats)
	}
	return out
}
