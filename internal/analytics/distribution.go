package analytics

import (
	"fmt"
	"math"

	"sensor-bi-service/internal/models"
)

// Bucket индекс корзины трехуровневого распределения
type Bucket int

const (
	BucketLow Bucket = iota
	BucketMedium
	BucketHigh
)

// BucketNames имена корзин для легенды
var BucketNames = [3]string{"Baixa", "Média", "Alta"}

var (
	barColors = []string{"#FFC312", "#C4E538", "#12CBC4"}
	pieColors = [3]string{"#3498db", "#2ecc71", "#e74c3c"}
)

const (
	pieLegendFontColor = "#7F7F7F"
	pieLegendFontSize  = 15
)

// Thresholds границы корзин: Low < LowCut <= Medium <= HighCut < High
type Thresholds struct {
	LowCut  float64
	HighCut float64
	Labels  [3]string
}

// Classify относит значение к корзине
func (t Thresholds) Classify(v float64) Bucket {
	switch {
	case v < t.LowCut:
		return BucketLow
	case v <= t.HighCut:
		return BucketMedium
	}
	return BucketHigh
}

var kindThresholds = map[Kind]Thresholds{
	KindTemperature: {30, 35, [3]string{"Baixa (< 30°C)", "Média (30-35°C)", "Alta (> 35°C)"}},
	KindHumidity:    {95, 98, [3]string{"Baixa (< 95%)", "Média (95-98%)", "Alta (> 98%)"}},
	KindPH:          {7.2, 7.6, [3]string{"Ácido (< 7.2)", "Neutro (7.2-7.6)", "Alcalino (> 7.6)"}},
	KindMethane:     {55, 65, [3]string{"Baixo (< 55%)", "Médio (55-65%)", "Alto (> 65%)"}},
	KindPressure:    {1.0, 1.5, [3]string{"Baixa (< 1.0 kPa)", "Média (1.0-1.5 kPa)", "Alta (> 1.5 kPa)"}},
	KindFlow:        {25, 40, [3]string{"Baixa (< 25 L/h)", "Média (25-40 L/h)", "Alta (> 40 L/h)"}},
}

// ThresholdsFor возвращает фиксированные пороги для известных типов датчиков,
// иначе квартильные границы min+range*0.25 и min+range*0.75 по самим значениям
func ThresholdsFor(name string, values []float64) Thresholds {
	if t, ok := kindThresholds[KindOf(name)]; ok {
		return t
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		lo, hi = 0, 0
	}
	span := hi - lo
	q1 := lo + span*0.25
	q3 := lo + span*0.75
	return Thresholds{
		LowCut:  q1,
		HighCut: q3,
		Labels: [3]string{
			fmt.Sprintf("Baixa (< %.1f)", q1),
			fmt.Sprintf("Média (%.1f-%.1f)", q1, q3),
			fmt.Sprintf("Alta (> %.1f)", q3),
		},
	}
}

// BucketCounts считает показания в каждой из трех корзин
func BucketCounts(name string, values []float64) [3]int {
	t := ThresholdsFor(name, values)
	var counts [3]int
	for _, v := range values {
		counts[t.Classify(v)]++
	}
	return counts
}

// Ranges строит столбчатую диаграмму: по одной строке [low, medium, high] на датчик,
// пустые корзины сохраняются как 0
func Ranges(readings []models.NormalizedReading) models.RangesResponse {
	resp := models.RangesResponse{
		Labels: []string{},
		Legend: []string{},
		Data:   [][]int{},
	}
	groups := groupByName(readings)
	if len(groups) == 0 {
		return resp
	}
	resp.Legend = BucketNames[:]
	resp.BarColors = barColors
	for _, g := range groups {
		counts := BucketCounts(g.name, g.values())
		resp.Labels = append(resp.Labels, g.name)
		resp.Data = append(resp.Data, counts[:])
	}
	return resp
}

// Distribution строит круговые диаграммы по датчикам; пустые корзины опускаются
func Distribution(readings []models.NormalizedReading) map[string][]models.PieSlice {
	out := make(map[string][]models.PieSlice)
	for _, g := range groupByName(readings) {
		counts := BucketCounts(g.name, g.values())
		slices := make([]models.PieSlice, 0, len(counts))
		for i, c := range counts {
			if c == 0 {
				continue
			}
			slices = append(slices, models.PieSlice{
				Name:            BucketNames[i],
				Count:           c,
				Color:           pieColors[i],
				LegendFontColor: pieLegendFontColor,
				LegendFontSize:  pieLegendFontSize,
			})
		}
		out[g.name] = slices
	}
	return out
}
