package analytics

import (
	"math"
	"sort"
	"time"

	"sensor-bi-service/internal/models"
)

// pairTolerance допуск сравнения значений при DedupValue
const pairTolerance = 0.01

const msgNeedTwoSensors = "É necessário pelo menos 2 tipos de sensores para calcular correlação"

// pair одна сопоставленная пара значений и индексы исходных показаний
type pair struct {
	a, b   float64
	ia, ib int
}

// pairSet хранит пары и проверяет дубликаты согласно стратегии
type pairSet struct {
	dedup Dedup
	pairs []pair
	seen  map[[2]int]struct{}
}

func newPairSet(dedup Dedup) *pairSet {
	return &pairSet{dedup: dedup, seen: make(map[[2]int]struct{})}
}

func (s *pairSet) add(p pair) {
	s.pairs = append(s.pairs, p)
	s.seen[[2]int{p.ia, p.ib}] = struct{}{}
}

func (s *pairSet) contains(p pair) bool {
	if s.dedup == DedupIdentity {
		_, ok := s.seen[[2]int{p.ia, p.ib}]
		return ok
	}
	for _, q := range s.pairs {
		if math.Abs(q.a-p.a) < pairTolerance && math.Abs(q.b-p.b) < pairTolerance {
			return true
		}
	}
	return false
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// pairReadings сопоставляет показания двух датчиков по ближайшему времени в окне ±10 минут.
// Прямой проход: для каждого показания A ищется ближайшее показание B.
// Обратный проход: для каждого показания B ищется ближайшее показание A, пара с которым
// еще не записана; пара добавляется, только если она не дубликат.
func (e *Engine) pairReadings(a, b []models.NormalizedReading) []pair {
	window := PairingWindow.Milliseconds()
	set := newPairSet(e.dedup)

	for i, ra := range a {
		closest := -1
		for j, rb := range b {
			diff := absDiff(ra.TimestampMillis, rb.TimestampMillis)
			if diff > window {
				continue
			}
			if closest < 0 || diff < absDiff(ra.TimestampMillis, b[closest].TimestampMillis) {
				closest = j
			}
		}
		if closest >= 0 {
			set.add(pair{a: ra.Value, b: b[closest].Value, ia: i, ib: closest})
		}
	}

	for j, rb := range b {
		closest := -1
		for i, ra := range a {
			diff := absDiff(rb.TimestampMillis, ra.TimestampMillis)
			if diff > window {
				continue
			}
			if set.contains(pair{a: ra.Value, b: rb.Value, ia: i, ib: j}) {
				continue
			}
			if closest < 0 || diff < absDiff(rb.TimestampMillis, a[closest].TimestampMillis) {
				closest = i
			}
		}
		if closest < 0 {
			continue
		}
		p := pair{a: a[closest].Value, b: rb.Value, ia: closest, ib: j}
		if !set.contains(p) {
			set.add(p)
		}
	}
	return set.pairs
}

// Pearson вычисляет коэффициент корреляции Пирсона.
// Возвращает 0, если знаменатель равен 0 или результат не определен.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}
	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)

	var num, sqX, sqY float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-meanX, y[i]-meanY
		num += dx * dy
		sqX += dx * dx
		sqY += dy * dy
	}
	den := math.Sqrt(sqX * sqY)
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// Correlate вычисляет корреляцию для каждой неупорядоченной пары датчиков
// и сортирует результат по убыванию модуля коэффициента
func (e *Engine) Correlate(readings []models.NormalizedReading) []models.CorrelationResult {
	names := make([]string, 0)
	for _, g := range groupByName(readings) {
		names = append(names, g.name)
	}
	bySensor := make(map[string][]models.NormalizedReading)
	for _, g := range groupByName(sortedByTime(readings)) {
		bySensor[g.name] = g.readings
	}

	results := make([]models.CorrelationResult, 0)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := bySensor[names[i]], bySensor[names[j]]
			if len(a) < 2 || len(b) < 2 {
				continue
			}
			pairs := e.pairReadings(a, b)
			if len(pairs) < MinPairedSamples {
				continue
			}
			x := make([]float64, len(pairs))
			y := make([]float64, len(pairs))
			for k, p := range pairs {
				x[k], y[k] = p.a, p.b
			}
			results = append(results, models.CorrelationResult{
				SensorA:     names[i],
				SensorB:     names[j],
				PearsonR:    Pearson(x, y),
				PairedCount: len(pairs),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].PearsonR) > math.Abs(results[j].PearsonR)
	})
	return results
}

// Correlation собирает ответ эндпоинта корреляции: пары, временной ряд и период
func (e *Engine) Correlation(readings []models.NormalizedReading) models.CorrelationResponse {
	resp := models.CorrelationResponse{Correlations: []models.CorrelationResult{}}
	if len(readings) == 0 {
		return resp
	}
	if len(groupByName(readings)) < 2 {
		resp.Message = msgNeedTwoSensors
		return resp
	}
	resp.Correlations = e.Correlate(readings)
	resp.TemporalData, resp.PeriodInfo = e.Temporal(readings)
	return resp
}

// seriesTimestamps возвращает до 50 первых уникальных отметок времени по возрастанию
func seriesTimestamps(sorted []models.NormalizedReading) []int64 {
	out := make([]int64, 0, MaxSeriesPoints)
	for i, r := range sorted {
		if i > 0 && r.TimestampMillis == sorted[i-1].TimestampMillis {
			continue
		}
		out = append(out, r.TimestampMillis)
		if len(out) == MaxSeriesPoints {
			break
		}
	}
	return out
}

// nearestWithin возвращает значение ближайшего показания строго внутри окна или nil
func nearestWithin(readings []models.NormalizedReading, ts, window int64) *float64 {
	closest := -1
	for i, r := range readings {
		diff := absDiff(r.TimestampMillis, ts)
		if diff >= window {
			continue
		}
		if closest < 0 || diff < absDiff(readings[closest].TimestampMillis, ts) {
			closest = i
		}
	}
	if closest < 0 {
		return nil
	}
	v := readings[closest].Value
	return &v
}

func (e *Engine) formatTime(ms int64) string {
	return time.UnixMilli(ms).In(e.location).Format("15:04")
}

func (e *Engine) formatDate(ms int64) string {
	return time.UnixMilli(ms).In(e.location).Format("02/01/2006")
}

// Temporal строит синхронизированные ряды по всем датчикам. Подписи содержат только HH:MM
// и прореживаются с шагом ceil(n/8), так что видимых не больше восьми.
func (e *Engine) Temporal(readings []models.NormalizedReading) (models.TemporalSeries, *models.PeriodInfo) {
	sorted := sortedByTime(readings)
	stamps := seriesTimestamps(sorted)
	if len(stamps) == 0 {
		return models.TemporalSeries{}, nil
	}

	stride := (len(stamps) + MaxSeriesLabels - 1) / MaxSeriesLabels
	labels := make([]string, len(stamps))
	for i, ts := range stamps {
		if i%stride == 0 {
			labels[i] = e.formatTime(ts)
		}
	}

	window := SeriesWindow.Milliseconds()
	sortedGroups := make(map[string][]models.NormalizedReading)
	for _, g := range groupByName(sorted) {
		sortedGroups[g.name] = g.readings
	}
	var datasets []models.SeriesDataset
	for _, g := range groupByName(readings) {
		data := make([]*float64, len(stamps))
		for i, ts := range stamps {
			data[i] = nearestWithin(sortedGroups[g.name], ts, window)
		}
		datasets = append(datasets, models.SeriesDataset{Label: g.name, Data: data})
	}

	first, last := stamps[0], stamps[len(stamps)-1]
	period := &models.PeriodInfo{
		StartDate:   e.formatDate(first),
		StartTime:   e.formatTime(first),
		EndDate:     e.formatDate(last),
		EndTime:     e.formatTime(last),
		TotalPoints: len(stamps),
	}
	return models.TemporalSeries{Labels: labels, Datasets: datasets}, period
}
