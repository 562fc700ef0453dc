package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"sensor-bi-service/internal/models"
)

// Уровни важности инсайтов
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
	SeveritySuccess = "success"
)

// Приоритеты инсайтов
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	dayMillis = int64(24 * time.Hour / time.Millisecond)
	// changeThreshold порог изменения между двумя последними показаниями, %
	changeThreshold = 15.0
	// highChangeThreshold порог высокого приоритета, %
	highChangeThreshold = 30.0
	// minDailyFrequency минимальная средняя частота показаний в сутки
	minDailyFrequency = 10.0

	msgNoData = "Nenhum dado disponível para o dashboard BI"
)

// Limit допустимый диапазон значений датчика
type Limit struct {
	Min, Max float64
}

// safetyLimits пределы безопасности по имени датчика
var safetyLimits = map[string]Limit{
	"Temperatura Sensor 1": {0, 50},
	"Temperatura Sensor 2": {0, 50},
	"Umidade Relativa":     {20, 80},
	"pH":                   {6, 8},
	"Pressão":              {900, 1100},
}

var priorityRank = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// FetchInfo сведения о загрузке данных, попадающие в метрики качества
type FetchInfo struct {
	// Live истинно, если данные пришли из основного источника
	Live bool
	// Latency длительность загрузки
	Latency time.Duration
}

// SortInsights стабильно упорядочивает инсайты: high, medium, low
func SortInsights(insights []models.Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return priorityRank[insights[i].Priority] > priorityRank[insights[j].Priority]
	})
}

// changeInsight сравнивает два последних показания датчика
func changeInsight(name string, readings []models.NormalizedReading) (models.Insight, bool) {
	if len(readings) < 2 {
		return models.Insight{}, false
	}
	sorted := sortedByTime(readings)
	cur, prev := sorted[len(sorted)-1].Value, sorted[len(sorted)-2].Value
	if prev == 0 {
		return models.Insight{}, false
	}
	change := (cur - prev) / prev * 100
	magnitude := math.Abs(change)
	if magnitude <= changeThreshold {
		return models.Insight{}, false
	}

	insight := models.Insight{
		Severity: SeverityInfo,
		Title:    name,
		Message:  fmt.Sprintf("Redução de %.1f%% na última leitura", magnitude),
		Icon:     "trending-down",
		Priority: PriorityMedium,
	}
	if change > 0 {
		insight.Severity = SeverityWarning
		insight.Message = fmt.Sprintf("Aumento de %.1f%% na última leitura", magnitude)
		insight.Icon = "trending-up"
	}
	if magnitude > highChangeThreshold {
		insight.Priority = PriorityHigh
	}
	return insight, true
}

// countViolations считает показания вне пределов безопасности
func countViolations(readings []models.NormalizedReading) int {
	n := 0
	for _, r := range readings {
		limit, ok := safetyLimits[r.SensorName]
		if !ok {
			continue
		}
		if r.Value < limit.Min || r.Value > limit.Max {
			n++
		}
	}
	return n
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(roundHalfUp(float64(part) / float64(total) * 100))
}

// overallStatus классифицирует здоровье системы
func overallStatus(health int) string {
	switch {
	case health > 90:
		return "excellent"
	case health > 75:
		return "good"
	case health > 50:
		return "warning"
	}
	return "critical"
}

// Insights формирует инсайты по показаниям: резкие изменения, нарушения пределов
// и низкая частота данных; не более пяти, по убыванию приоритета
func Insights(readings []models.NormalizedReading, periodDays int) []models.Insight {
	insights := make([]models.Insight, 0)
	for _, g := range groupByName(readings) {
		if in, ok := changeInsight(g.name, g.readings); ok {
			insights = append(insights, in)
		}
	}

	if v := countViolations(readings); v > 0 {
		insights = append(insights, models.Insight{
			Severity: SeverityDanger,
			Title:    "Valores Críticos Detectados",
			Message:  fmt.Sprintf("%d leitura(s) fora dos parâmetros normais", v),
			Icon:     "alert-circle",
			Priority: PriorityHigh,
		})
	}

	if freq := dailyFrequency(len(readings), periodDays); freq < minDailyFrequency {
		insights = append(insights, models.Insight{
			Severity: SeverityWarning,
			Title:    "Baixa Frequência de Dados",
			Message:  fmt.Sprintf("Apenas %.1f leituras por dia em média", freq),
			Icon:     "clock-alert",
			Priority: PriorityMedium,
		})
	}

	SortInsights(insights)
	if len(insights) > MaxInsights {
		insights = insights[:MaxInsights]
	}
	return insights
}

func dailyFrequency(total, periodDays int) float64 {
	return float64(total) / math.Max(1, float64(periodDays))
}

// periodDays длительность данных в целых сутках (округление вверх)
func periodDays(readings []models.NormalizedReading) int {
	lo, hi := readings[0].TimestampMillis, readings[0].TimestampMillis
	for _, r := range readings[1:] {
		if r.TimestampMillis < lo {
			lo = r.TimestampMillis
		}
		if r.TimestampMillis > hi {
			hi = r.TimestampMillis
		}
	}
	return int(math.Ceil(float64(hi-lo) / float64(dayMillis)))
}

// Dashboard собирает сводку BI: KPI, инсайты, метрики качества и статус системы
func (e *Engine) Dashboard(readings []models.NormalizedReading, fetch FetchInfo) models.DashboardResponse {
	if len(readings) == 0 {
		return models.DashboardResponse{Empty: true, Message: msgNoData}
	}

	now := e.nowMillis()
	total := len(readings)
	groups := groupByName(readings)
	days := periodDays(readings)

	var recent, valid int
	for _, r := range readings {
		if now-r.TimestampMillis <= dayMillis {
			recent++
		}
		if r.ValueParsed {
			valid++
		}
	}
	health := percent(recent, total)
	if health > 100 {
		health = 100
	}
	quality := percent(valid, total)

	var offline, seenToday int
	for _, g := range groups {
		ts := latest(g.readings).TimestampMillis
		if !e.isOnline(ts) {
			offline++
		}
		if now-ts <= dayMillis {
			seenToday++
		}
	}

	connectivity := 0
	if fetch.Live {
		connectivity = 100
	}

	return models.DashboardResponse{
		KPIs: models.KPIs{
			TotalSensors:   len(groups),
			TotalReadings:  total,
			DataPeriodDays: days,
			SystemHealth:   health,
			DataQuality:    quality,
		},
		Insights: Insights(readings, days),
		QualityMetrics: models.QualityMetrics{
			DataIntegrity:    quality,
			ResponseTime:     fetch.Latency.Seconds(),
			Connectivity:     connectivity,
			DataCompleteness: quality,
			SystemUptime:     percent(seenToday, len(groups)),
		},
		SystemStatus: models.SystemStatus{
			Overall: overallStatus(health),
			Sensors: models.SensorCounts{
				Total:   len(groups),
				Active:  len(groups) - offline,
				Offline: offline,
			},
			Data: models.DataSummary{
				TotalReadings: total,
				PeriodDays:    days,
				Frequency:     dailyFrequency(total, days),
			},
		},
		LastUpdate: time.UnixMilli(now).UTC().Format(isoMillis),
	}
}
