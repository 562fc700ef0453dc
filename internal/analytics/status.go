package analytics

import (
	"sort"
	"time"

	"sensor-bi-service/internal/models"
)

// Статусы датчика
const (
	StatusNormal   = "normal"
	StatusWarning  = "alerta"
	StatusCritical = "critico"
)

// isoMillis формат, совпадающий с Date.toISOString
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Classify определяет статус текущего значения по правилам типа датчика
func Classify(name string, v float64) string {
	switch KindOf(name) {
	case KindTemperature:
		if v > 35 {
			return StatusCritical
		}
		if v > 33 {
			return StatusWarning
		}
	case KindHumidity:
		if v > 98 || v < 90 {
			return StatusWarning
		}
	case KindPH:
		if v < 7.2 || v > 7.8 {
			return StatusCritical
		}
		if v < 7.4 || v > 7.6 {
			return StatusWarning
		}
	case KindMethane:
		if v > 70 {
			return StatusCritical
		}
		if v > 65 {
			return StatusWarning
		}
	}
	return StatusNormal
}

// latest возвращает показание с максимальной отметкой времени (первое при равенстве)
func latest(readings []models.NormalizedReading) models.NormalizedReading {
	cur := readings[0]
	for _, r := range readings[1:] {
		if r.TimestampMillis > cur.TimestampMillis {
			cur = r
		}
	}
	return cur
}

func (e *Engine) isOnline(ts int64) bool {
	return e.nowMillis()-ts < OnlineWindow.Milliseconds()
}

// Status возвращает текущее состояние каждого датчика в порядке первого появления
func (e *Engine) Status(readings []models.NormalizedReading) models.StatusResponse {
	groups := groupByName(readings)
	resp := models.StatusResponse{Sensors: make([]models.StatusEntry, 0, len(groups))}
	for _, g := range groups {
		cur := latest(g.readings)
		resp.Sensors = append(resp.Sensors, models.StatusEntry{
			Name:            g.name,
			CurrentValue:    cur.Value,
			Unit:            cur.Unit,
			LastReading:     time.UnixMilli(cur.TimestampMillis).UTC().Format(isoMillis),
			TimestampMillis: cur.TimestampMillis,
			Status:          Classify(g.name, cur.Value),
			Online:          e.isOnline(cur.TimestampMillis),
		})
	}
	return resp
}

var severityRank = map[string]int{
	StatusCritical: 0,
	StatusWarning:  1,
	StatusNormal:   2,
}

// SortBySeverity упорядочивает записи: critico, alerta, normal; равные сохраняют порядок
func SortBySeverity(entries []models.StatusEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return severityRank[entries[i].Status] < severityRank[entries[j].Status]
	})
}
