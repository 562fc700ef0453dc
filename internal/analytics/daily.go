package analytics

import (
	"sort"
	"time"

	"sensor-bi-service/internal/models"
)

const (
	dailyStrokeWidth = 3
	sampleSize       = 3
	overviewMessage  = "API funcionando"
)

// DailyAverages строит ряды суточных средних. Подписи: дни UTC (YYYY-MM-DD) по возрастанию,
// по одному ряду на датчик; день без показаний датчика дает 0
func DailyAverages(readings []models.NormalizedReading) models.DailyResponse {
	resp := models.DailyResponse{
		Labels:   []string{},
		Datasets: []models.DailyDataset{},
		Legend:   []string{},
	}
	if len(readings) == 0 {
		return resp
	}

	type acc struct {
		sum   float64
		count int
	}
	days := make(map[string]map[string]*acc)
	for _, r := range readings {
		day := time.UnixMilli(r.TimestampMillis).UTC().Format("2006-01-02")
		if days[day] == nil {
			days[day] = make(map[string]*acc)
		}
		a := days[day][r.SensorName]
		if a == nil {
			a = &acc{}
			days[day][r.SensorName] = a
		}
		a.sum += r.Value
		a.count++
	}

	for day := range days {
		resp.Labels = append(resp.Labels, day)
	}
	sort.Strings(resp.Labels)

	for _, g := range groupByName(readings) {
		resp.Legend = append(resp.Legend, g.name)
		data := make([]float64, len(resp.Labels))
		for i, day := range resp.Labels {
			if a := days[day][g.name]; a != nil {
				data[i] = a.sum / float64(a.count)
			}
		}
		resp.Datasets = append(resp.Datasets, models.DailyDataset{
			Label:       g.name,
			Data:        data,
			StrokeWidth: dailyStrokeWidth,
		})
	}
	return resp
}

// Overview краткая диагностика набора данных для /api/test
func Overview(raw []models.RawReading) models.OverviewResponse {
	resp := models.OverviewResponse{
		Message:      overviewMessage,
		TotalRecords: len(raw),
		SampleData:   []models.RawReading{},
		SensorTypes:  []string{},
	}
	n := sampleSize
	if len(raw) < n {
		n = len(raw)
	}
	resp.SampleData = append(resp.SampleData, raw[:n]...)

	seen := make(map[string]bool)
	for _, r := range raw {
		name := SensorName(r.SensorCode)
		if !seen[name] {
			seen[name] = true
			resp.SensorTypes = append(resp.SensorTypes, name)
		}
	}
	return resp
}
