package models

import (
	"github.com/segmentio/encoding/json"
)

// SensorStatistics содержит описательную статистику по одному датчику
type SensorStatistics struct {
	Name                   string  `json:"nome"`
	Count                  int     `json:"totalLeituras"`
	Min                    float64 `json:"valorMinimo"`
	Max                    float64 `json:"valorMaximo"`
	Mean                   float64 `json:"valorMedio"`
	Median                 float64 `json:"mediana"`
	StdDev                 float64 `json:"desvioPadrao"`
	CoefficientOfVariation float64 `json:"estabilidade"`
	Unit                   string  `json:"unidade"`
}

// RangesResponse ответ для столбчатой диаграммы по диапазонам (пустые корзины сохраняются)
type RangesResponse struct {
	Labels    []string `json:"labels"`
	Legend    []string `json:"legend"`
	Data      [][]int  `json:"data"`
	BarColors []string `json:"barColors,omitempty"`
}

// PieSlice один сектор круговой диаграммы распределения
type PieSlice struct {
	Name            string `json:"name"`
	Count           int    `json:"quantidade"`
	Color           string `json:"color"`
	LegendFontColor string `json:"legendFontColor"`
	LegendFontSize  int    `json:"legendFontSize"`
}

// HistogramBin одна корзина гистограммы
type HistogramBin struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// StatusEntry текущее состояние одного датчика
type StatusEntry struct {
	Name            string  `json:"nome"`
	CurrentValue    float64 `json:"valorAtual"`
	Unit            string  `json:"unidade"`
	LastReading     string  `json:"ultimaLeitura"`
	TimestampMillis int64   `json:"timestamp"`
	Status          string  `json:"status"`
	Online          bool    `json:"online"`
}

// StatusResponse ответ эндпоинта статуса
type StatusResponse struct {
	Sensors []StatusEntry `json:"sensors"`
}

// CorrelationResult корреляция Пирсона между двумя датчиками
type CorrelationResult struct {
	SensorA     string  `json:"sensor1"`
	SensorB     string  `json:"sensor2"`
	PearsonR    float64 `json:"correlation"`
	PairedCount int     `json:"pairedCount"`
}

// SeriesDataset ряд значений одного датчика; nil означает отсутствие показания
type SeriesDataset struct {
	Label string     `json:"label"`
	Data  []*float64 `json:"data"`
}

// TemporalSeries синхронизированные по времени ряды для линейного графика
type TemporalSeries struct {
	Labels   []string        `json:"labels,omitempty"`
	Datasets []SeriesDataset `json:"datasets,omitempty"`
}

// PeriodInfo границы выбранного периода
type PeriodInfo struct {
	StartDate   string `json:"startDate"`
	StartTime   string `json:"startTime"`
	EndDate     string `json:"endDate"`
	EndTime     string `json:"endTime"`
	TotalPoints int    `json:"totalPoints"`
}

// CorrelationResponse ответ эндпоинта корреляции
type CorrelationResponse struct {
	Correlations []CorrelationResult `json:"correlations"`
	TemporalData TemporalSeries      `json:"temporalData"`
	PeriodInfo   *PeriodInfo         `json:"periodInfo,omitempty"`
	Message      string              `json:"message,omitempty"`
}

// DailyDataset средние значения датчика по дням
type DailyDataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	StrokeWidth int       `json:"strokeWidth"`
}

// DailyResponse ответ эндпоинта суточных средних
type DailyResponse struct {
	Labels   []string       `json:"labels"`
	Datasets []DailyDataset `json:"datasets"`
	Legend   []string       `json:"legend"`
}

// Insight эвристическое наблюдение для BI-панели
type Insight struct {
	Severity string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Icon     string `json:"icon"`
	Priority string `json:"priority"`
}

// KPIs ключевые показатели BI-панели
type KPIs struct {
	TotalSensors   int `json:"totalSensors"`
	TotalReadings  int `json:"totalReadings"`
	DataPeriodDays int `json:"dataPeriodDays"`
	SystemHealth   int `json:"systemHealth"`
	DataQuality    int `json:"dataQuality"`
}

// QualityMetrics метрики качества данных
type QualityMetrics struct {
	DataIntegrity    int     `json:"dataIntegrity"`
	ResponseTime     float64 `json:"responseTime"`
	Connectivity     int     `json:"connectivity"`
	DataCompleteness int     `json:"dataCompleteness"`
	SystemUptime     int     `json:"systemUptime"`
}

// SensorCounts сводка по датчикам
type SensorCounts struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Offline int `json:"offline"`
}

// DataSummary сводка по объему данных
type DataSummary struct {
	TotalReadings int     `json:"totalReadings"`
	PeriodDays    int     `json:"periodDays"`
	Frequency     float64 `json:"frequency"`
}

// SystemStatus общий статус системы
type SystemStatus struct {
	Overall string       `json:"overall"`
	Sensors SensorCounts `json:"sensors"`
	Data    DataSummary  `json:"data"`
}

// DashboardResponse ответ BI-панели. Пустой ответ (Empty) сериализуется
// с пустыми объектами и сообщением вместо расчетных полей.
type DashboardResponse struct {
	Empty          bool
	KPIs           KPIs
	Insights       []Insight
	QualityMetrics QualityMetrics
	SystemStatus   SystemStatus
	LastUpdate     string
	Message        string
}

type dashboardPayload struct {
	KPIs           KPIs           `json:"kpis"`
	Insights       []Insight      `json:"insights"`
	QualityMetrics QualityMetrics `json:"qualityMetrics"`
	SystemStatus   SystemStatus   `json:"systemStatus"`
	LastUpdate     string         `json:"lastUpdate"`
}

type emptyDashboardPayload struct {
	KPIs           struct{}  `json:"kpis"`
	Insights       []Insight `json:"insights"`
	QualityMetrics struct{}  `json:"qualityMetrics"`
	SystemStatus   struct{}  `json:"systemStatus"`
	Message        string    `json:"message"`
}

// MarshalJSON сериализует ответ в одну из двух форм
func (d DashboardResponse) MarshalJSON() ([]byte, error) {
	if d.Empty {
		return json.Marshal(emptyDashboardPayload{
			Insights: []Insight{},
			Message:  d.Message,
		})
	}
	insights := d.Insights
	if insights == nil {
		insights = []Insight{}
	}
	return json.Marshal(dashboardPayload{
		KPIs:           d.KPIs,
		Insights:       insights,
		QualityMetrics: d.QualityMetrics,
		SystemStatus:   d.SystemStatus,
		LastUpdate:     d.LastUpdate,
	})
}

// OverviewResponse ответ диагностического эндпоинта /api/test
type OverviewResponse struct {
	Message      string       `json:"message"`
	TotalRecords int          `json:"totalRecords"`
	SampleData   []RawReading `json:"sampleData"`
	SensorTypes  []string     `json:"sensorTypes"`
}
