package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"

	"sensor-bi-service/internal/models"
)

func TestSortInsights_StableByPriority(t *testing.T) {
	insights := []models.Insight{
		{Title: "m1", Priority: PriorityMedium},
		{Title: "h1", Priority: PriorityHigh},
		{Title: "l1", Priority: PriorityLow},
		{Title: "h2", Priority: PriorityHigh},
	}
	SortInsights(insights)
	want := []string{"h1", "h2", "m1", "l1"}
	for i, title := range want {
		if insights[i].Title != title {
			t.Errorf("Position %d: expected %s, got %s", i, title, insights[i].Title)
		}
	}
}

func TestInsights_ChangeDetection(t *testing.T) {
	readings := []models.NormalizedReading{
		reading("Metano (CH4)", 50, t0),
		reading("Metano (CH4)", 70, t0.Add(time.Hour)),
		reading("Vazão", 30, t0),
		reading("Vazão", 24, t0.Add(time.Hour)),
		reading("Sensor 9", 100, t0),
		reading("Sensor 9", 110, t0.Add(time.Hour)),
	}
	insights := Insights(readings, 0)

	var methane, flow *models.Insight
	for i := range insights {
		switch insights[i].Title {
		case "Metano (CH4)":
			methane = &insights[i]
		case "Vazão":
			flow = &insights[i]
		case "Sensor 9":
			t.Errorf("Unexpected insight for a 10%% change: %+v", insights[i])
		}
	}
	if methane == nil || methane.Severity != SeverityWarning || methane.Priority != PriorityHigh {
		t.Errorf("Expected high warning for +40%% methane, got %+v", methane)
	}
	if methane != nil && !strings.Contains(methane.Message, "Aumento de 40.0%") {
		t.Errorf("Unexpected message %q", methane.Message)
	}
	if flow == nil || flow.Severity != SeverityInfo || flow.Priority != PriorityMedium || flow.Icon != "trending-down" {
		t.Errorf("Expected medium info for -20%% flow, got %+v", flow)
	}
}

func TestInsights_ViolationsAndFrequency(t *testing.T) {
	readings := []models.NormalizedReading{
		reading("pH", 9, t0),
		reading("pH", 9.1, t0.Add(time.Minute)),
		reading("Umidade Relativa", 93, t0),
	}
	insights := Insights(readings, 3)

	if len(insights) != 2 {
		t.Fatalf("Expected 2 insights, got %+v", insights)
	}
	if insights[0].Severity != SeverityDanger || insights[0].Message != "3 leitura(s) fora dos parâmetros normais" {
		t.Errorf("Unexpected violation insight %+v", insights[0])
	}
	if insights[1].Title != "Baixa Frequência de Dados" || insights[1].Message != "Apenas 1.0 leituras por dia em média" {
		t.Errorf("Unexpected frequency insight %+v", insights[1])
	}
}

func TestInsights_Truncated(t *testing.T) {
	var readings []models.NormalizedReading
	for _, name := range []string{"Sensor 1", "Sensor 2", "Sensor 3", "Sensor 4", "Sensor 5", "Sensor 6", "Sensor 7"} {
		readings = append(readings, reading(name, 10, t0), reading(name, 20, t0.Add(time.Minute)))
	}
	if insights := Insights(readings, 0); len(insights) != MaxInsights {
		t.Errorf("Expected %d insights, got %d", MaxInsights, len(insights))
	}
}

func TestDashboard_KPIs(t *testing.T) {
	now := t0.Add(48 * time.Hour)
	e := testEngine(now)
	readings := []models.NormalizedReading{
		reading("Temperatura Sensor 1", 30, t0),
		reading("Temperatura Sensor 1", 31, now.Add(-2*time.Hour)),
		reading("pH", 7.5, now.Add(-time.Minute)),
		reading("pH", 7.5, now.Add(-3*time.Hour)),
	}
	readings[3].ValueParsed = false

	resp := e.Dashboard(readings, FetchInfo{Live: true, Latency: 250 * time.Millisecond})

	k := resp.KPIs
	if k.TotalSensors != 2 || k.TotalReadings != 4 || k.DataPeriodDays != 2 {
		t.Errorf("Unexpected KPIs %+v", k)
	}
	if k.SystemHealth != 75 || k.DataQuality != 75 {
		t.Errorf("Expected health and quality 75, got %+v", k)
	}
	if resp.SystemStatus.Overall != "warning" {
		t.Errorf("Expected warning status, got %q", resp.SystemStatus.Overall)
	}
	if resp.SystemStatus.Sensors.Offline != 1 || resp.SystemStatus.Sensors.Active != 1 {
		t.Errorf("Unexpected sensor counts %+v", resp.SystemStatus.Sensors)
	}
	if resp.QualityMetrics.Connectivity != 100 || resp.QualityMetrics.ResponseTime != 0.25 {
		t.Errorf("Unexpected quality metrics %+v", resp.QualityMetrics)
	}
	if resp.LastUpdate != "2025-01-27T20:00:00.000Z" {
		t.Errorf("Unexpected last update %q", resp.LastUpdate)
	}
}

func TestOverallStatus(t *testing.T) {
	cases := map[int]string{100: "excellent", 91: "excellent", 90: "good", 76: "good", 75: "warning", 51: "warning", 50: "critical", 0: "critical"}
	for health, want := range cases {
		if got := overallStatus(health); got != want {
			t.Errorf("overallStatus(%d) = %q, expected %q", health, got, want)
		}
	}
}

func TestDashboard_Empty(t *testing.T) {
	resp := testEngine(t0).Dashboard(nil, FetchInfo{})
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"kpis":{},"insights":[],"qualityMetrics":{},"systemStatus":{},"message":"Nenhum dado disponível para o dashboard BI"}`
	if string(data) != want {
		t.Errorf("Unexpected payload %s", data)
	}
}

func TestDailyAverages(t *testing.T) {
	readings := []models.NormalizedReading{
		reading("pH", 7.0, t0),
		reading("pH", 8.0, t0.Add(time.Hour)),
		reading("Vazão", 20, t0.Add(24*time.Hour)),
	}
	resp := DailyAverages(readings)
	if len(resp.Labels) != 2 || resp.Labels[0] != "2025-01-25" || resp.Labels[1] != "2025-01-26" {
		t.Fatalf("Unexpected labels %v", resp.Labels)
	}
	if resp.Datasets[0].Data[0] != 7.5 || resp.Datasets[0].Data[1] != 0 {
		t.Errorf("Unexpected pH averages %v", resp.Datasets[0].Data)
	}
	if resp.Legend[1] != "Vazão" || resp.Datasets[1].Data[1] != 20 {
		t.Errorf("Unexpected flow dataset %+v", resp.Datasets[1])
	}
}

func TestOverview(t *testing.T) {
	raw := []models.RawReading{
		{SourceID: 1, SensorCode: 1}, {SourceID: 2, SensorCode: 4},
		{SourceID: 3, SensorCode: 1}, {SourceID: 4, SensorCode: 77},
	}
	resp := Overview(raw)
	if resp.TotalRecords != 4 || len(resp.SampleData) != 3 {
		t.Errorf("Unexpected overview %+v", resp)
	}
	if len(resp.SensorTypes) != 3 || resp.SensorTypes[2] != "Sensor 77" {
		t.Errorf("Unexpected sensor types %v", resp.SensorTypes)
	}
}
