package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"

	"sensor-bi-service/internal/models"
)

func TestPearson(t *testing.T) {
	if r := Pearson([]float64{1, 2, 3}, []float64{2, 4, 6}); math.Abs(r-1) > 1e-9 {
		t.Errorf("Expected 1, got %v", r)
	}
	if r := Pearson([]float64{1, 2, 3}, []float64{6, 4, 2}); math.Abs(r+1) > 1e-9 {
		t.Errorf("Expected -1, got %v", r)
	}
	if r := Pearson([]float64{5, 5, 5}, []float64{1, 2, 3}); r != 0 {
		t.Errorf("Expected 0 for zero variance, got %v", r)
	}
}

func TestCorrelate_SelfCopy(t *testing.T) {
	e := testEngine(t0)
	var readings []models.NormalizedReading
	values := []float64{31.5, 33.2, 30.1, 36.8, 34.4}
	for i, v := range values {
		at := t0.Add(time.Duration(i) * 20 * time.Minute)
		readings = append(readings, reading("Temperatura Sensor 1", v, at))
		readings = append(readings, reading("Sensor 11", v, at))
	}
	results := e.Correlate(readings)
	if len(results) != 1 {
		t.Fatalf("Expected one correlation, got %+v", results)
	}
	if math.Abs(results[0].PearsonR-1) > 1e-6 {
		t.Errorf("Expected self-correlation 1.0, got %v", results[0].PearsonR)
	}
	if results[0].PairedCount != len(values) {
		t.Errorf("Expected %d pairs, got %d", len(values), results[0].PairedCount)
	}
}

func TestCorrelate_OutsideWindow(t *testing.T) {
	e := testEngine(t0)
	var readings []models.NormalizedReading
	for i := 0; i < 4; i++ {
		at := t0.Add(time.Duration(i) * time.Hour)
		readings = append(readings, reading("pH", 7+float64(i)/10, at))
		readings = append(readings, reading("Vazão", 20+float64(i), at.Add(11*time.Minute)))
	}
	if results := e.Correlate(readings); len(results) != 0 {
		t.Errorf("Expected no correlation for readings outside the window, got %+v", results)
	}
}

func TestCorrelate_RangeAndOrdering(t *testing.T) {
	e := testEngine(t0)
	var readings []models.NormalizedReading
	for i := 0; i < 6; i++ {
		at := t0.Add(time.Duration(i) * 15 * time.Minute)
		x := float64(i)
		readings = append(readings,
			reading("Temperatura Sensor 1", 30+x, at),
			reading("Umidade Relativa", 99-x*x, at.Add(time.Minute)),
			reading("Vazão", 20+math.Sin(x*1.7)*3, at.Add(2*time.Minute)),
		)
	}
	results := e.Correlate(readings)
	if len(results) != 3 {
		t.Fatalf("Expected 3 pairs, got %d", len(results))
	}
	for i, r := range results {
		if r.PearsonR < -1 || r.PearsonR > 1 {
			t.Errorf("Correlation out of range: %+v", r)
		}
		if r.PairedCount < MinPairedSamples {
			t.Errorf("Emitted result with %d pairs", r.PairedCount)
		}
		if i > 0 && math.Abs(results[i-1].PearsonR) < math.Abs(r.PearsonR) {
			t.Errorf("Results not sorted by absolute correlation: %+v", results)
		}
	}
}

func TestPairReadings_DedupStrategies(t *testing.T) {
	a := []models.NormalizedReading{
		reading("A", 10, t0),
		reading("A", 10, t0.Add(8*time.Minute)),
	}
	b := []models.NormalizedReading{
		reading("B", 20, t0.Add(time.Minute)),
		reading("B", 20, t0.Add(9*time.Minute)),
	}

	byValue := NewEngine(Options{Dedup: DedupValue}).pairReadings(a, b)
	if len(byValue) != 2 {
		t.Errorf("Expected value dedup to merge repeated values into 2 pairs, got %d", len(byValue))
	}

	byIdentity := NewEngine(Options{Dedup: DedupIdentity}).pairReadings(a, b)
	if len(byIdentity) != 4 {
		t.Errorf("Expected identity dedup to keep 4 distinct pairs, got %d", len(byIdentity))
	}
}

func TestCorrelation_EmptyInput(t *testing.T) {
	resp := testEngine(t0).Correlation(nil)
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"correlations":[],"temporalData":{}}` {
		t.Errorf("Unexpected empty payload %s", data)
	}
}

func TestCorrelation_SingleSensor(t *testing.T) {
	resp := testEngine(t0).Correlation([]models.NormalizedReading{reading("pH", 7.5, t0)})
	if resp.Message == "" || len(resp.Correlations) != 0 || resp.PeriodInfo != nil {
		t.Errorf("Expected message-only response, got %+v", resp)
	}
}

func TestTemporal_LabelsAndNulls(t *testing.T) {
	e := testEngine(t0)
	var readings []models.NormalizedReading
	for i := 0; i < 16; i++ {
		readings = append(readings, reading("pH", 7.5, t0.Add(time.Duration(i)*5*time.Minute)))
	}
	readings = append(readings, reading("Vazão", 22, t0.Add(3*time.Hour)))

	series, period := e.Temporal(readings)
	if len(series.Labels) != 17 {
		t.Fatalf("Expected 17 timestamps, got %d", len(series.Labels))
	}
	// ceil(17/8) = 3
	if series.Labels[0] != "20:00" || series.Labels[1] != "" || series.Labels[2] != "" || series.Labels[3] != "20:15" {
		t.Errorf("Unexpected labels %v", series.Labels[:4])
	}
	if len(series.Datasets) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(series.Datasets))
	}
	flow := series.Datasets[1]
	if flow.Label != "Vazão" || flow.Data[0] != nil {
		t.Errorf("Expected null flow value far from 20:00, got %+v", flow.Data[0])
	}
	if flow.Data[16] == nil || *flow.Data[16] != 22 {
		t.Errorf("Expected flow value at last timestamp")
	}
	if period.StartDate != "25/01/2025" || period.EndTime != "23:00" || period.TotalPoints != 17 {
		t.Errorf("Unexpected period %+v", period)
	}
}

func TestTemporal_CapsTimestamps(t *testing.T) {
	e := testEngine(t0)
	var readings []models.NormalizedReading
	for i := 0; i < 80; i++ {
		at := t0.Add(time.Duration(i) * time.Minute)
		readings = append(readings, reading("pH", 7.4, at), reading("pH", 7.6, at))
	}
	series, period := e.Temporal(readings)
	if len(series.Labels) != MaxSeriesPoints || period.TotalPoints != MaxSeriesPoints {
		t.Errorf("Expected %d points, got %d", MaxSeriesPoints, len(series.Labels))
	}
	visible := 0
	for _, l := range series.Labels {
		if l != "" {
			visible++
		}
	}
	if visible != MaxSeriesLabels {
		t.Errorf("Expected %d visible labels, got %d", MaxSeriesLabels, visible)
	}
}
