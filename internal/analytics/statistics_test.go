package analytics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"sensor-bi-service/internal/models"
)

func TestStatistics_TwoReadings(t *testing.T) {
	raw := []models.RawReading{
		{SourceID: 1, SensorCode: 1, Value: "30.0 °C", CollectedAt: "2025-01-25T20:00:00Z"},
		{SourceID: 2, SensorCode: 1, Value: "40.0 °C", CollectedAt: "2025-01-25T21:00:00Z"},
	}
	stats := Statistics(NormalizeAll(raw))

	s, ok := stats["Temperatura Sensor 1"]
	if !ok {
		t.Fatalf("Expected statistics for Temperatura Sensor 1, got %v", stats)
	}
	if s.Count != 2 || s.Min != 30 || s.Max != 40 {
		t.Errorf("Unexpected count/min/max: %+v", s)
	}
	if math.Abs(s.Mean-35) > 1e-9 || math.Abs(s.Median-35) > 1e-9 {
		t.Errorf("Expected mean and median 35, got %.4f and %.4f", s.Mean, s.Median)
	}
	if math.Abs(s.StdDev-5) > 1e-9 {
		t.Errorf("Expected population stddev 5, got %.4f", s.StdDev)
	}
	if math.Abs(s.CoefficientOfVariation-14.2857) > 1e-4 {
		t.Errorf("Expected coefficient of variation 14.2857, got %.4f", s.CoefficientOfVariation)
	}
	if s.Unit != "°C" {
		t.Errorf("Expected unit °C, got %q", s.Unit)
	}
}

func TestStatistics_Empty(t *testing.T) {
	if stats := Statistics(nil); len(stats) != 0 {
		t.Errorf("Expected empty mapping, got %v", stats)
	}
}

func TestDescribe_OddMedian(t *testing.T) {
	s := Describe("pH", "pH", []float64{7.8, 7.1, 7.5})
	if s.Median != 7.5 {
		t.Errorf("Expected median 7.5, got %v", s.Median)
	}
}

func TestDescribe_EqualValues(t *testing.T) {
	s := Describe("Vazão", "L/h", []float64{21.2, 21.2, 21.2, 21.2})
	if s.StdDev != 0 {
		t.Errorf("Expected stddev 0, got %v", s.StdDev)
	}
	if s.CoefficientOfVariation != 0 {
		t.Errorf("Expected coefficient of variation 0, got %v", s.CoefficientOfVariation)
	}
}

func TestDescribe_ZeroMean(t *testing.T) {
	s := Describe("Sensor 8", "", []float64{0, 0})
	if s.CoefficientOfVariation != 0 || math.IsNaN(s.CoefficientOfVariation) {
		t.Errorf("Expected coefficient of variation 0 for zero mean, got %v", s.CoefficientOfVariation)
	}
}

func TestStatistics_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var readings []models.NormalizedReading
	names := []string{"Temperatura Sensor 1", "pH", "Sensor 12"}
	for i := 0; i < 300; i++ {
		name := names[rng.Intn(len(names))]
		readings = append(readings, reading(name, rng.Float64()*100, t0.Add(time.Duration(i)*time.Minute)))
	}

	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, r := range readings {
		counts[r.SensorName]++
		sums[r.SensorName] += r.Value
	}

	for name, s := range Statistics(readings) {
		if s.Count != counts[name] {
			t.Errorf("%s: expected count %d, got %d", name, counts[name], s.Count)
		}
		if s.Min > s.Median || s.Median > s.Max {
			t.Errorf("%s: expected min <= median <= max, got %v %v %v", name, s.Min, s.Median, s.Max)
		}
		if math.Abs(s.Mean-sums[name]/float64(counts[name])) > 1e-9 {
			t.Errorf("%s: mean %v differs from sum/count", name, s.Mean)
		}
		if s.CoefficientOfVariation < 0 {
			t.Errorf("%s: negative coefficient of variation %v", name, s.CoefficientOfVariation)
		}
	}
}
