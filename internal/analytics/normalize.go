package analytics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/relvacode/iso8601"

	"sensor-bi-service/internal/models"
)

// sensorNames справочник кодов датчиков
var sensorNames = map[int]string{
	1: "Temperatura Sensor 1",
	2: "Temperatura Sensor 2",
	3: "Umidade Relativa",
	4: "pH",
	5: "Metano (CH4)",
	6: "Pressão",
	7: "Vazão",
}

// unitTokens единицы измерения в порядке приоритета
var unitTokens = []string{"°C", "%UR", "pH", "%CH4", "kPa", "L/h"}

var numberPattern = regexp.MustCompile(`\d*\.?\d+`)

// SensorName возвращает отображаемое имя датчика по коду
func SensorName(code int) string {
	if name, ok := sensorNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Sensor %d", code)
}

// ExtractValue возвращает первое десятичное число в строке.
// Второе значение ложно, если число не найдено.
func ExtractValue(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractUnit возвращает первую найденную единицу измерения или пустую строку
func ExtractUnit(s string) string {
	for _, token := range unitTokens {
		if strings.Contains(s, token) {
			return token
		}
	}
	return ""
}

// ParseTimestamp разбирает ISO-8601 и возвращает миллисекунды Unix
func ParseTimestamp(s string) (int64, bool) {
	t, err := iso8601.ParseString(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.UnixMilli(), true
}

// Normalize приводит сырое показание к каноническому виду. Никогда не возвращает ошибку:
// некорректные поля заменяются значениями по умолчанию.
func Normalize(raw models.RawReading) models.NormalizedReading {
	value, valueOK := ExtractValue(raw.Value)
	ts, tsOK := ParseTimestamp(raw.CollectedAt)
	return models.NormalizedReading{
		SensorName:      SensorName(raw.SensorCode),
		Value:           value,
		Unit:            ExtractUnit(raw.Value),
		TimestampMillis: ts,
		ValueParsed:     valueOK,
		TimeParsed:      tsOK,
	}
}

// NormalizeAll нормализует список показаний, сохраняя порядок
func NormalizeAll(raw []models.RawReading) []models.NormalizedReading {
	out := make([]models.NormalizedReading, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r))
	}
	return out
}
