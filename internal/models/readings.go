// Package models содержит структуры данных для показаний датчиков и ответов API
package models

// RawReading представляет сырое показание, полученное из внешнего источника
type RawReading struct {
	SourceID    int    `json:"codigo"`
	SensorCode  int    `json:"codigoSensor"`
	Value       string `json:"valor"`
	CollectedAt string `json:"dataColeta"`
}

// NormalizedReading представляет показание в каноническом виде
type NormalizedReading struct {
	SensorName      string  `json:"sensor"`
	Value           float64 `json:"value"`
	Unit            string  `json:"unit"`
	TimestampMillis int64   `json:"timestamp"`
	// ValueParsed ложно, если в строке значения не найдено число
	ValueParsed bool `json:"-"`
	// TimeParsed ложно, если dataColeta не удалось разобрать
	TimeParsed bool `json:"-"`
}
