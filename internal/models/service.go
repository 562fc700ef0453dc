package models

import "time"

// HealthStatus представляет статус здоровья сервиса
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Redis     string    `json:"redis"`
	Source    string    `json:"source"`
	Uptime    string    `json:"uptime"`
}

// StatsResponse содержит статистику сервиса
type StatsResponse struct {
	TotalRequests  int64            `json:"total_requests"`
	LiveFetches    int64            `json:"live_fetches"`
	FallbackCount  int64            `json:"fallback_fetches"`
	RequestsByPath map[string]int64 `json:"requests_by_path"`
	Uptime         string           `json:"uptime"`
}

// ErrorResponse тело ответа при внутренней ошибке
type ErrorResponse struct {
	Message string `json:"message"`
}
