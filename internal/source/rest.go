package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/segmentio/encoding/json"

	"sensor-bi-service/internal/models"
)

// REST загружает показания из внешнего HTTP API (GET, JSON-массив)
type REST struct {
	url string
	h   *http.Client
}

// NewREST создает клиент внешнего API
func NewREST(url string, timeout time.Duration) *REST {
	return &REST{
		url: url,
		h:   &http.Client{Timeout: timeout},
	}
}

// Name возвращает имя источника
func (c *REST) Name() string { return KindREST }

// Fetch запрашивает полный список показаний
func (c *REST) Fetch(ctx context.Context) ([]models.RawReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("source %s returned %d: %s", c.url, resp.StatusCode, string(b))
	}

	var readings []models.RawReading
	if err := json.NewDecoder(resp.Body).Decode(&readings); err != nil {
		return nil, fmt.Errorf("decode readings from %s: %w", c.url, err)
	}
	if readings == nil {
		readings = []models.RawReading{}
	}
	return readings, nil
}
