package calendarsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/v-gridnev/MH-BookingService/pkg/retryhttp"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client адаптер внешней синхронизации календаря. Best-effort коллаборатор:
// все вызовы выполняются после коммита основной транзакции.
type Client struct {
	baseURL    string
	enabled    bool
	httpClient *retryhttp.Client
	log        Logger
}

// NewClient создает новый экземпляр адаптера календаря.
// При enabled=false все вызовы возвращают ErrNotConnected.
func NewClient(baseURL string, enabled bool, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		enabled:    enabled,
		httpClient: retryhttp.New(timeout),
		log:        log,
	}
}

// CreateEvent создает событие в календаре ментора, возвращает ID события
func (c *Client) CreateEvent(ctx context.Context, req *CreateEventRequest) (string, error) {
	if !c.enabled {
		return "", ErrNotConnected
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/calendar/events", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: booking_id=%d: %v", ErrSyncFailed, req.BookingID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrSyncFailed, resp.StatusCode, string(body))
	}

	var created CreateEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrSyncFailed, err)
	}

	return created.EventID, nil
}

// DeleteEvent удаляет событие из календаря ментора
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if !c.enabled {
		return ErrNotConnected
	}

	url := fmt.Sprintf("%s/internal/calendar/events/%s", c.baseURL, eventID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: event_id=%s: %v", ErrSyncFailed, eventID, err)
	}
	defer resp.Body.Close()

	// Событие уже удалено — считаем успехом
	if resp.StatusCode == http.StatusNotFound {
		c.log.Warn("CalendarSync: event_id=%s already deleted", eventID)
		return nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrSyncFailed, resp.StatusCode, string(body))
	}

	return nil
}
