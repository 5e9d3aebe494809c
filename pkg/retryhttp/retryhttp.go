// Package retryhttp HTTP-клиент с ограниченными повторами и экспоненциальной
// задержкой с джиттером. Используется всеми интеграционными клиентами вместо
// ad-hoc циклов повтора вокруг отдельных вызовов.
package retryhttp

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

const (
	// DefaultMaxRetries число повторов после первой попытки
	DefaultMaxRetries = 3

	// DefaultBaseDelay начальная задержка перед повтором
	DefaultBaseDelay = 200 * time.Millisecond

	// DefaultMaxDelay потолок задержки между попытками
	DefaultMaxDelay = 5 * time.Second
)

// Client HTTP-клиент с повторами.
// Повторяются сетевые ошибки, 429 и 5xx; ответы 4xx (кроме 429) возвращаются сразу.
type Client struct {
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option настройка клиента
type Option func(*Client)

// WithMaxRetries задает число повторов
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackoff задает параметры экспоненциальной задержки
func WithBackoff(base, max time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = base
		c.maxDelay = max
	}
}

// New создает клиент с таймаутом одной попытки
func New(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		maxDelay:   DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do выполняет запрос с повторами.
// Для повтора запроса с телом требуется req.GetBody (http.NewRequest
// устанавливает его автоматически для bytes.Reader и strings.Reader).
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(c.backoff(attempt)):
			}

			if req.Body != nil {
				if req.GetBody == nil {
					return nil, fmt.Errorf("retryhttp: request body is not replayable")
				}
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("retryhttp: rewind request body: %w", err)
				}
				req.Body = body
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		// Освобождаем соединение перед повтором
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		lastErr = fmt.Errorf("retryhttp: server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("retryhttp: retries exhausted: %w", lastErr)
}

// backoff возвращает задержку для attempt-й попытки: base * 2^(attempt-1)
// с равномерным джиттером до 50% и потолком maxDelay
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.baseDelay << (attempt - 1)
	if delay > c.maxDelay {
		delay = c.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
	return delay + jitter
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
