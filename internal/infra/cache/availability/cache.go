// Package availability кэш ответов на запросы доступности.
// Чтения доступности советующие (advisory) по контракту движка, поэтому кэш
// с коротким TTL не ослабляет корректность: каждая мутация всё равно
// перепроверяет пересечения на живых данных.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Cache кэш ответов доступности поверх Redis.
// Инвалидация по-менторная: ключи включают номер версии, Invalidate
// инкрементирует версию, после чего старые ключи доживают свой TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    Logger
}

// New создает кэш доступности
func New(client *redis.Client, ttl time.Duration, log Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

// Get возвращает закэшированный ответ или false при промахе.
// Ошибки Redis считаются промахом и не блокируют запрос.
func (c *Cache) Get(ctx context.Context, mentorID int64, startDate, endDate string) ([]byte, bool) {
	key, err := c.key(ctx, mentorID, startDate, endDate)
	if err != nil {
		c.log.Warn("availability cache: get key failed: %v", err)
		return nil, false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("availability cache: get failed: %v", err)
		return nil, false
	}
	return payload, true
}

// Set кладет ответ в кэш
func (c *Cache) Set(ctx context.Context, mentorID int64, startDate, endDate string, payload []byte) {
	key, err := c.key(ctx, mentorID, startDate, endDate)
	if err != nil {
		c.log.Warn("availability cache: set key failed: %v", err)
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("availability cache: set failed: %v", err)
	}
}

// Invalidate сбрасывает кэш ментора. Вызывается на каждой мутации
// бронирований и конфигурации доступности.
func (c *Cache) Invalidate(ctx context.Context, mentorID int64) {
	if err := c.client.Incr(ctx, c.versionKey(mentorID)).Err(); err != nil {
		c.log.Warn("availability cache: invalidate mentor=%d failed: %v", mentorID, err)
	}
}

func (c *Cache) key(ctx context.Context, mentorID int64, startDate, endDate string) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey(mentorID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("availability:%d:v%d:%s:%s", mentorID, version, startDate, endDate), nil
}

func (c *Cache) versionKey(mentorID int64) string {
	return fmt.Sprintf("availability:ver:%d", mentorID)
}
