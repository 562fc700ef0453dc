// Package cache хранит служебные счетчики сервиса в Redis
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-redis/redis/v8"
)

const (
	// RequestsTotalKey общее количество запросов
	RequestsTotalKey = "requests:total"
	// RequestKeyPrefix префикс счетчиков по маршрутам
	RequestKeyPrefix = "requests:"
	// LiveFetchesKey загрузки из основного источника
	LiveFetchesKey = "source:live"
	// FallbackFetchesKey подстановки демонстрационного набора
	FallbackFetchesKey = "source:fallback"
	// routesKey множество маршрутов, для которых есть счетчики
	routesKey = "requests:routes"
	// opTimeout время ожидания одной операции
	opTimeout = 2 * time.Second
)

// RedisConfig параметры подключения
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// ConnectAttempts количество попыток подключения при старте
	ConnectAttempts uint `yaml:"connect_attempts"`
}

// Counters реализует счетчики запросов и загрузок в Redis
type Counters struct {
	client *redis.Client
}

// NewCounters создает подключение к Redis, проверяя его с повторами
func NewCounters(ctx context.Context, cfg RedisConfig, onRetry func(attempt uint, err error)) (*Counters, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 5
	}
	err := retry.Do(
		func() error {
			return client.Ping(ctx).Err()
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if onRetry != nil {
				onRetry(n+1, err)
			}
		}),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Counters{client: client}, nil
}

// NewCountersFromClient оборачивает готовый клиент
func NewCountersFromClient(client *redis.Client) *Counters {
	return &Counters{client: client}
}

// RecordRequest увеличивает общий счетчик и счетчик маршрута
func (c *Counters) RecordRequest(ctx context.Context, route string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, RequestsTotalKey)
	pipe.Incr(ctx, RequestKeyPrefix+route)
	pipe.SAdd(ctx, routesKey, route)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}
	return nil
}

// RecordFetch учитывает источник данных запроса
func (c *Counters) RecordFetch(ctx context.Context, live bool) error {
	key := FallbackFetchesKey
	if live {
		key = LiveFetchesKey
	}
	_, err := c.IncrementCounter(ctx, key)
	return err
}

// IncrementCounter увеличивает счетчик
func (c *Counters) IncrementCounter(ctx context.Context, key string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return c.client.Incr(ctx, key).Result()
}

// GetCounter возвращает значение счетчика
func (c *Counters) GetCounter(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// RequestsByRoute возвращает счетчики по всем маршрутам
func (c *Counters) RequestsByRoute(ctx context.Context) (map[string]int64, error) {
	routes, err := c.client.SMembers(ctx, routesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	out := make(map[string]int64, len(routes))
	for _, route := range routes {
		n, err := c.GetCounter(ctx, RequestKeyPrefix+route)
		if err != nil {
			return nil, err
		}
		out[route] = n
	}
	return out, nil
}

// Ping проверяет соединение с Redis
func (c *Counters) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close закрывает соединение
func (c *Counters) Close() error {
	return c.client.Close()
}

// FlushDB очищает базу (только для тестов)
func (c *Counters) FlushDB(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}
