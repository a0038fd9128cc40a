package cache

import (
	"context"
	"time"
)

// Cache - основной интерфейс для работы с кэшем
type Cache interface {
	Set(ctx context.Context, key string, value interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error

	HealthCheck(ctx context.Context) error
	Close() error
}

// NullCache - заглушка для работы без кэша (Null Object Pattern)
type NullCache struct{}

func NewNullCache() *NullCache {
	return &NullCache{}
}

func (n *NullCache) Set(ctx context.Context, key string, value interface{}) error {
	return nil // Ничего не делаем
}

func (n *NullCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (n *NullCache) Get(ctx context.Context, key string, dest interface{}) error {
	return ErrCacheMiss // Всегда miss
}

func (n *NullCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (n *NullCache) HealthCheck(ctx context.Context) error {
	return nil // Всегда "здоров"
}

func (n *NullCache) Close() error {
	return nil
}
