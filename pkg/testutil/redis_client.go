package testutil

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	DelFunc      func(ctx context.Context, keys ...string) error
	ScanKeysFunc func(ctx context.Context, pattern string) ([]string, error)
	SetObjFunc   func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc   func(ctx context.Context, key string, v any) error
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}

	return nil
}

func (m *MockRedisClient) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if m.ScanKeysFunc != nil {
		return m.ScanKeysFunc(ctx, pattern)
	}

	return nil, nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

// GetObj reports a cache miss unless GetObjFunc is set.
func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return redis.Nil
}
