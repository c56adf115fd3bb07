package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GetObject 获取对象（JSON 反序列化），键不存在返回 ErrNil
func GetObject[T any](c *Client, ctx context.Context, key string) (*T, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var obj T
	if err := json.Unmarshal([]byte(val), &obj); err != nil {
		return nil, fmt.Errorf("redis: unmarshal object failed: %w", err)
	}
	return &obj, nil
}

// SetObject 设置对象（JSON 序列化）
func SetObject[T any](c *Client, ctx context.Context, key string, obj *T, ttl time.Duration) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("redis: marshal object failed: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
