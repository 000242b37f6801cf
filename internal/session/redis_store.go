package session

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/honeyshop/pkg/cache"
)

// RedisStore Store 的 Redis 实现，滑动空闲过期
type RedisStore struct {
	cache       *cache.RedisCache
	prefix      string
	idleTimeout time.Duration
}

// NewRedisStore 创建 Redis 会话存储
func NewRedisStore(c *cache.RedisCache, idleTimeout time.Duration) *RedisStore {
	return &RedisStore{
		cache:       c,
		prefix:      "session:",
		idleTimeout: idleTimeout,
	}
}

func (s *RedisStore) key(sid, key string) string {
	return fmt.Sprintf("%s%s:%s", s.prefix, sid, key)
}

// Get 读取会话值并刷新空闲过期时间
func (s *RedisStore) Get(ctx context.Context, sid, key string) ([]byte, error) {
	data, err := s.cache.GetBytes(ctx, s.key(sid, key))
	if err != nil {
		return nil, err
	}
	if data != nil {
		_ = s.cache.Expire(ctx, s.key(sid, key), s.idleTimeout)
	}
	return data, nil
}

// Set 写入会话值
func (s *RedisStore) Set(ctx context.Context, sid, key string, value []byte) error {
	return s.cache.Set(ctx, s.key(sid, key), value, s.idleTimeout)
}

// Delete 删除会话 key
func (s *RedisStore) Delete(ctx context.Context, sid string, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(sid, k))
	}
	return s.cache.Delete(ctx, full...)
}

// Touch 刷新会话全部 key 的空闲过期时间
func (s *RedisStore) Touch(ctx context.Context, sid string) error {
	keys, err := s.cache.Keys(ctx, s.key(sid, "*"))
	if err != nil {
		return err
	}
	for _, k := range keys {
		_ = s.cache.Expire(ctx, k, s.idleTimeout)
	}
	return nil
}
