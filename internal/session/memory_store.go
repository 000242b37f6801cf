package session

import (
	"context"
	"sync"
)

// MemoryStore Store 的进程内实现，无过期，供开发与测试使用
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryStore 创建内存会话存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

// Get 读取会话值，不存在时返回 nil
func (s *MemoryStore) Get(ctx context.Context, sid, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kv, ok := s.data[sid]
	if !ok {
		return nil, nil
	}
	return kv[key], nil
}

// Set 写入会话值
func (s *MemoryStore) Set(ctx context.Context, sid, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, ok := s.data[sid]
	if !ok {
		kv = make(map[string][]byte)
		s.data[sid] = kv
	}
	kv[key] = value
	return nil
}

// Delete 删除会话 key
func (s *MemoryStore) Delete(ctx context.Context, sid string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, ok := s.data[sid]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(kv, k)
	}
	return nil
}

// Touch 无过期概念，no-op
func (s *MemoryStore) Touch(ctx context.Context, sid string) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
