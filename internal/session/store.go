// Package session 提供基于 Cookie + Redis 的服务端会话，
// 会话内容以不透明字节存储，序列化方式对调用方不可见
package session

import "context"

// Store 会话存储接口：按会话 ID + key 读写不透明字节
type Store interface {
	// Get 读取会话值，key 不存在时返回 nil
	Get(ctx context.Context, sid, key string) ([]byte, error)
	// Set 写入会话值并刷新空闲过期时间
	Set(ctx context.Context, sid, key string, value []byte) error
	// Delete 删除会话中的一个或多个 key
	Delete(ctx context.Context, sid string, keys ...string) error
	// Touch 刷新会话全部 key 的空闲过期时间
	Touch(ctx context.Context, sid string) error
}
