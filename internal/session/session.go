package session

import (
	"context"
	"encoding/json"
)

const identityKey = "identity"

// Identity 会话中记录的登录身份
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// IsAdmin 是否管理员
func (i Identity) IsAdmin() bool {
	return i.Role == "ADMIN"
}

// Session 单个浏览器会话的读写能力，显式传入各业务操作
type Session struct {
	id    string
	store Store
}

// New 创建会话句柄
func New(id string, store Store) *Session {
	return &Session{id: id, store: store}
}

// ID 会话 ID
func (s *Session) ID() string {
	return s.id
}

// Bytes 读取会话值，key 不存在时返回 nil
func (s *Session) Bytes(ctx context.Context, key string) ([]byte, error) {
	return s.store.Get(ctx, s.id, key)
}

// SetBytes 写入会话值
func (s *Session) SetBytes(ctx context.Context, key string, value []byte) error {
	return s.store.Set(ctx, s.id, key, value)
}

// Delete 删除会话 key
func (s *Session) Delete(ctx context.Context, keys ...string) error {
	return s.store.Delete(ctx, s.id, keys...)
}

// Identity 读取登录身份，未登录时返回 (zero, false)
func (s *Session) Identity(ctx context.Context) (Identity, bool) {
	data, err := s.Bytes(ctx, identityKey)
	if err != nil || data == nil {
		return Identity{}, false
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return Identity{}, false
	}
	return id, id.UserID != 0
}

// SetIdentity 写入登录身份
func (s *Session) SetIdentity(ctx context.Context, id Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.SetBytes(ctx, identityKey, data)
}

// ClearIdentity 清除登录身份
func (s *Session) ClearIdentity(ctx context.Context) error {
	return s.Delete(ctx, identityKey)
}
