package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"order-chatbot/internal/core/chat"
	"order-chatbot/internal/infrastructure/config"
	"order-chatbot/internal/pkg/common"
)

// SessionStore 對話狀態儲存
// 核心假設同一 session 同時只有一個回合在寫，
// 儲存層只負責持久化，不做並發仲裁
type SessionStore interface {
	Get(ctx context.Context, id string) (*chat.Session, error)
	Save(ctx context.Context, s *chat.Session) error
	Delete(ctx context.Context, id string) error
	// Ping 檢查後端是否可達（就緒檢查用）
	Ping(ctx context.Context) error
}

// NewSessionStore 依設定選擇 Redis 或記憶體實作
func NewSessionStore(cfg *config.SessionConfig) (SessionStore, error) {
	if cfg.Backend == "redis" {
		return newRedisSessionStore(cfg)
	}
	return newMemorySessionStore(cfg), nil
}

// --- Redis ---

// redisSessionStore 以 Redis 保存 session（JSON 文件 + TTL）
type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisSessionStore(cfg *config.SessionConfig) (*redisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisSessionStore{client: client, ttl: cfg.TTL}, nil
}

func sessionKey(id string) string {
	return "chat:session:" + id
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (*chat.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, common.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session chat.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *redisSessionStore) Save(ctx context.Context, session *chat.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// --- 記憶體 ---

// memorySessionStore 行程內的 session 儲存，附 TTL 與定期清理
type memorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	session   chat.Session
	expiresAt time.Time
}

func newMemorySessionStore(cfg *config.SessionConfig) *memorySessionStore {
	m := &memorySessionStore{
		entries: make(map[string]memoryEntry),
		ttl:     cfg.TTL,
	}

	// 啟動清理過期 session 的協程
	go m.startCleanup(cfg.CleanupInterval)

	common.LogInfo("記憶體 session 儲存已初始化",
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return m
}

func (m *memorySessionStore) Get(ctx context.Context, id string) (*chat.Session, error) {
	m.mu.RLock()
	entry, exists := m.entries[id]
	m.mu.RUnlock()

	if !exists || time.Now().After(entry.expiresAt) {
		return nil, common.ErrSessionNotFound
	}

	// 回傳副本，呼叫端修改後要再 Save
	session := entry.session
	return &session, nil
}

func (m *memorySessionStore) Save(ctx context.Context, session *chat.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[session.ID] = memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(m.ttl),
	}
	return nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// Ping 行程內儲存永遠可達
func (m *memorySessionStore) Ping(ctx context.Context) error {
	return nil
}

// startCleanup 啟動清理過期 session 的協程
func (m *memorySessionStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		count := 0

		m.mu.Lock()
		for id, entry := range m.entries {
			if now.After(entry.expiresAt) {
				delete(m.entries, id)
				count++
			}
		}
		remaining := len(m.entries)
		m.mu.Unlock()

		if count > 0 {
			common.LogInfo("過期 session 已清理",
				zap.Int("清理數量", count),
				zap.Int("剩餘數量", remaining),
			)
		}
	}
}
