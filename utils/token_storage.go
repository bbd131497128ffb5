package utils

import (
	"context"
	"sync"
	"time"
)

// TokenStorage persists one session token per browser session id.
type TokenStorage interface {
	Load(ctx context.Context, sid string) (string, bool, error)
	Save(ctx context.Context, sid, token string, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
}

type tokenEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryTokenStorage keeps tokens in process memory (single instance only).
type MemoryTokenStorage struct {
	mu      sync.RWMutex
	entries map[string]tokenEntry
	now     func() time.Time
}

func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{entries: map[string]tokenEntry{}, now: time.Now}
}

func (m *MemoryTokenStorage) Load(_ context.Context, sid string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[sid]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		// A Save may have replaced the entry since the read lock was released.
		if cur, ok := m.entries[sid]; ok && m.now().After(cur.expiresAt) {
			delete(m.entries, sid)
		}
		m.mu.Unlock()
		return "", false, nil
	}
	return entry.token, true, nil
}

func (m *MemoryTokenStorage) Save(_ context.Context, sid, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupExpiredLocked()
	m.entries[sid] = tokenEntry{token: token, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryTokenStorage) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	delete(m.entries, sid)
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokenStorage) cleanupExpiredLocked() {
	now := m.now()
	for sid, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, sid)
		}
	}
}
