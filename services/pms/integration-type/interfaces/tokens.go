package interfaces

import (
	"sync"
	"time"
)

// TokenCache holds one provider access token. Clients built for the same
// stored integration share a cache so the exchange is not repeated per
// request.
type TokenCache interface {
	Get() (string, bool)
	// Set stores the token; a non-positive ttl means it does not expire.
	Set(token string, ttl time.Duration)
	Drop()
}

// MemoryToken is a single-slot TokenCache.
type MemoryToken struct {
	mu      sync.Mutex
	token   string
	expires time.Time
	now     func() time.Time
}

func (m *MemoryToken) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func (m *MemoryToken) Get() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", false
	}
	if !m.expires.IsZero() && !m.clock().Before(m.expires) {
		m.token = ""
		return "", false
	}
	return m.token, true
}

func (m *MemoryToken) Set(token string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.expires = time.Time{}
	if ttl > 0 {
		m.expires = m.clock().Add(ttl)
	}
}

func (m *MemoryToken) Drop() {
	m.mu.Lock()
	m.token = ""
	m.expires = time.Time{}
	m.mu.Unlock()
}
