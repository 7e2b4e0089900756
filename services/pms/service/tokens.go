package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/kaytu-io/kaytu-pms/services/pms/integration-type/interfaces"
)

type tokenSlot struct {
	integrationID uuid.UUID
	cache         *interfaces.MemoryToken
}

// tokenStore keeps one token cache per organization. A slot belongs to one
// stored integration, so reconnecting with new credentials starts empty.
type tokenStore struct {
	mu    sync.Mutex
	slots map[string]tokenSlot
}

func newTokenStore() *tokenStore {
	return &tokenStore{slots: make(map[string]tokenSlot)}
}

func (s *tokenStore) For(orgID string, integrationID uuid.UUID) interfaces.TokenCache {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[orgID]
	if !ok || slot.integrationID != integrationID {
		slot = tokenSlot{integrationID: integrationID, cache: &interfaces.MemoryToken{}}
		s.slots[orgID] = slot
	}
	return slot.cache
}

func (s *tokenStore) Forget(orgID string) {
	s.mu.Lock()
	delete(s.slots, orgID)
	s.mu.Unlock()
}
