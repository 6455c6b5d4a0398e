package principal

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process [Store]. List orders by creation time, then ID.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]Principal
	byPhone map[string]string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]Principal),
		byPhone: make(map[string]string),
	}
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) FindByPhone(_ context.Context, phoneNumber string) (Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPhone[phoneNumber]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return s.byID[id], nil
}

// Save inserts or replaces p. Phone numbers are unique across principals.
func (s *MemoryStore) Save(_ context.Context, p Principal) (Principal, error) {
	if err := validate(p); err != nil {
		return Principal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.byPhone[p.PhoneNumber]; ok && owner != p.ID {
		return Principal{}, ErrDuplicatePhone
	}

	now := time.Now().UTC()
	if existing, ok := s.byID[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
		if existing.PhoneNumber != p.PhoneNumber {
			delete(s.byPhone, existing.PhoneNumber)
		}
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	s.byID[p.ID] = p
	s.byPhone[p.PhoneNumber] = p.ID
	return p, nil
}

// Delete removes the principal with the given ID. Missing IDs are ignored.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.byID[id]; ok {
		delete(s.byPhone, p.PhoneNumber)
		delete(s.byID, id)
	}
	return nil
}

func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *MemoryStore) List(_ context.Context, offset, limit int) ([]Principal, error) {
	s.mu.RLock()
	all := make([]Principal, 0, len(s.byID))
	for _, p := range s.byID {
		all = append(all, p)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) || limit <= 0 {
		return []Principal{}, nil
	}
	end := offset + limit
	if end > len(all) || end < offset {
		end = len(all)
	}
	return all[offset:end], nil
}
