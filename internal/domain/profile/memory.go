package profile

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps profiles in process. Used by the offline scoring
// command and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryRepository(profiles ...*Profile) *MemoryRepository {
	r := &MemoryRepository{profiles: make(map[string]Profile)}
	for _, p := range profiles {
		_ = r.Upsert(context.Background(), p)
	}
	return r
}

func (r *MemoryRepository) Get(_ context.Context, userID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
	r.profiles[p.UserID] = *p
	return nil
}
