package assessment

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps assessments in process. Used by the offline
// scoring command and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []*Assessment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func clone(a *Assessment) *Assessment {
	c := *a
	c.Responses = append([]ScoredResponse(nil), a.Responses...)
	c.Recommendations = append([]string(nil), a.Recommendations...)
	c.Warnings = append([]Warning(nil), a.Warnings...)
	return &c
}

func (r *MemoryRepository) Insert(_ context.Context, a *Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, clone(a))
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.items {
		if a.ID == id {
			return clone(a), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID, illnessType string, limit, offset int) ([]*Assessment, int, error) {
	r.mu.RLock()
	var matched []*Assessment
	for _, a := range r.items {
		if a.UserID == userID && (illnessType == "" || a.IllnessType == illnessType) {
			matched = append(matched, clone(a))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}
