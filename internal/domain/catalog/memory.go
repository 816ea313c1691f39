package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository keeps the question bank in process. It backs offline
// scoring from the CLI and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]*QuestionBankItem
}

func NewMemoryRepository(items ...*QuestionBankItem) *MemoryRepository {
	r := &MemoryRepository{items: make(map[string]map[string]*QuestionBankItem)}
	for _, it := range items {
		_ = r.Upsert(context.Background(), it)
	}
	return r
}

func (r *MemoryRepository) FindByType(_ context.Context, illnessType string) ([]*QuestionBankItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*QuestionBankItem, 0, len(r.items[illnessType]))
	for _, it := range r.items[illnessType] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, illnessType, questionID string) (*QuestionBankItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[illnessType][questionID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, it *QuestionBankItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.items[it.IllnessType]
	if !ok {
		byID = make(map[string]*QuestionBankItem)
		r.items[it.IllnessType] = byID
	}
	it.UpdatedAt = time.Now().UTC()
	cp := *it
	byID[it.QuestionID] = &cp
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, illnessType, questionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[illnessType][questionID]; !ok {
		return ErrNotFound
	}
	delete(r.items[illnessType], questionID)
	if len(r.items[illnessType]) == 0 {
		delete(r.items, illnessType)
	}
	return nil
}

func (r *MemoryRepository) ListTypes(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.items))
	for t := range r.items {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, nil
}
