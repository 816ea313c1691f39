package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidQuestion = errors.New("invalid question")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve loads the question bank of illnessType. An unknown type yields an
// empty catalog rather than an error; deciding whether that is fatal is up
// to the caller.
func (s *Service) Resolve(ctx context.Context, illnessType string) (*Catalog, error) {
	illnessType = NormalizeType(illnessType)
	if illnessType == "" {
		return nil, fmt.Errorf("%w: illness_type is required", ErrInvalidQuestion)
	}
	items, err := s.repo.FindByType(ctx, illnessType)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", illnessType, err)
	}
	return NewCatalog(illnessType, items), nil
}

func (s *Service) ListTypes(ctx context.Context) ([]string, error) {
	return s.repo.ListTypes(ctx)
}

func (s *Service) Get(ctx context.Context, illnessType, questionID string) (*QuestionBankItem, error) {
	return s.repo.Get(ctx, NormalizeType(illnessType), strings.TrimSpace(questionID))
}

func (s *Service) Upsert(ctx context.Context, it *QuestionBankItem) error {
	if err := normalizeItem(it); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, it)
}

func (s *Service) Delete(ctx context.Context, illnessType, questionID string) error {
	return s.repo.Delete(ctx, NormalizeType(illnessType), strings.TrimSpace(questionID))
}

// Import validates every question of b before writing any of them.
func (s *Service) Import(ctx context.Context, b *Bank) (int, error) {
	for i, it := range b.Questions {
		if err := normalizeItem(it); err != nil {
			return 0, fmt.Errorf("question %d: %w", i, err)
		}
	}
	for i, it := range b.Questions {
		if err := s.repo.Upsert(ctx, it); err != nil {
			return i, fmt.Errorf("store %s/%s: %w", it.IllnessType, it.QuestionID, err)
		}
	}
	return len(b.Questions), nil
}

// Export returns the bank of one illness type, or of every type when
// illnessType is empty.
func (s *Service) Export(ctx context.Context, illnessType string) (*Bank, error) {
	types := []string{NormalizeType(illnessType)}
	if types[0] == "" {
		var err error
		if types, err = s.repo.ListTypes(ctx); err != nil {
			return nil, err
		}
	}
	b := &Bank{}
	for _, t := range types {
		c, err := s.Resolve(ctx, t)
		if err != nil {
			return nil, err
		}
		b.Questions = append(b.Questions, c.Items()...)
	}
	return b, nil
}

func normalizeItem(it *QuestionBankItem) error {
	if it == nil {
		return fmt.Errorf("%w: empty question", ErrInvalidQuestion)
	}
	it.IllnessType = NormalizeType(it.IllnessType)
	it.QuestionID = strings.TrimSpace(it.QuestionID)
	switch {
	case it.IllnessType == "":
		return fmt.Errorf("%w: illness_type is required", ErrInvalidQuestion)
	case it.QuestionID == "":
		return fmt.Errorf("%w: question_id is required", ErrInvalidQuestion)
	case strings.TrimSpace(it.Text) == "":
		return fmt.Errorf("%w: text is required", ErrInvalidQuestion)
	case !(it.Weight > 0):
		return fmt.Errorf("%w: weight must be greater than zero, got %v", ErrInvalidQuestion, it.Weight)
	}
	if it.AutoPopulateFrom != nil && strings.TrimSpace(*it.AutoPopulateFrom) == "" {
		it.AutoPopulateFrom = nil
	}
	return nil
}
