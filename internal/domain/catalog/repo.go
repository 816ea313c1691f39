package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("question not found")

type Repository interface {
	FindByType(ctx context.Context, illnessType string) ([]*QuestionBankItem, error)
	Get(ctx context.Context, illnessType, questionID string) (*QuestionBankItem, error)
	Upsert(ctx context.Context, item *QuestionBankItem) error
	Delete(ctx context.Context, illnessType, questionID string) error
	ListTypes(ctx context.Context) ([]string, error)
}
