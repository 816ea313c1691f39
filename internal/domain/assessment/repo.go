package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("assessment not found")

// Repository is append-only: assessments are inserted and read back, never
// updated.
type Repository interface {
	Insert(ctx context.Context, a *Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListByUser(ctx context.Context, userID, illnessType string, limit, offset int) ([]*Assessment, int, error)
}
