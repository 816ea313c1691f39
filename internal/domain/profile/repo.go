package profile

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
