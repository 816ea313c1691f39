package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidProfile = errors.New("invalid profile")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock replaces the time source used for age calculation.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.Get(ctx, userID)
}

func (s *Service) Save(ctx context.Context, p *Profile) error {
	p.UserID = strings.TrimSpace(p.UserID)
	if p.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidProfile)
	}
	if p.DateOfBirth != nil && p.DateOfBirth.After(s.now()) {
		return fmt.Errorf("%w: date_of_birth is in the future", ErrInvalidProfile)
	}
	return s.repo.Upsert(ctx, p)
}

// Extract derives the scoring facts for userID. A missing profile, or one
// that cannot be read, degrades to zero facts with found=false; the error is
// returned only so the caller can log it.
func (s *Service) Extract(ctx context.Context, userID string) (facts Facts, found bool, err error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Facts{}, false, nil
		}
		return Facts{}, false, err
	}
	return FactsFrom(p, s.now()), true, nil
}
