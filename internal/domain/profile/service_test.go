package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{ err error }

func (f failingRepo) Get(context.Context, string) (*Profile, error) { return nil, f.err }
func (f failingRepo) Upsert(context.Context, *Profile) error       { return f.err }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestService_Extract(t *testing.T) {
	yes := true
	dob := date(1960, time.March, 10)
	svc := NewService(NewMemoryRepository(&Profile{UserID: "u1", HasDiabetes: &yes, DateOfBirth: &dob}))
	svc.SetClock(fixedClock(date(2024, time.March, 9)))

	facts, found, err := svc.Extract(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, Facts{HasDiabetes: true, AgeYears: 63}, facts)
}

func TestService_Extract_Missing(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	facts, found, err := svc.Extract(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Facts{}, facts)
}

func TestService_Extract_RepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(failingRepo{err: boom})

	facts, found, err := svc.Extract(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.False(t, found)
	assert.Equal(t, Facts{}, facts)
}

func TestService_Save(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	svc.SetClock(fixedClock(date(2024, time.January, 1)))
	ctx := context.Background()

	err := svc.Save(ctx, &Profile{UserID: "  "})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	future := date(2025, time.January, 1)
	err = svc.Save(ctx, &Profile{UserID: "u1", DateOfBirth: &future})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	dob := date(1990, time.May, 5)
	require.NoError(t, svc.Save(ctx, &Profile{UserID: "u1", DateOfBirth: &dob}))
	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, dob, *got.DateOfBirth)
	assert.Nil(t, got.HasDiabetes)
}
