package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riskcheck/riskcheck/internal/platform/db"
)

type queryable interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT user_id, has_diabetes, date_of_birth, updated_at
		FROM user_profile WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.HasDiabetes, &p.DateOfBirth, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Upsert(ctx context.Context, p *Profile) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO user_profile (user_id, has_diabetes, date_of_birth)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			has_diabetes = EXCLUDED.has_diabetes, date_of_birth = EXCLUDED.date_of_birth, updated_at = NOW()
		RETURNING updated_at`,
		p.UserID, p.HasDiabetes, p.DateOfBirth,
	).Scan(&p.UpdatedAt)
}
