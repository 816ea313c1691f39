package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riskcheck/riskcheck/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
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

const assessmentCols = `id, user_id, illness_type, total_score, risk_level, recommendations, warnings, created_at`

// Insert writes the assessment row and its responses in one transaction.
func (r *repoPG) Insert(ctx context.Context, a *Assessment) error {
	recs, err := json.Marshal(a.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	warnings, err := json.Marshal(a.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		_, err := q.Exec(ctx, `
			INSERT INTO assessment (`+assessmentCols+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			a.ID, a.UserID, a.IllnessType, a.TotalScore, a.RiskLevel, recs, warnings, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert assessment: %w", err)
		}
		if len(a.Responses) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, resp := range a.Responses {
			batch.Queue(`
				INSERT INTO assessment_response (assessment_id, position, question_id, answer, score, auto_populated)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				a.ID, i, resp.QuestionID, resp.Answer, resp.Score, resp.AutoPopulated)
		}
		if err := q.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert responses: %w", err)
		}
		return nil
	})
}

func scanAssessment(row pgx.Row) (*Assessment, error) {
	var a Assessment
	var recs, warnings []byte
	if err := row.Scan(&a.ID, &a.UserID, &a.IllnessType, &a.TotalScore, &a.RiskLevel, &recs, &warnings, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recs, &a.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &a.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
	}
	return &a, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	a, err := scanAssessment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+assessmentCols+` FROM assessment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadResponses(ctx, []*Assessment{a}); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID, illnessType string, limit, offset int) ([]*Assessment, int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM assessment
		WHERE user_id = $1 AND ($2 = '' OR illness_type = $2)`, userID, illnessType).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+assessmentCols+` FROM assessment
		WHERE user_id = $1 AND ($2 = '' OR illness_type = $2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`, userID, illnessType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadResponses(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) loadResponses(ctx context.Context, items []*Assessment) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	byID := make(map[uuid.UUID]*Assessment, len(items))
	for i, a := range items {
		ids[i] = a.ID.String()
		byID[a.ID] = a
		a.Responses = []ScoredResponse{}
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT assessment_id, question_id, answer, score, auto_populated
		FROM assessment_response WHERE assessment_id = ANY($1::uuid[])
		ORDER BY assessment_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var resp ScoredResponse
		if err := rows.Scan(&id, &resp.QuestionID, &resp.Answer, &resp.Score, &resp.AutoPopulated); err != nil {
			return err
		}
		if a, ok := byID[id]; ok {
			a.Responses = append(a.Responses, resp)
		}
	}
	return rows.Err()
}
