package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riskcheck/riskcheck/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
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

const itemCols = `illness_type, question_id, text, weight, auto_populate, auto_populate_from, sort_order, updated_at`

func scanItem(row pgx.Row) (*QuestionBankItem, error) {
	var it QuestionBankItem
	err := row.Scan(&it.IllnessType, &it.QuestionID, &it.Text, &it.Weight,
		&it.AutoPopulate, &it.AutoPopulateFrom, &it.SortOrder, &it.UpdatedAt)
	return &it, err
}

func (r *repoPG) FindByType(ctx context.Context, illnessType string) ([]*QuestionBankItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+itemCols+` FROM question_bank
		WHERE illness_type = $1 ORDER BY sort_order, question_id`, illnessType)
	if err != nil {
		return nil, fmt.Errorf("query question bank: %w", err)
	}
	defer rows.Close()

	var items []*QuestionBankItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repoPG) Get(ctx context.Context, illnessType, questionID string) (*QuestionBankItem, error) {
	it, err := scanItem(r.conn(ctx).QueryRow(ctx, `SELECT `+itemCols+` FROM question_bank
		WHERE illness_type = $1 AND question_id = $2`, illnessType, questionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

func (r *repoPG) Upsert(ctx context.Context, it *QuestionBankItem) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO question_bank (illness_type, question_id, text, weight, auto_populate, auto_populate_from, sort_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (illness_type, question_id) DO UPDATE SET
			text = EXCLUDED.text, weight = EXCLUDED.weight, auto_populate = EXCLUDED.auto_populate,
			auto_populate_from = EXCLUDED.auto_populate_from, sort_order = EXCLUDED.sort_order, updated_at = NOW()
		RETURNING updated_at`,
		it.IllnessType, it.QuestionID, it.Text, it.Weight, it.AutoPopulate, it.AutoPopulateFrom, it.SortOrder,
	).Scan(&it.UpdatedAt)
}

func (r *repoPG) Delete(ctx context.Context, illnessType, questionID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM question_bank WHERE illness_type = $1 AND question_id = $2`,
		illnessType, questionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListTypes(ctx context.Context) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT DISTINCT illness_type FROM question_bank ORDER BY illness_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
