package sqlite

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
	"github.com/bryanwahyu/analysis-store/internal/infra/db/dbutil"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// EnsureSchema creates the analysis table
func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS analysis (
  id INTEGER PRIMARY KEY,
  company TEXT,
  buyer TEXT,
  matrix_cell TEXT,
  gpt_output TEXT
);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *AnalysisRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis;`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Create inserts the seed row, leaving an existing row untouched
func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO analysis (id, company, buyer, matrix_cell, gpt_output)
VALUES (?,?,?,?,?)
ON CONFLICT (id) DO NOTHING;`
	_, err := r.db.ExecContext(ctx, q, domain.RecordID, a.Company, a.Buyer, a.MatrixCell, a.Body)
	return err
}

func (r *AnalysisRepository) Get(ctx context.Context) (*domain.Record, error) {
	return get(ctx, r.db)
}

// Append concatenates suffix inside the UPDATE so concurrent appends never overwrite each other
func (r *AnalysisRepository) Append(ctx context.Context, suffix string) (*domain.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `UPDATE analysis SET gpt_output = COALESCE(gpt_output, '') || ? WHERE id = ?;`
	res, err := tx.ExecContext(ctx, q, suffix, domain.RecordID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrNotFound
	}

	a, err := get(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q queryer) (*domain.Record, error) {
	const sel = `
SELECT id, company, buyer, matrix_cell, gpt_output
FROM analysis
WHERE id = ? LIMIT 1;`
	var a domain.Record
	var company, buyer, cell, body sql.NullString
	if err := q.QueryRowContext(ctx, sel, domain.RecordID).Scan(&a.ID, &company, &buyer, &cell, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	a.Company = dbutil.NullToEmpty(company)
	a.Buyer = dbutil.NullToEmpty(buyer)
	a.MatrixCell = dbutil.NullToEmpty(cell)
	a.Body = dbutil.NullToEmpty(body)
	return &a, nil
}
