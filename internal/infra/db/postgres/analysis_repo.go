package postgres

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
	"github.com/bryanwahyu/analysis-store/internal/infra/db/dbutil"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

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
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO NOTHING;`
	_, err := r.db.ExecContext(ctx, q, domain.RecordID, a.Company, a.Buyer, a.MatrixCell, a.Body)
	return err
}

func (r *AnalysisRepository) Get(ctx context.Context) (*domain.Record, error) {
	return get(ctx, r.db)
}

// Append concatenates suffix and returns the new row in one statement
func (r *AnalysisRepository) Append(ctx context.Context, suffix string) (*domain.Record, error) {
	const q = `
UPDATE analysis
SET gpt_output = COALESCE(gpt_output, '') || $1
WHERE id = $2
RETURNING id, company, buyer, matrix_cell, gpt_output;`
	return scanRecord(r.db.QueryRowContext(ctx, q, suffix, domain.RecordID))
}

func get(ctx context.Context, db *sql.DB) (*domain.Record, error) {
	const q = `
SELECT id, company, buyer, matrix_cell, gpt_output
FROM analysis
WHERE id = $1
LIMIT 1;`
	return scanRecord(db.QueryRowContext(ctx, q, domain.RecordID))
}

func scanRecord(row *sql.Row) (*domain.Record, error) {
	var a domain.Record
	var company, buyer, cell, body sql.NullString
	if err := row.Scan(&a.ID, &company, &buyer, &cell, &body); err != nil {
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
