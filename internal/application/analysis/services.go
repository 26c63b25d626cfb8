package analysis

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
)

// Service implements the use cases for the analysis record.
// It holds no state of its own and is safe for concurrent use.
type Service struct {
	Repo domain.Repository
	Seed domain.SeedSource
	Log  *zap.Logger
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Initialize makes sure the table exists and seeds it when empty.
// The seed source is only read when a row has to be written.
func (s *Service) Initialize(ctx context.Context) (bool, error) {
	if err := s.Repo.EnsureSchema(ctx); err != nil {
		return false, domain.StorageError("database initialization error", err)
	}

	n, err := s.Repo.Count(ctx)
	if err != nil {
		return false, domain.StorageError("database initialization error", err)
	}
	if n > 0 {
		s.logger().Debug("analysis table already populated", zap.Int64("rows", n))
		return false, nil
	}

	if s.Seed == nil {
		return false, domain.StorageError("seed error", errors.New("no seed source configured"))
	}
	seed, err := s.Seed.Load(ctx)
	if err != nil {
		return false, domain.StorageError("seed error", err)
	}
	if err := s.Repo.Create(ctx, seed.Record()); err != nil {
		return false, domain.StorageError("database initialization error", err)
	}

	s.logger().Info("analysis record seeded",
		zap.String("company", seed.Company),
		zap.String("buyer", seed.Buyer),
		zap.String("matrix_cell", seed.MatrixCell),
		zap.Int("body_len", len(seed.GPTOutput)),
	)
	return true, nil
}

// Get returns the record.
func (s *Service) Get(ctx context.Context) (*domain.Record, error) {
	rec, err := s.Repo.Get(ctx)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	return rec, nil
}

// Append validates fragment, joins it onto the body and returns the updated record.
func (s *Service) Append(ctx context.Context, fragment string) (*domain.Record, error) {
	trimmed, err := domain.ValidateFragment(fragment)
	if err != nil {
		return nil, err
	}

	rec, err := s.Repo.Append(ctx, domain.Separator+trimmed)
	if err != nil {
		return nil, s.mapRepoError(err)
	}

	s.logger().Debug("analysis appended",
		zap.Int("fragment_len", len(trimmed)),
		zap.Int("body_len", len(rec.Body)),
	)
	return rec, nil
}

func (s *Service) mapRepoError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFoundError("No analysis found")
	}
	return domain.StorageError("database error", err)
}
