package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/analysis-store/internal/config"
	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
	"github.com/bryanwahyu/analysis-store/internal/infra/db/mysql"
	"github.com/bryanwahyu/analysis-store/internal/infra/db/postgres"
	"github.com/bryanwahyu/analysis-store/internal/infra/db/sqlite"
)

// Open connects to the configured database and returns the matching repository.
// The caller owns the returned *sql.DB.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, domain.Repository, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Connect(ctx, cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite connect %s: %w", cfg.Database.Path, err)
		}
		return db, sqlite.NewAnalysisRepository(db), nil
	case config.DriverMySQL:
		db, err := mysql.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		return db, mysql.NewAnalysisRepository(db), nil
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		return db, postgres.NewAnalysisRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
