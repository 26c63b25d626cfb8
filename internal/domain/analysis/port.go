package analysis

import "context"

// Repository port (persistence of the single record)
type Repository interface {
	// EnsureSchema creates the backing table when missing.
	EnsureSchema(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	// Create inserts the record; an existing row with the same id is left alone.
	Create(ctx context.Context, r *Record) error
	// Get returns ErrNotFound when the row is absent.
	Get(ctx context.Context) (*Record, error)
	// Append joins suffix onto the stored body atomically and returns the updated row.
	Append(ctx context.Context, suffix string) (*Record, error)
}

// SeedSource port (where the first-boot content comes from)
type SeedSource interface {
	Load(ctx context.Context) (Seed, error)
}
