package seed

import (
	"github.com/pkg/errors"

	"github.com/bryanwahyu/analysis-store/internal/config"
	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
	"github.com/bryanwahyu/analysis-store/internal/infra/storage"
)

// NewSource picks the seed source for cfg.Seed.Path. s3:// paths go through minio;
// the client is only built here, nothing is fetched until Load.
func NewSource(cfg *config.Config) (domain.SeedSource, error) {
	if !config.IsObjectPath(cfg.Seed.Path) {
		return FileSource{Path: cfg.Seed.Path}, nil
	}

	bucket, key, err := storage.ParseObjectURL(cfg.Seed.Path)
	if err != nil {
		return nil, err
	}
	store, err := storage.New(
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		return nil, errors.Wrap(err, "minio client")
	}
	return &storage.ObjectSource{Store: store, Bucket: bucket, Key: key}, nil
}
