package seed

import (
	"context"
	"os"

	"github.com/pkg/errors"

	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
)

// FileSource reads the seed document from a local JSON file.
type FileSource struct {
	Path string
}

func (f FileSource) Load(_ context.Context) (domain.Seed, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return domain.Seed{}, errors.Wrapf(err, "read seed file")
	}
	s, err := domain.ParseSeed(data)
	if err != nil {
		return domain.Seed{}, errors.Wrapf(err, "seed file %s", f.Path)
	}
	return s, nil
}
