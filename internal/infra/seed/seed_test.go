package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/analysis-store/internal/config"
	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
	"github.com/bryanwahyu/analysis-store/internal/infra/storage"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "analysis_data.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"company":"Acme","buyer":"Globex","matrix_cell":"A1","gptOutput":"Initial text."}`), 0o644))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"company": "Acme"`), 0o644))

	ctx := context.Background()

	seed, err := FileSource{Path: good}.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Seed{Company: "Acme", Buyer: "Globex", MatrixCell: "A1", GPTOutput: "Initial text."}, seed)

	_, err = FileSource{Path: bad}.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")

	_, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewSource(t *testing.T) {
	cfg := config.Default()
	src, err := NewSource(cfg)
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "analysis_data.json"}, src)

	cfg.Seed.Path = "s3://seeds/analysis_data.json"
	cfg.Minio.Endpoint = "localhost:9000"
	src, err = NewSource(cfg)
	require.NoError(t, err)
	obj, ok := src.(*storage.ObjectSource)
	require.True(t, ok)
	assert.Equal(t, "seeds", obj.Bucket)
	assert.Equal(t, "analysis_data.json", obj.Key)

	cfg.Seed.Path = "s3://seeds"
	_, err = NewSource(cfg)
	require.Error(t, err)
}
