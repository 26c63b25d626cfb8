package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
)

type fakeReader struct {
	objects map[string][]byte
}

func (f fakeReader) Read(_ context.Context, bucket, key string) ([]byte, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("The specified key does not exist.")
	}
	return data, nil
}

func TestParseObjectURL(t *testing.T) {
	bucket, key, err := ParseObjectURL("s3://seeds/prod/analysis_data.json")
	require.NoError(t, err)
	assert.Equal(t, "seeds", bucket)
	assert.Equal(t, "prod/analysis_data.json", key)

	for _, bad := range []string{"s3://seeds", "s3:///key", "https://seeds/key", "::"} {
		_, _, err := ParseObjectURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestObjectSource_Load(t *testing.T) {
	reader := fakeReader{objects: map[string][]byte{
		"seeds/ok.json":  []byte(`{"company":"Acme","buyer":"Globex","matrix_cell":"A1","gptOutput":"Initial text."}`),
		"seeds/bad.json": []byte(`not json`),
	}}
	ctx := context.Background()

	seed, err := (&ObjectSource{Store: reader, Bucket: "seeds", Key: "ok.json"}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Seed{Company: "Acme", Buyer: "Globex", MatrixCell: "A1", GPTOutput: "Initial text."}, seed)

	_, err = (&ObjectSource{Store: reader, Bucket: "seeds", Key: "bad.json"}).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://seeds/bad.json")

	_, err = (&ObjectSource{Store: reader, Bucket: "seeds", Key: "missing.json"}).Load(ctx)
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	s, err := New("localhost:9000", "us-east-1", "key", "secret", false)
	require.NoError(t, err)
	assert.NotNil(t, s.client)
}
