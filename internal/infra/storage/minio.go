package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/bryanwahyu/analysis-store/internal/domain/analysis"
)

// maxObjectSize caps how much of a seed object is read into memory.
const maxObjectSize = 16 << 20

type Store struct {
	client *minio.Client
}

// New buat client MinIO. No request is made until an object is read.
func New(endpoint, region, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}
	return &Store{client: cli}, nil
}

// Read returns the full content of bucket/key.
func (s *Store) Read(ctx context.Context, bucket, key string) ([]byte, error) {
	// pastikan bucket ada
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("object s3://%s/%s exceeds %d bytes", bucket, key, maxObjectSize)
	}
	return data, nil
}

// ObjectReader is the part of Store the seed source needs.
type ObjectReader interface {
	Read(ctx context.Context, bucket, key string) ([]byte, error)
}

// ObjectSource loads the seed document from object storage.
type ObjectSource struct {
	Store  ObjectReader
	Bucket string
	Key    string
}

func (o *ObjectSource) Load(ctx context.Context) (domain.Seed, error) {
	data, err := o.Store.Read(ctx, o.Bucket, o.Key)
	if err != nil {
		return domain.Seed{}, err
	}
	seed, err := domain.ParseSeed(data)
	if err != nil {
		return domain.Seed{}, fmt.Errorf("seed object s3://%s/%s: %w", o.Bucket, o.Key, err)
	}
	return seed, nil
}

// ParseObjectURL splits s3://bucket/path/to/key.
func ParseObjectURL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid object url: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("invalid object url scheme %q (want s3)", u.Scheme)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("object url %q needs both bucket and key", raw)
	}
	return bucket, key, nil
}
