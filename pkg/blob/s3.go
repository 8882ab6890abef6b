package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures an [S3Store].
type S3Config struct {
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PresignTTL time.Duration
}

// S3Store uploads bundles to an S3-compatible bucket. The download reference
// is a presigned GET URL, so zbuilder does not serve the bytes itself.
type S3Store struct {
	client     *minio.Client
	bucket     string
	region     string
	presignTTL time.Duration

	initOnce sync.Once
	initErr  error
}

// NewS3Store creates a store for cfg. The bucket is created on first use.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, region: region, presignTTL: ttl}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if !exists {
			s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
		}
	})
	return s.initErr
}

// Publish uploads data and returns a presigned download URL.
func (s *S3Store) Publish(ctx context.Context, filename string, data []byte) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	key := objectKey(NewID(), filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:        ContentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", filename),
	})
	if err != nil {
		return "", fmt.Errorf("upload bundle: %w", err)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("presign bundle: %w", err)
	}
	return u.String(), nil
}

// Get downloads a bundle by object key prefix id. Used by tests and tooling;
// the server never proxies S3 bundles.
func (s *S3Store) Get(ctx context.Context, id string) (*Blob, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: id + "/", Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		r, err := s.client.GetObject(ctx, s.bucket, obj.Key, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			if code := minio.ToErrorResponse(err).Code; code == "NoSuchKey" || code == "NoSuchBucket" {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &Blob{
			ID:          id,
			Filename:    strings.TrimPrefix(obj.Key, id+"/"),
			ContentType: ContentType,
			Data:        data,
			CreatedAt:   obj.LastModified,
		}, nil
	}
	return nil, ErrNotFound
}

// Close does nothing; the minio client holds no connections open.
func (s *S3Store) Close() error { return nil }

func objectKey(id, filename string) string {
	return id + "/" + strings.TrimLeft(strings.TrimSpace(filename), "/")
}

var _ Store = (*S3Store)(nil)
