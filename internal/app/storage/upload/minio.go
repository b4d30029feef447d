package upload

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// minioAPI is the part of *minio.Client the storage uses.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
}

// MinioConfig configures a MinIO / S3 compatible backend. Credentials have no defaults.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLTTL    time.Duration
}

// MinioStorage issues presigned PUT URLs and verifies uploads with StatObject.
type MinioStorage struct {
	client minioAPI
	bucket string
	ttl    time.Duration
	logger *zap.Logger
}

// NewMinioStorage connects to MinIO and makes sure the bucket exists.
func NewMinioStorage(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*MinioStorage, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := newMinioStorage(client, cfg.Bucket, cfg.URLTTL, logger)
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newMinioStorage(client minioAPI, bucket string, ttl time.Duration, logger *zap.Logger) *MinioStorage {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MinioStorage{client: client, bucket: bucket, ttl: ttl, logger: logger}
}

func (s *MinioStorage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	s.logger.Info("created bucket", zap.String("bucket", s.bucket))
	return nil
}

// AllocateUploadTarget returns a presigned PUT URL for the job video's object key.
func (s *MinioStorage) AllocateUploadTarget(ctx context.Context, jobVideoID int64, ext string) (*Target, error) {
	key := ObjectKey(jobVideoID, ext)
	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, key, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	expires := time.Now().Add(s.ttl)
	return &Target{
		URL:       presigned.String(),
		Method:    "PUT",
		Key:       key,
		ExpiresAt: &expires,
	}, nil
}

// Confirm checks the object behind fileURL exists in the bucket. Only the
// object key allocated to jobVideoID in the configured bucket is accepted.
func (s *MinioStorage) Confirm(ctx context.Context, jobVideoID int64, fileURL string) (bool, error) {
	bucket, key, err := s.locate(fileURL)
	if err != nil {
		return false, nil
	}
	if bucket != s.bucket || !OwnsKey(jobVideoID, key) {
		s.logger.Warn("upload confirmation for foreign object",
			zap.Int64("job_video_id", jobVideoID),
			zap.String("bucket", bucket),
			zap.String("key", key))
		return false, nil
	}
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat %s/%s: %w", bucket, key, err)
	}
	s.logger.Debug("upload confirmed",
		zap.Int64("job_video_id", jobVideoID),
		zap.String("key", key),
		zap.Int64("size", info.Size))
	return true, nil
}

// Fetch downloads the object to a temporary file.
func (s *MinioStorage) Fetch(ctx context.Context, fileURL string) (string, func(), error) {
	bucket, key, err := s.locate(fileURL)
	if err != nil {
		return "", nil, err
	}
	tmp, err := os.CreateTemp("", "plumberf-*"+path.Ext(key))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	tmp.Close()
	cleanup := func() { os.Remove(tmp.Name()) }

	if err := s.client.FGetObject(ctx, bucket, key, tmp.Name(), minio.GetObjectOptions{}); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("download %s/%s: %w", bucket, key, err)
	}
	return tmp.Name(), cleanup, nil
}

// locate resolves s3://bucket/key, minio://bucket/key, http(s)://host/bucket/key
// or a bare key (in the configured bucket).
func (s *MinioStorage) locate(fileURL string) (string, string, error) {
	u, err := url.Parse(fileURL)
	if err != nil || u.Scheme == "" {
		key := strings.TrimPrefix(fileURL, "/")
		if key == "" {
			return "", "", fmt.Errorf("empty file url")
		}
		return s.bucket, key, nil
	}

	switch u.Scheme {
	case "s3", "minio":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return "", "", fmt.Errorf("malformed object url %q", fileURL)
		}
		return u.Host, key, nil
	case "http", "https":
		parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
		if len(parts) != 2 || parts[1] == "" {
			return "", "", fmt.Errorf("malformed object url %q", fileURL)
		}
		return parts[0], parts[1], nil
	}
	return "", "", fmt.Errorf("unsupported scheme %q", u.Scheme)
}
