package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/noah-isme/campus-projects-api/pkg/config"
)

// minioAPI is the subset of *minio.Client used here; tests substitute a fake.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioClientAdapter struct{ c *minio.Client }

func (a minioClientAdapter) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return a.c.BucketExists(ctx, bucket)
}

func (a minioClientAdapter) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return a.c.MakeBucket(ctx, bucket, opts)
}

func (a minioClientAdapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.c.PutObject(ctx, bucket, key, r, size, opts)
}

func (a minioClientAdapter) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := a.c.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (a minioClientAdapter) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return a.c.StatObject(ctx, bucket, key, opts)
}

func (a minioClientAdapter) RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error {
	return a.c.RemoveObject(ctx, bucket, key, opts)
}

var _ BlobStore = (*MinIOStore)(nil)

// MinIOStore keeps blobs in a single S3-compatible bucket.
type MinIOStore struct {
	api    minioAPI
	bucket string
}

// NewMinIOStore dials the endpoint from cfg and makes sure the bucket exists.
func NewMinIOStore(ctx context.Context, cfg config.StorageConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return newMinIOStore(ctx, minioClientAdapter{c: client}, cfg.Bucket)
}

func newMinIOStore(ctx context.Context, api minioAPI, bucket string) (*MinIOStore, error) {
	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return &MinIOStore{api: api, bucket: bucket}, nil
}

// Put streams r into the bucket. size may be -1 when unknown.
func (s *MinIOStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.api.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Get opens the object for reading. The object is stat'ed first because
// minio's GetObject is lazy and would only fail on the first Read.
func (s *MinIOStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if _, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}
	rc, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return rc, nil
}

// Delete removes the object; removing a missing key is not an error.
func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
