package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader transfers one compressed blob to remote object storage.
// Upload resolves to the blob's public URL or a terminal error; Delete
// supports best-effort cleanup of orphaned blobs.
type Uploader interface {
	Upload(ctx context.Context, key string, blob []byte, metadata map[string]string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ObjectStorageConfig holds the settings for the S3-compatible backend
// (MinIO in development).
type ObjectStorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Uploader stores blobs in an S3-compatible bucket.
type S3Uploader struct {
	client *s3.Client
	bucket string
	// baseURL is the public prefix of uploaded objects, endpoint/bucket.
	baseURL string
}

func NewS3Uploader(ctx context.Context, c ObjectStorageConfig) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client:  client,
		bucket:  c.Bucket,
		baseURL: strings.TrimSuffix(c.Endpoint, "/") + "/" + c.Bucket,
	}, nil
}

// StorageKey returns a collision-free destination key, partitioned by
// upload date.
func StorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (u *S3Uploader) Upload(ctx context.Context, key string, blob []byte, metadata map[string]string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String("image/jpeg"),
		Metadata:    metadata,
	})
	if err != nil {
		return "", err
	}
	return u.baseURL + "/" + key, nil
}

func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return err
}
