package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/snapgram/api-go/config"
)

// MaxMediaSize is the largest object accepted for upload.
const MaxMediaSize = 10 << 20 // 10 MiB

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

// ValidateMedia enforces the size cap and content-type allowlist before
// anything is handed to the storage backend.
func ValidateMedia(contentType string, size int64) error {
	if size <= 0 || size > MaxMediaSize {
		return fmt.Errorf("file size must be between 1 byte and %d bytes", MaxMediaSize)
	}
	if !allowedContentTypes[contentType] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// MediaStorage is the contract the rest of the app uses for stored media.
// Bytes are passed through untouched.
type MediaStorage interface {
	Store(ctx context.Context, data []byte, contentType string) (key string, url string, err error)
	Presign(ctx context.Context, key, contentType string) (uploadURL string, err error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// R2Storage stores media in a Cloudflare R2 bucket through the S3 API.
type R2Storage struct {
	Client *s3.Client
	Config *config.R2Config
}

func NewR2Storage(cfg *config.R2Config) *R2Storage {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})

	return &R2Storage{Client: client, Config: cfg}
}

// NewKey generates a fresh object key under the media prefix.
func NewKey(contentType string) string {
	return fmt.Sprintf("media/%d-%s", time.Now().Unix(), uuid.New().String())
}

func (r *R2Storage) Store(ctx context.Context, data []byte, contentType string) (string, string, error) {
	if err := ValidateMedia(contentType, int64(len(data))); err != nil {
		return "", "", err
	}

	key := NewKey(contentType)
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", err
	}

	return key, r.PublicURL(key), nil
}

func (r *R2Storage) Presign(ctx context.Context, key, contentType string) (string, error) {
	presigner := s3.NewPresignClient(r.Client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (r *R2Storage) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.Config.BucketName),
		Key:    aws.String(key),
	})
	return err
}

func (r *R2Storage) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", r.Config.PublicURL, key)
}
