package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageStore persists analysed meal photos and returns their public URL
type ImageStore interface {
	Upload(ctx context.Context, userID string, image []byte, contentType string) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads to a bucket under meal-images/<user>/
type S3ImageStore struct {
	client    objectPutter
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewS3ImageStore loads the default AWS config. publicURL is the CDN or bucket
// base URL; when empty the virtual-hosted S3 URL is used.
func NewS3ImageStore(ctx context.Context, region, bucket, publicURL string) (*S3ImageStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config for S3: %w", err)
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return newS3ImageStore(s3.NewFromConfig(cfg), bucket, publicURL), nil
}

func newS3ImageStore(client objectPutter, bucket, publicURL string) *S3ImageStore {
	return &S3ImageStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

func (s *S3ImageStore) Upload(ctx context.Context, userID string, image []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = http.DetectContentType(image)
	}
	key := fmt.Sprintf("meal-images/%s/%d%s", userID, s.now().UnixNano(), extension(contentType))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
