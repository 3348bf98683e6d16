// Package storage pushes user media (avatars, cover images) to S3-compatible
// object storage and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/vidtube/internal/server/config"
)

// Uploader stores the file at localPath and returns a URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Uploader implements Uploader on top of the AWS SDK. It works with MinIO
// and other S3-compatible servers through path-style addressing.
type S3Uploader struct {
	client        putObjectAPI
	bucket        string
	baseEndpoint  string
	publicBaseURL string
	prefix        string
}

// NewS3Uploader builds the S3 client from the server config.
func NewS3Uploader(ctx context.Context, c *sc.Config) (*S3Uploader, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3AccessKey,
			c.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client:        client,
		bucket:        c.S3Bucket,
		baseEndpoint:  c.S3BaseEndpoint,
		publicBaseURL: c.S3PublicBaseURL,
		prefix:        "media",
	}, nil
}

// ObjectKey returns a fresh, date-partitioned key keeping the extension of name.
func ObjectKey(prefix, name string, t time.Time) string {
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", prefix, t.Year(), t.Month(), t.Day(), uuid.New(), ext)
}

// Upload reads localPath and stores it under a new key. The local file is
// left in place; removing it is the caller's job.
func (u *S3Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", fmt.Errorf("upload: empty path")
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer f.Close()

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		contentType = mt.String()
	}

	key := ObjectKey(u.prefix, localPath, time.Now())
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicURL(key), nil
}

func (u *S3Uploader) publicURL(key string) string {
	if u.publicBaseURL != "" {
		return strings.TrimRight(u.publicBaseURL, "/") + "/" + key
	}
	return strings.TrimRight(u.baseEndpoint, "/") + "/" + u.bucket + "/" + key
}
