package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSS stores files in an Alibaba Cloud OSS bucket.
type OSS struct {
	bucket    *oss.Bucket
	publicURL string
}

// NewOSS connects to the bucket. If publicURL is empty, the default bucket
// domain is used for download URLs.
func NewOSS(endpoint, accessKeyID, accessKeySecret, bucketName, publicURL string) (*OSS, error) {
	client, err := oss.New(endpoint, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if publicURL == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
		publicURL = fmt.Sprintf("https://%s.%s", bucketName, host)
	}

	return &OSS{
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *OSS) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.bucket.PutObject(key, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentLength(size),
		oss.ContentDisposition("inline"),
		oss.ForbidOverWrite(true),
	)
}

func (s *OSS) URL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}
