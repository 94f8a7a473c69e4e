package s3client

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type Client interface {
	PutObject(ctx context.Context, req *PutObjectRequest) error
}

type PutObjectRequest struct {
	Bucket      string
	Key         string
	Body        io.ReadSeeker
	Size        int64
	ContentType string
}

// ParseS3URI splits s3://bucket/key into bucket and key
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", fmt.Errorf("URI must start with s3://")
	}

	path := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(path, "/", 2)

	bucket = parts[0]
	if len(parts) > 1 {
		key = parts[1]
	}

	if bucket == "" {
		return "", "", fmt.Errorf("bucket name cannot be empty")
	}

	return bucket, key, nil
}

func IsS3URI(s string) bool {
	return strings.HasPrefix(s, "s3://")
}
