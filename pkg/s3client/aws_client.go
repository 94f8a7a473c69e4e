package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 100 * time.Millisecond
	defaultMaxDelay   = 30 * time.Second
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AWSClient puts objects with exponential backoff on throttling and 5xx responses
type AWSClient struct {
	client     putObjectAPI
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewAWSClient(cfg aws.Config) *AWSClient {
	return newAWSClient(s3.NewFromConfig(cfg))
}

func newAWSClient(api putObjectAPI) *AWSClient {
	return &AWSClient{
		client:     api,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
}

func (c *AWSClient) PutObject(ctx context.Context, req *PutObjectRequest) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if _, err := req.Body.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to rewind body: %w", err)
		}

		input := &s3.PutObjectInput{
			Bucket:        aws.String(req.Bucket),
			Key:           aws.String(req.Key),
			Body:          req.Body,
			ContentLength: aws.Int64(req.Size),
		}
		if req.ContentType != "" {
			input.ContentType = aws.String(req.ContentType)
		}

		_, err := c.client.PutObject(ctx, input)
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return fmt.Errorf("failed to put object: %w", err)
		}

		lastErr = err
		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.calculateDelay(attempt)):
			}
		}
	}
	return fmt.Errorf("failed to put object: max retries exceeded: %w", lastErr)
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown", "ServiceUnavailable", "RequestTimeout", "RequestTimeoutException":
			return true
		}
		if httpErr, ok := apiErr.(interface{ HTTPStatusCode() int }); ok {
			code := httpErr.HTTPStatusCode()
			return code >= 500 && code < 600
		}
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF)
}

// calculateDelay calculates the retry delay with exponential backoff and jitter (±25%)
func (c *AWSClient) calculateDelay(attempt int) time.Duration {
	delay := float64(c.baseDelay) * math.Pow(2.0, float64(attempt))
	delay += delay * 0.25 * (2*rand.Float64() - 1)

	if delay > float64(c.maxDelay) {
		delay = float64(c.maxDelay)
	}

	return time.Duration(delay)
}
