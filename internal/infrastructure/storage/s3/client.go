// Package s3 stores profile pictures in an S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Config captures the bucket and endpoint settings.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // empty for AWS; e.g. http://localhost:9000 for MinIO
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // overrides the URL prefix handed to clients
	UsePathStyle    bool
	CreateBucket    bool
}

// Client implements ports.ObjectStorage.
type Client struct {
	s3       *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewClient builds the S3 client and makes sure the bucket exists.
func NewClient(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	c := &Client{
		s3:       client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		baseURL:  publicBaseURL(cfg),
	}

	if cfg.CreateBucket {
		if err := c.ensureBucket(ctx, log); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, log zerolog.Logger) error {
	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.s3.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err == nil {
		return nil
	}

	log.Info().Str("bucket", c.bucket).Msg("bucket not found, creating")
	if _, err := c.s3.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return fmt.Errorf("create bucket %s: %w", c.bucket, err)
	}

	waiter := s3.NewBucketExistsWaiter(c.s3)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}, 30*time.Second); err != nil {
		return fmt.Errorf("wait for bucket %s: %w", c.bucket, err)
	}
	return nil
}

// Store uploads content under key and returns its public URL.
func (c *Client) Store(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, c.bucket, err)
	}
	return c.URL(key), nil
}

func (c *Client) URL(key string) string {
	return c.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// Ping checks that the bucket is reachable; used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	return err
}

// publicBaseURL resolves the prefix of object URLs, without a trailing slash.
func publicBaseURL(cfg Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		endpoint := strings.TrimRight(cfg.Endpoint, "/")
		if cfg.UsePathStyle {
			return endpoint + "/" + cfg.Bucket
		}
		if i := strings.Index(endpoint, "://"); i >= 0 {
			return endpoint[:i+3] + cfg.Bucket + "." + endpoint[i+3:]
		}
		return cfg.Bucket + "." + endpoint
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
