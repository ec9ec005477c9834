package repository

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/mansoorceksport/flexpro/internal/config"
)

// S3ReportRepository implements domain.ReportRepository on any S3-compatible store
type S3ReportRepository struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3ReportRepository creates the report store and makes sure its bucket exists
func NewS3ReportRepository(ctx context.Context, cfg appConfig.S3Config) (*S3ReportRepository, error) {
	// S3-compatible stores (SeaweedFS, MinIO) still require signed requests
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("any", "any", "")),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	repo := &S3ReportRepository{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.Endpoint, "/"),
	}

	if err := repo.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// Upload saves a report under key and returns its URL
func (r *S3ReportRepository) Upload(ctx context.Context, file []byte, key string, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to S3: %w", err)
	}

	return r.objectURL(key), nil
}

// objectURL follows path-style addressing: {endpoint}/{bucket}/{key}
func (r *S3ReportRepository) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", r.publicURL, r.bucket, strings.TrimPrefix(key, "/"))
}

// ensureBucket checks if bucket exists, creating it if necessary
func (r *S3ReportRepository) ensureBucket(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = r.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}
	return nil
}
