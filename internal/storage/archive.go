package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/dietplan/backend/config"
	"github.com/pageza/dietplan/backend/internal/models"
)

// PutObjectAPI is the part of the S3 client the archive needs
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive writes generated plans as JSON objects to a bucket
type S3Archive struct {
	client PutObjectAPI
	bucket string
}

// NewS3Archive creates an archive backed by the configured bucket
func NewS3Archive(cfg *config.S3Config) *S3Archive {
	return &S3Archive{client: cfg.Client, bucket: cfg.BucketName}
}

// NewS3ArchiveWithClient creates an archive with an explicit client
func NewS3ArchiveWithClient(client PutObjectAPI, bucket string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket}
}

// ObjectKey returns the key a record is stored under: plans/YYYY/MM/DD/<id>.json
func ObjectKey(record *models.DietPlanRecord) string {
	created := record.CreatedAt.UTC()
	return fmt.Sprintf("plans/%04d/%02d/%02d/%s.json", created.Year(), created.Month(), created.Day(), record.ID)
}

// Store uploads record to the bucket
func (a *S3Archive) Store(ctx context.Context, record *models.DietPlanRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode diet plan: %w", err)
	}

	key := ObjectKey(record)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
