package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const keyPrefix = "exports"

// objectAPI is the part of the S3 client the archiver needs
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3Archiver keeps a copy of every CSV export in an S3 bucket
type S3Archiver struct {
	svc    objectAPI
	bucket string
	now    func() time.Time
}

// NewS3Archiver loads the default AWS configuration for region
func NewS3Archiver(ctx context.Context, region, bucket string) (*S3Archiver, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return newS3Archiver(s3.NewFromConfig(cfg), bucket), nil
}

func newS3Archiver(svc objectAPI, bucket string) *S3Archiver {
	return &S3Archiver{svc: svc, bucket: bucket, now: time.Now}
}

// Bucket returns the target bucket name
func (a *S3Archiver) Bucket() string { return a.bucket }

// Key builds exports/<kind>/<YYYY/MM/DD>/<uuid>-<filename>
func (a *S3Archiver) Key(kind, filename string) string {
	day := a.now().UTC().Format("2006/01/02")
	return path.Join(keyPrefix, kind, day, uuid.NewString()+"-"+filename)
}

// Upload stores data under a fresh key and returns that key
func (a *S3Archiver) Upload(ctx context.Context, kind, filename string, data []byte) (string, error) {
	key := a.Key(kind, filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
		Metadata: map[string]string{
			"uploaded-at": a.now().UTC().Format(time.RFC3339),
			"export-kind": kind,
		},
	}

	if _, err := a.svc.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// List returns the archived keys of kind, or of every kind when kind is empty
func (a *S3Archiver) List(ctx context.Context, kind string) ([]string, error) {
	prefix := keyPrefix + "/"
	if kind != "" {
		prefix += kind + "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(prefix),
	}

	keys := []string{}
	paginator := s3.NewListObjectsV2Paginator(a.svc, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}
