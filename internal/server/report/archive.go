package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver stores a copy of a rendered report and returns its object key.
type Archiver interface {
	Archive(ctx context.Context, userID int64, at time.Time, body []byte) (string, error)
}

// NopArchiver discards reports.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, int64, time.Time, []byte) (string, error) {
	return "", nil
}

// S3Options configures the S3 (or MinIO) report bucket.
type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Archiver uploads reports under reports/<user id>/<timestamp>.html.
type S3Archiver struct {
	client putObjectAPI
	bucket string
}

func NewS3Archiver(ctx context.Context, o S3Options) (*S3Archiver, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})
	return &S3Archiver{client: client, bucket: o.Bucket}, nil
}

func ObjectKey(userID int64, at time.Time) string {
	return fmt.Sprintf("reports/%d/%s.html", userID, at.UTC().Format("20060102T150405Z"))
}

func (a *S3Archiver) Archive(ctx context.Context, userID int64, at time.Time, body []byte) (string, error) {
	key := ObjectKey(userID, at)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}
