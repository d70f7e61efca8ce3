package storage

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobStore is the remote object store for file content. Like
// MetadataStore it may be absent at runtime.
type BlobStore interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	SignedURL(ctx context.Context, key string) (string, error)
}

// S3Options configures the S3-backed blob store.
type S3Options struct {
	Bucket string
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible stores.
	Endpoint string
	// AccessKey/SecretKey select static credentials; empty AccessKey
	// leaves the SDK's default chain in charge.
	AccessKey string
	SecretKey string
	// SignTTL bounds issued download URLs. SigV4 caps this at 7 days.
	SignTTL time.Duration
}

// S3Blob stores blobs in an S3 bucket and issues presigned download URLs.
type S3Blob struct {
	uploader *manager.Uploader
	presign  *s3.PresignClient
	bucket   string
	signTTL  time.Duration
}

func NewS3Blob(ctx context.Context, opts S3Options) (*S3Blob, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Blob{
		uploader: manager.NewUploader(client),
		presign:  s3.NewPresignClient(client),
		bucket:   opts.Bucket,
		signTTL:  opts.SignTTL,
	}, nil
}

func (b *S3Blob) Upload(ctx context.Context, key string, r io.Reader) error {
	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	return err
}

func (b *S3Blob) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(b.signTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
