package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures an S3-compatible object store (AWS, R2, MinIO).
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Source downloads uploaded resumes from object storage.
type S3Source struct {
	client ObjectGetter
}

// NewS3Source wraps an existing client.
func NewS3Source(client ObjectGetter) *S3Source {
	return &S3Source{client: client}
}

// NewS3SourceFromConfig builds an S3 client from cfg. Static credentials are
// used when both keys are set, otherwise the default credential chain applies.
func NewS3SourceFromConfig(ctx context.Context, cfg S3Config) (*S3Source, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Source(client), nil
}

// Fetch downloads bucket/key and returns it as a File. The MIME type comes
// from the object's Content-Type and may be empty.
func (s *S3Source) Fetch(ctx context.Context, bucket, key string) (File, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return File{}, &ExtractionError{Kind: KindDownload, File: key, Message: "failed to get object", Cause: err}
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return File{}, &ExtractionError{Kind: KindDownload, File: key, Message: "failed to read object body", Cause: err}
	}

	return File{
		Name: path.Base(key),
		MIME: aws.ToString(out.ContentType),
		Data: buf.Bytes(),
	}, nil
}
