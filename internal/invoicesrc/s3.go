package invoicesrc

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

// S3GetObjectAPI is the slice of the S3 client S3Source needs.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options locates an exported invoice envelope in a bucket. Endpoint is
// optional and points at S3-compatible storage such as MinIO.
type S3Options struct {
	Region    string
	Endpoint  string
	Bucket    string
	Key       string
	AccessKey string
	SecretKey string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Client builds an S3 client from static credentials. Path-style
// addressing is forced when a custom endpoint is set.
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	}), nil
}

// S3Source reads the invoice envelope from a single object.
type S3Source struct {
	client S3GetObjectAPI
	bucket string
	key    string
}

func NewS3Source(client S3GetObjectAPI, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// FetchAll downloads the configured object and decodes it as an envelope.
func (s *S3Source) FetchAll(ctx context.Context) ([]models.Invoice, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, mapS3Error(err)
	}
	defer out.Body.Close()

	list, err := DecodeInvoices(out.Body)
	if err != nil {
		return nil, common.NewFetchError(common.ClassifyTransport(err), err)
	}
	return list, nil
}

// httpStatusError matches the SDK's response errors without importing the
// transport packages directly.
type httpStatusError interface {
	HTTPStatusCode() int
}

func mapS3Error(err error) error {
	var se httpStatusError
	if errors.As(err, &se) && se.HTTPStatusCode() > 0 {
		return common.NewFetchError(common.ClassifyHTTPStatus(se.HTTPStatusCode()), err)
	}
	return common.AsFetchError(err)
}
