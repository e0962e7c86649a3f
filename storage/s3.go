package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"
)

// DefaultRegion is used to locate buckets when no region is configured.
const DefaultRegion = "us-east-1"

type S3Store struct {
	cfg      aws.Config
	endpoint string
	resolved bool
	client   *s3.Client
	log      logrus.FieldLogger
}

// ConnectS3 is a Connector backed by the AWS SDK. Requests are made once;
// the SDK's retryer is limited to a single attempt.
// The aws.Config is built from creds alone: AWS_* variables and the shared
// config files are never consulted.
func ConnectS3(_ context.Context, creds Credentials) (ObjectStore, error) {
	region := creds.Region
	if len(region) == 0 {
		region = DefaultRegion
	}

	cfg := aws.Config{
		Region:           region,
		Credentials:      credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, ""),
		RetryMaxAttempts: 1,
	}

	s := &S3Store{
		cfg:      cfg,
		endpoint: creds.Endpoint,
		resolved: len(creds.Region) > 0,
		log:      logrus.WithField("component", "s3"),
	}
	s.client = s3.NewFromConfig(cfg, s.clientOptions)
	return s, nil
}

func (s *S3Store) clientOptions(o *s3.Options) {
	if len(s.endpoint) > 0 {
		o.BaseEndpoint = aws.String(s.endpoint)
		o.UsePathStyle = true
	}
}

// Bucket checks that name exists and is reachable with the store's
// credentials. Without a configured region the bucket's region is looked up
// first and the client is rebound to it.
func (s *S3Store) Bucket(ctx context.Context, name string) error {
	if !s.resolved {
		region, err := manager.GetBucketRegion(ctx, s.client, name)
		if err != nil {
			return bucketError(name, err)
		}
		s.log.WithFields(logrus.Fields{"bucket": name, "region": region}).Debug("bucket region resolved")
		s.cfg.Region = region
		s.client = s3.NewFromConfig(s.cfg, s.clientOptions)
		s.resolved = true
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(name)})
	if err != nil {
		return bucketError(name, err)
	}
	return nil
}

func (s *S3Store) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if len(contentType) > 0 {
		input.ContentType = aws.String(contentType)
	}

	out, err := s.uploader().Upload(ctx, input)
	if err != nil {
		return fmt.Errorf("%w: put %s/%s: %w", ErrUpload, bucket, key, err)
	}
	s.log.WithFields(logrus.Fields{"bucket": bucket, "key": key, "etag": aws.ToString(out.ETag)}).Debug("object stored")
	return nil
}

// uploader sends parts one at a time.
func (s *S3Store) uploader() *manager.Uploader {
	return manager.NewUploader(s.client, func(u *manager.Uploader) {
		u.Concurrency = 1
	})
}

func (s *S3Store) SetPublicRead(ctx context.Context, bucket, key string) error {
	_, err := s.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("%w: set public-read on %s/%s: %w", ErrUpload, bucket, key, err)
	}
	return nil
}

// SignURL presigns a GET for the object, valid for ttl.
func (s *S3Store) SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := s3.NewPresignClient(s.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

func bucketError(name string, err error) error {
	if isBucketNotFound(err) {
		return fmt.Errorf("%w: %s: %w", ErrBucketNotFound, name, err)
	}
	return fmt.Errorf("resolve bucket %s: %w", name, err)
}

func isBucketNotFound(err error) bool {
	var bnf manager.BucketNotFound
	if errors.As(err, &bnf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket", "Forbidden", "AccessDenied":
			return true
		}
	}

	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound, http.StatusForbidden:
			return true
		}
	}
	return false
}
