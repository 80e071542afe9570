// Package blobstore fetches billing files from S3.
package blobstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// New creates an S3-backed blob source for the given region.
func New(region string) (S3, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return S3{}, err
	}
	return S3{client: s3.New(sess)}, nil
}

// S3 fetches objects from S3 buckets.
type S3 struct {
	client *s3.S3
}

// Fetch returns the bytes of the object at bucket/key. Fetch does not retry;
// redelivery of the triggering event is the retry mechanism.
func (s S3) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	goo, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket:
				return nil, fmt.Errorf("blobstore: s3://%s/%s not found: %w", bucket, key, err)
			case "AccessDenied":
				return nil, fmt.Errorf("blobstore: access to s3://%s/%s denied: %w", bucket, key, err)
			}
		}
		return nil, fmt.Errorf("blobstore: %w", err)
	}
	defer goo.Body.Close()
	data, err := io.ReadAll(goo.Body)
	if err != nil {
		return nil, fmt.Errorf("blobstore: failed to read s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}
