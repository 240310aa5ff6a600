// Package awsprovider implements the two capability handles the
// orchestrator consumes against real AWS services: S3 for object storage
// and Amazon Transcribe for the transcription provider.
package awsprovider

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"transcribebatch/pkg/logger"
)

// S3ObjectStore implements transcribe.ObjectStore against an S3 bucket.
type S3ObjectStore struct {
	client *s3.Client
}

// NewS3ObjectStore builds an S3ObjectStore around an S3 client.
func NewS3ObjectStore(client *s3.Client) *S3ObjectStore {
	return &S3ObjectStore{client: client}
}

// Upload streams localPath to bucket/key with the given canned ACL.
func (s *S3ObjectStore) Upload(ctx context.Context, localPath, bucket, key, acl string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %q: %w", localPath, err)
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
		ACL:    types.ObjectCannedACL(acl),
	})
	if err != nil {
		return fmt.Errorf("put object s3://%s/%s: %w", bucket, key, err)
	}

	logger.Debug("uploaded to s3", "bucket", bucket, "key", key)
	return nil
}
