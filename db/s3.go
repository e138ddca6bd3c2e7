package db

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/snapbooth/snapbooth/config"
)

// ObjectStore wraps the S3 bucket holding full-size photos and thumbnails.
type ObjectStore struct {
	client *s3.Client
	bucket string
	region string
}

func NewObjectStore(c *config.Config) (*ObjectStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(c.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AWSAccessKeyID,
			c.AWSSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %v", err)
	}

	return &ObjectStore{
		client: s3.NewFromConfig(cfg),
		bucket: c.AWSBucket,
		region: c.AWSRegion,
	}, nil
}

// UploadBytes stores payload under key and returns the key as the durable
// reference. Objects are public-read; the gallery resolves display URLs from
// the key.
func (s *ObjectStore) UploadBytes(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	putObjectInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	}

	_, err := s.client.PutObject(ctx, putObjectInput)
	if err != nil {
		return "", fmt.Errorf("failed to upload object to S3: %v", err)
	}

	return key, nil
}

func (s *ObjectStore) DeleteObject(ctx context.Context, reference string) error {
	key := s.keyFromReference(reference)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %v", err)
	}
	return nil
}

// ResolvePublicURL maps a stored reference to something a browser can load.
// Fully-qualified references pass through untouched; bare keys get the
// bucket's public URL prefix.
func (s *ObjectStore) ResolvePublicURL(reference string) string {
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return reference
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, reference)
}

// keyFromReference recovers the object key from either form of reference.
func (s *ObjectStore) keyFromReference(reference string) string {
	if !strings.HasPrefix(reference, "http://") && !strings.HasPrefix(reference, "https://") {
		return reference
	}
	u, err := url.Parse(reference)
	if err != nil {
		return reference
	}
	return strings.TrimPrefix(u.Path, "/")
}
