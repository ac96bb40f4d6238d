package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Reader implements Reader for s3://bucket/key locations
type S3Reader struct {
	s3 objectGetter
}

func NewS3Reader(s3Client objectGetter) *S3Reader {
	return &S3Reader{s3: s3Client}
}

func (s *S3Reader) Read(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from S3: %w", location, err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// ParseS3Location splits s3://bucket/key into its bucket and key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("location %q is not an s3:// url", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("location %q must be s3://bucket/key", location)
	}
	return bucket, key, nil
}
