package sources

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"parcel/internal/utils"
)

// S3Source serves s3://bucket/key URLs through the same RemoteFile
// contract as plain HTTP. The AWS client is built lazily from the
// shared config profile on first use.
type S3Source struct {
	once   sync.Once
	client *s3.Client
	err    error
}

func (s *S3Source) getClient(ctx context.Context) (*s3.Client, error) {
	s.once.Do(func() {
		profile := os.Getenv("AWS_PROFILE")
		if profile == "" {
			profile = "default"
		}
		cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile), config.WithRetryMode("adaptive"))
		if err != nil {
			s.err = fmt.Errorf("error loading AWS config: %v", err)
			return
		}
		s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.DisableLogOutputChecksumValidationSkipped = true
		})
	})
	return s.client, s.err
}

func parseS3URL(rawURL string) (string, string, error) {
	trimmed := strings.TrimPrefix(rawURL, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL %q, expected s3://bucket/key", rawURL)
	}
	return parts[0], parts[1], nil
}

func (s *S3Source) Open(ctx context.Context, rawURL string) (*RemoteFile, error) {
	bucket, key, err := parseS3URL(rawURL)
	if err != nil {
		return nil, &utils.NetworkError{URL: rawURL, Err: err}
	}
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, &utils.NetworkError{URL: rawURL, Err: err}
	}
	headObj, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &utils.NetworkError{URL: rawURL, Err: err}
	}
	var size int64
	if headObj.ContentLength != nil {
		size = *headObj.ContentLength
	}
	obj, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &utils.NetworkError{URL: rawURL, Err: err}
	}
	return &RemoteFile{
		Name: utils.SanitizeFileName(path.Base(key)),
		Size: size,
		Body: obj.Body,
	}, nil
}
