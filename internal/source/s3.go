package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"zarrsum/internal/progress"
)

// S3 enumerates a store held as objects under a bucket prefix. Object
// ETags double as content digests, which for single-part uploads equals
// the md5 a local run computes for the same file.
type S3 struct {
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
	Bar       *progress.Bar

	client listObjectsClient
}

type listObjectsClient interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

func (s *S3) connect(ctx context.Context) (listObjectsClient, error) {
	if s.client != nil {
		return s.client, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.Region)}
	if s.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (s *S3) Leaves(ctx context.Context, out chan<- Leaf) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}

	// All listing happens under the slash-terminated prefix. A raw
	// prefix is a plain string match in S3, so "store/x.zarr" would also
	// list a sibling "store/x.zarr.bak/" and fold foreign objects into
	// the checksum.
	listPrefix := dirPrefix(s.Prefix)

	// Probe first: a typo'd or truncated prefix lists nothing, which
	// callers should read as a usage hint rather than a failure.
	probe, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.Bucket),
		Prefix:  aws.String(listPrefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to list bucket %s: %w", s.Bucket, err)
	}
	if len(probe.Contents) == 0 {
		fmt.Fprintf(os.Stderr, "warning: no objects found under prefix %q; check that it is the fully qualified path to the store root\n", s.Prefix)
		return nil
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(listPrefix),
	}
	for {
		page, err := client.ListObjectsV2(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to list bucket %s: %w", s.Bucket, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				// Zero-byte directory placeholder, not a file.
				continue
			}
			if listPrefix != "" && !strings.HasPrefix(key, listPrefix) {
				return fmt.Errorf("object key %q lies outside store prefix %q", key, listPrefix)
			}
			leaf := Leaf{
				Path:   relativeKey(key, listPrefix),
				Size:   aws.ToInt64(obj.Size),
				Digest: strings.Trim(aws.ToString(obj.ETag), `"`),
			}
			select {
			case out <- leaf:
			case <-ctx.Done():
				return ctx.Err()
			}
			if s.Bar != nil {
				s.Bar.Increment()
			}
		}

		if page.NextContinuationToken == nil {
			return nil
		}
		input.ContinuationToken = page.NextContinuationToken
	}
}

// relativeKey strips the store prefix from an object key.
func relativeKey(key, prefix string) string {
	rel := strings.TrimPrefix(key, prefix)
	return strings.TrimPrefix(rel, "/")
}

// dirPrefix terminates a non-empty prefix with a slash.
func dirPrefix(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
