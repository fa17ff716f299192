package connector

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/morgana/queryengine/engineerr"
)

// s3Store implements store over an S3 bucket through aws-sdk-go-v2.
type s3Store struct {
	client *s3.Client
}

func newS3Store(opts Options) (*s3Store, error) {
	ctx := context.Background()
	var optFns []func(*config.LoadOptions) error
	if opts.S3Region != "" {
		optFns = append(optFns, config.WithRegion(opts.S3Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, engineerr.IOf(err, "loading AWS config")
	}
	return &s3Store{client: s3.NewFromConfig(cfg)}, nil
}

// splitURI separates an "s3://bucket/key..." URI into bucket and key.
func splitURI(uri string) (bucket, key string) {
	rest := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		key = parts[1]
	}
	return bucket, key
}

func (s *s3Store) ReadFile(ctx context.Context, uri string) ([]byte, error) {
	r, err := s.OpenFile(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (s *s3Store) OpenFile(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key := splitURI(uri)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func (s *s3Store) ListDir(ctx context.Context, uri string) ([]string, error) {
	bucket, key := splitURI(uri)
	prefix := strings.TrimRight(key, "/") + "/"

	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}
	return names, nil
}
