package source

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ajitpratap0/rowbridge/pkg/config"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

const defaultDownloadPartSize = 8 * 1024 * 1024 // 8MB

// S3Store downloads objects with the S3 transfer manager, fetching parts
// concurrently into memory.
type S3Store struct {
	client     *s3.Client
	downloader *manager.Downloader
}

// NewS3Store loads the default AWS configuration chain. A configured endpoint
// switches the client to path-style addressing for S3-compatible stores.
func NewS3Store(ctx context.Context, cfg config.SourceConfig) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeConfig, "failed to load AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client: client,
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.PartSize = defaultDownloadPartSize
		}),
	}, nil
}

// Fetch downloads bucket/key.
func (s *S3Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to download S3 object").
			WithDetail("bucket", bucket).
			WithDetail("key", key)
	}
	return buf.Bytes()[:n], nil
}

func (s *S3Store) Close() error { return nil }
