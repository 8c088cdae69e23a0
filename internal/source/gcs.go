package source

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/rowbridge/pkg/config"
	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

// GCSStore reads objects from Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore creates a client from application default credentials, or from
// the configured key file. A configured endpoint disables authentication, as
// used by local emulators.
func NewGCSStore(ctx context.Context, cfg config.SourceConfig) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeConfig, "failed to create GCS client")
	}
	return &GCSStore{client: client}, nil
}

// Fetch reads bucket/object in full.
func (g *GCSStore) Fetch(ctx context.Context, bucket, object string) ([]byte, error) {
	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to open GCS object").
			WithDetail("bucket", bucket).
			WithDetail("object", object)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, rowerrors.Wrap(err, rowerrors.ErrorTypeFile, "failed to read GCS object").
			WithDetail("bucket", bucket).
			WithDetail("object", object)
	}
	return data, nil
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}
