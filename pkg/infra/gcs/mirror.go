package gcs

import (
	"context"
	"io"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/domain/interfaces"
	"google.golang.org/api/option"
)

type config struct {
	prefix   string
	endpoint string
}

// Option configures the mirror
type Option func(*config)

// WithPrefix places objects under prefix in the bucket
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithEndpoint points the client at an emulator. Authentication is disabled.
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

// Mirror uploads saved packages to a Cloud Storage bucket
type Mirror struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.Mirror = (*Mirror)(nil)

// New creates a Cloud Storage mirror for bucket
func New(ctx context.Context, bucket string, opts ...Option) (*Mirror, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var clientOpts []option.ClientOption
	if cfg.endpoint != "" {
		clientOpts = append(clientOpts,
			option.WithEndpoint(cfg.endpoint),
			option.WithoutAuthentication(),
		)
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &Mirror{
		client: client,
		bucket: bucket,
		prefix: cfg.prefix,
	}, nil
}

// ObjectName returns the object key used for a package file name
func (m *Mirror) ObjectName(name string) string {
	if m.prefix == "" {
		return name
	}
	return path.Join(m.prefix, name)
}

// Upload copies localPath to the bucket and returns its gs:// URL
func (m *Mirror) Upload(ctx context.Context, localPath, name string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open package", goerr.V("path", localPath))
	}
	defer f.Close()

	objName := m.ObjectName(name)
	w := m.client.Bucket(m.bucket).Object(objName).NewWriter(ctx)
	w.ContentType = "application/octet-stream"

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to upload package",
			goerr.V("bucket", m.bucket),
			goerr.V("object", objName),
		)
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize upload",
			goerr.V("bucket", m.bucket),
			goerr.V("object", objName),
		)
	}

	return "gs://" + m.bucket + "/" + objName, nil
}

// Close releases the storage client
func (m *Mirror) Close() error {
	return m.client.Close()
}
