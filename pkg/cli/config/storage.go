package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/infra/gcs"
	"github.com/urfave/cli/v3"
)

// Storage holds the Cloud Storage mirror configuration
type Storage struct {
	Bucket   string
	Prefix   string
	Endpoint string
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket to mirror saved packages into",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("KBFETCH_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Destination: &c.Prefix,
			Sources:     cli.EnvVars("KBFETCH_GCS_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "gcs-endpoint",
			Usage:       "Storage API endpoint, for emulators",
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("KBFETCH_GCS_ENDPOINT"),
		},
	}
}

// Mirror returns nil when no bucket is configured
func (c *Storage) Mirror(ctx context.Context) (*gcs.Mirror, error) {
	if c.Bucket == "" {
		return nil, nil
	}

	opts := []gcs.Option{gcs.WithPrefix(c.Prefix)}
	if c.Endpoint != "" {
		opts = append(opts, gcs.WithEndpoint(c.Endpoint))
	}

	m, err := gcs.New(ctx, c.Bucket, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set up mirror", goerr.V("bucket", c.Bucket))
	}
	return m, nil
}
