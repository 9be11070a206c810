package config

import (
	"github.com/m-mizutani/kbfetch/pkg/domain/types"
	"github.com/m-mizutani/kbfetch/pkg/utils/errutil"
	"github.com/urfave/cli/v3"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `masq:"secret"`
	Env string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN to report unhandled errors",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("KBFETCH_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Value:       "production",
			Destination: &c.Env,
			Sources:     cli.EnvVars("KBFETCH_SENTRY_ENV"),
		},
	}
}

// Configure initializes the Sentry client. It is a no-op without DSN.
func (c *Sentry) Configure() error {
	return errutil.InitSentry(c.DSN, c.Env, types.Version)
}
