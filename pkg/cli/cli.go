package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/kbfetch/pkg/cli/config"
	"github.com/m-mizutani/kbfetch/pkg/domain/types"
	"github.com/m-mizutani/kbfetch/pkg/utils/errutil"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg   config.Logger
		sentryCfg   config.Sentry
		fetchCfg    fetchConfig
		profilePath string
		profile     config.Profile
		logger      *slog.Logger
	)

	serve := cmdServe(&fetchCfg, &profile)

	var flags []cli.Flag
	flags = append(flags, config.ProfileFlag(&profilePath))
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, fetchCfg.Flags()...)

	app := &cli.Command{
		Name:    "kbfetch",
		Usage:   "Fetch a Windows patch package from the Microsoft Update Catalog",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			if profile, err = config.LoadProfile(profilePath); err != nil {
				return nil, err
			}
			if err := profile.Check(c.Flags, serve.Flags); err != nil {
				return nil, err
			}
			if err := profile.Apply(c); err != nil {
				return nil, err
			}

			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			slog.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			errutil.Flush()
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runFetch(ctx, &fetchCfg)
		},
		Commands: []*cli.Command{
			serve,
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
