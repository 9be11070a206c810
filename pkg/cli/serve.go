package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/cli/config"
	controller "github.com/m-mizutani/kbfetch/pkg/controller/http"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(fetchCfg *fetchConfig, profile *config.Profile) *cli.Command {
	var serverCfg config.Server

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server accepting fetch requests",
		Flags:   serverCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := profile.Apply(c); err != nil {
				return nil, err
			}
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			fetchUC, cleanup, err := fetchCfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			defaults, err := fetchCfg.fetch.Request(time.Now())
			if err != nil {
				return err
			}

			logger.Info("Starting kbfetch server",
				slog.String("addr", serverCfg.Addr),
				slog.Bool("signature_required", serverCfg.Secret != ""),
			)

			server, err := controller.NewServer(
				ctx,
				fetchUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithSecret(serverCfg.Secret),
				controller.WithDefaults(*defaults),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
