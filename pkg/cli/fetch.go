package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/cli/config"
	"github.com/m-mizutani/kbfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
	"github.com/m-mizutani/kbfetch/pkg/usecase"
	"github.com/m-mizutani/kbfetch/pkg/utils/errutil"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// fetchConfig groups everything needed to build the fetch use case
type fetchConfig struct {
	fetch   config.Fetch
	browser config.Browser
	notify  config.Notify
	storage config.Storage
}

func (c *fetchConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, c.fetch.Flags()...)
	flags = append(flags, c.browser.Flags()...)
	flags = append(flags, c.notify.Flags()...)
	flags = append(flags, c.storage.Flags()...)
	return flags
}

// newUseCase builds the fetch use case. The returned cleanup releases the
// mirror client.
func (c *fetchConfig) newUseCase(ctx context.Context) (interfaces.FetchUseCase, func(), error) {
	if err := c.fetch.Validate(); err != nil {
		return nil, nil, err
	}

	opts := []usecase.FetchOption{
		usecase.WithCatalog(model.NewCatalog(c.fetch.CatalogURL)),
		usecase.WithWaitTimeout(c.fetch.WaitTimeout),
	}
	if n := c.notify.Notifier(); n != nil {
		opts = append(opts, usecase.WithNotifier(n))
	}

	cleanup := func() {}
	mirror, err := c.storage.Mirror(ctx)
	if err != nil {
		return nil, nil, err
	}
	if mirror != nil {
		opts = append(opts, usecase.WithMirror(mirror))
		cleanup = func() {
			if err := mirror.Close(); err != nil {
				logging.From(ctx).Warn("Failed to close storage client", "error", err)
			}
		}
	}

	return usecase.NewFetch(c.browser.Launcher(), opts...), cleanup, nil
}

func runFetch(ctx context.Context, cfg *fetchConfig) error {
	uc, cleanup, err := cfg.newUseCase(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	req, err := cfg.fetch.Request(time.Now())
	if err != nil {
		return err
	}

	result, err := safeFetch(ctx, uc, req)
	if err != nil {
		errutil.Handle(ctx, model.OutcomeUnhandled.Describe(), err)
	}
	printSummary(os.Stdout, result)

	if cfg.fetch.FailOnError && !result.Outcome.Succeeded() {
		return goerr.New("no package was saved",
			goerr.V("outcome", result.Outcome),
			goerr.V("run_id", result.RunID),
		)
	}
	return nil
}

// safeFetch turns a panic inside the flow into the unhandled outcome.
func safeFetch(ctx context.Context, uc interfaces.FetchUseCase, req *model.FetchRequest) (result *model.FetchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errutil.FromPanic(r)
			result = &model.FetchResult{
				RunID:   req.RunID,
				Query:   req.Query,
				Outcome: model.OutcomeUnhandled,
			}
		}
	}()

	return uc.Fetch(ctx, req)
}

func printSummary(w io.Writer, result *model.FetchResult) {
	mark := color.New(color.FgGreen, color.Bold)
	switch result.Outcome {
	case model.OutcomeSuccess:
	case model.OutcomeUnhandled, model.OutcomeHTTPFailure:
		mark = color.New(color.FgRed, color.Bold)
	default:
		mark = color.New(color.FgYellow, color.Bold)
	}

	detail := result.Query.Text()
	if result.SavedPath != "" {
		detail = result.SavedPath
	}
	fmt.Fprintf(w, "%s %s (%s)\n", mark.Sprint(result.Outcome), detail, result.Duration.Round(time.Millisecond))
}
