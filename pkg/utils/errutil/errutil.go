// Package errutil is the single sink for errors nobody up the stack can handle.
package errutil

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
)

var sentryEnabled bool

// InitSentry enables error reporting. An empty dsn leaves it disabled.
func InitSentry(dsn, env, release string) error {
	if dsn == "" {
		return nil
	}

	return initSentry(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	})
}

func initSentry(opts sentry.ClientOptions) error {
	if err := sentry.Init(opts); err != nil {
		return goerr.Wrap(err, "failed to initialize sentry")
	}
	sentryEnabled = true
	return nil
}

// Flush waits for buffered Sentry events.
func Flush() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

// Handle logs err with its goerr values and stack, and sends it to Sentry.
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	attrs := []any{slog.Any("error", err)}
	if gErr := goerr.Unwrap(err); gErr != nil {
		for k, v := range gErr.Values() {
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	logging.From(ctx).Error(msg, attrs...)

	if !sentryEnabled {
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
		if gErr := goerr.Unwrap(err); gErr != nil {
			scope.SetContext("goerr", sentry.Context(gErr.Values()))
		}
	})
	if evID := hub.CaptureException(err); evID != nil {
		logging.From(ctx).Debug("error reported to sentry", "event_id", string(*evID))
	}
}

// FromPanic converts a recovered panic value into an error with the stack
// attached. Call it from the deferred function that recovered.
func FromPanic(r any) error {
	return goerr.New(fmt.Sprintf("panic: %v", r), goerr.V("stack", string(debug.Stack())))
}

// Recovered passes a recovered panic value to Handle.
func Recovered(ctx context.Context, msg string, r any) error {
	err := FromPanic(r)
	Handle(ctx, msg, err)
	return err
}
