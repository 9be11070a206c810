package async

import (
	"context"

	"github.com/m-mizutani/kbfetch/pkg/utils/errutil"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine. The handler gets a background
// context that keeps the caller's logger but not its cancellation, so a
// fetch started by an HTTP request outlives the request. Panics and returned
// errors go to errutil.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Recovered(newCtx, "panic in async handler", r)
			}
		}()

		if err := handler(newCtx); err != nil {
			errutil.Handle(newCtx, "error in async handler", err)
		}
	}()
}

func newBackgroundContext(ctx context.Context) context.Context {
	return logging.With(context.Background(), logging.From(ctx))
}
