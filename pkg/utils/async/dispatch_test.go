package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kbfetch/pkg/utils/async"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
)

// lockedBuffer collects log output written from the dispatched goroutine
type lockedBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (sb *lockedBuffer) Write(p []byte) (int, error) {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.Write(p)
}

func (sb *lockedBuffer) String() string {
	sb.m.Lock()
	defer sb.m.Unlock()
	return sb.b.String()
}

// notifyHandler signals every time an error record is written
type notifyHandler struct {
	slog.Handler
	written chan struct{}
}

func (h *notifyHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.Handler.Handle(ctx, r)
	select {
	case h.written <- struct{}{}:
	default:
	}
	return err
}

func newLoggedContext(ctx context.Context) (context.Context, *lockedBuffer, chan struct{}) {
	buf := &lockedBuffer{}
	h := &notifyHandler{
		Handler: slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelError}),
		written: make(chan struct{}, 1),
	}
	return logging.With(ctx, slog.New(h)), buf, h.written
}

func waitLog(t *testing.T, written chan struct{}) {
	t.Helper()
	select {
	case <-written:
	case <-time.After(time.Second):
		t.Fatal("log was not written within timeout")
	}
}

func TestDispatch(t *testing.T) {
	t.Run("runs the handler", func(t *testing.T) {
		done := make(chan string, 1)
		async.Dispatch(context.Background(), func(ctx context.Context) error {
			done <- "2023-06"
			return nil
		})

		select {
		case month := <-done:
			gt.Value(t, month).Equal("2023-06")
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})

	t.Run("logs returned errors", func(t *testing.T) {
		ctx, buf, written := newLoggedContext(context.Background())

		async.Dispatch(ctx, func(ctx context.Context) error {
			return errors.New("browser launch failed")
		})

		waitLog(t, written)
		gt.String(t, buf.String()).Contains("error in async handler")
		gt.String(t, buf.String()).Contains("browser launch failed")
	})

	t.Run("recovers from panic with stack", func(t *testing.T) {
		ctx, buf, written := newLoggedContext(context.Background())

		async.Dispatch(ctx, func(ctx context.Context) error {
			panic("nil page")
		})

		waitLog(t, written)
		out := buf.String()
		gt.String(t, out).Contains("panic in async handler")
		gt.String(t, out).Contains("nil page")
		gt.String(t, out).Contains("dispatch_test.go")
	})

	t.Run("outlives the caller context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ctx = logging.With(ctx, slog.Default())

		result := make(chan error, 1)
		async.Dispatch(ctx, func(newCtx context.Context) error {
			cancel()
			gt.NotNil(t, logging.From(newCtx))
			result <- newCtx.Err()
			return nil
		})

		select {
		case err := <-result:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})
}
