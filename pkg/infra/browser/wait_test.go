package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestWaitOutcome(t *testing.T) {
	alive := context.Background()

	t.Run("found", func(t *testing.T) {
		visible, err := waitOutcome(alive, nil)
		gt.NoError(t, err)
		gt.True(t, visible)
	})

	t.Run("own deadline is not visible", func(t *testing.T) {
		waitCtx, cancel := context.WithTimeout(alive, time.Millisecond)
		defer cancel()
		<-waitCtx.Done()

		wrapped := goerr.Wrap(waitCtx.Err(), "element not found", goerr.V("locator", "span#x"))
		visible, err := waitOutcome(alive, wrapped)
		gt.NoError(t, err)
		gt.Value(t, visible).Equal(false)
	})

	t.Run("cancelled parent stays an error", func(t *testing.T) {
		parent, cancel := context.WithCancel(alive)
		cancel()

		wrapped := goerr.Wrap(context.DeadlineExceeded, "element not found")
		visible, err := waitOutcome(parent, wrapped)
		gt.Error(t, err)
		gt.Value(t, visible).Equal(false)
	})

	t.Run("expired parent stays an error", func(t *testing.T) {
		parent, cancel := context.WithTimeout(alive, time.Millisecond)
		defer cancel()
		<-parent.Done()

		visible, err := waitOutcome(parent, goerr.Wrap(parent.Err(), "element not found"))
		gt.Error(t, err)
		gt.Value(t, visible).Equal(false)
	})

	t.Run("other failure stays an error", func(t *testing.T) {
		cause := errors.New("websocket closed")
		visible, err := waitOutcome(alive, goerr.Wrap(cause, "element not found"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, cause))
		gt.Value(t, visible).Equal(false)
	})
}
