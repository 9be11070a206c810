package interfaces

import (
	"context"
	"time"

	"github.com/m-mizutani/kbfetch/pkg/domain/model"
)

// BrowserLauncher starts a browser with a fresh browsing context.
type BrowserLauncher interface {
	Launch(ctx context.Context, opts model.LaunchOptions) (BrowserSession, error)
}

// BrowserSession owns one browser process, one browsing context and its page.
type BrowserSession interface {
	// Page returns the page opened with the session
	Page() Page

	// Close releases the browsing context, then the browser
	Close() error
}

// Page is the set of UI interactions the fetch flow needs.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, loc model.Locator) error
	Fill(ctx context.Context, loc model.Locator, text string) error

	// WaitVisible reports whether loc became visible within timeout. Running
	// out of time is not an error.
	WaitVisible(ctx context.Context, loc model.Locator, timeout time.Duration) (bool, error)

	// ClickPopup clicks loc and returns the window opened by the click once it
	// has loaded.
	ClickPopup(ctx context.Context, loc model.Locator) (Page, error)

	Attribute(ctx context.Context, loc model.Locator, name string) (string, error)
}
