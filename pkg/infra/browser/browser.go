// Package browser drives Chrome through go-rod for the catalog flow.
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
	"github.com/m-mizutani/kbfetch/pkg/domain/types"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
)

type config struct {
	remoteURL     string
	bin           string
	stealth       bool
	actionTimeout time.Duration
}

// Option configures the Launcher
type Option func(*config)

// WithRemoteURL connects to an already running Chrome (DevTools websocket URL)
// instead of launching a local one
func WithRemoteURL(u string) Option {
	return func(c *config) {
		c.remoteURL = u
	}
}

// WithBin sets the Chrome executable. Empty lets rod find or download one.
func WithBin(path string) Option {
	return func(c *config) {
		c.bin = path
	}
}

// WithStealth opens pages with go-rod/stealth evasions applied
func WithStealth(enabled bool) Option {
	return func(c *config) {
		c.stealth = enabled
	}
}

// WithActionTimeout bounds navigation, click, fill and attribute reads
func WithActionTimeout(d time.Duration) Option {
	return func(c *config) {
		c.actionTimeout = d
	}
}

// Launcher starts Chrome sessions
type Launcher struct {
	cfg config
}

var _ interfaces.BrowserLauncher = (*Launcher)(nil)

// New creates a Launcher
func New(opts ...Option) *Launcher {
	cfg := config{
		actionTimeout: types.DefaultActionTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Launcher{cfg: cfg}
}

// Launch starts (or connects to) Chrome, opens an incognito browsing context
// and a page inside it.
func (l *Launcher) Launch(ctx context.Context, opts model.LaunchOptions) (interfaces.BrowserSession, error) {
	logger := logging.From(ctx)
	s := &session{}

	wsURL := l.cfg.remoteURL
	if wsURL == "" {
		lnch := launcher.New().
			Context(ctx).
			Headless(opts.Headless).
			Set("disable-blink-features", "AutomationControlled")
		if l.cfg.bin != "" {
			lnch = lnch.Bin(l.cfg.bin)
		}

		u, err := lnch.Launch()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to launch chrome", goerr.V("bin", l.cfg.bin))
		}
		wsURL = u
		s.launcher = lnch
		logger.Debug("Launched local chrome", "url", wsURL, "headless", opts.Headless)
	} else {
		logger.Debug("Connecting to remote chrome", "url", wsURL)
	}

	s.browser = rod.New().ControlURL(wsURL)
	if err := s.browser.Connect(); err != nil {
		s.cleanupLauncher()
		return nil, goerr.Wrap(err, "failed to connect chrome", goerr.V("url", wsURL))
	}
	s.remote = l.cfg.remoteURL != ""

	incognito, err := s.browser.Incognito()
	if err != nil {
		_ = s.Close()
		return nil, goerr.Wrap(err, "failed to create browsing context")
	}
	s.context = incognito

	var p *rod.Page
	if l.cfg.stealth {
		p, err = stealth.Page(incognito)
	} else {
		p, err = incognito.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = s.Close()
		return nil, goerr.Wrap(err, "failed to open page")
	}
	s.page = &page{page: p, actionTimeout: l.cfg.actionTimeout}

	return s, nil
}

type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	context  *rod.Browser
	page     *page
	remote   bool
}

func (s *session) Page() interfaces.Page {
	return s.page
}

// Close disposes the browsing context, then the browser. A remote browser is
// left running.
func (s *session) Close() error {
	var errs []error
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, goerr.Wrap(err, "failed to close browsing context"))
		}
		s.context = nil
	}
	if s.browser != nil && !s.remote {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, goerr.Wrap(err, "failed to close browser"))
		}
	}
	s.browser = nil
	s.cleanupLauncher()
	return errors.Join(errs...)
}

func (s *session) cleanupLauncher() {
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

type page struct {
	page          *rod.Page
	actionTimeout time.Duration
}

func (p *page) Navigate(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.actionTimeout)
	defer cancel()

	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return goerr.Wrap(err, "failed to navigate", goerr.V("url", url))
	}
	if err := pg.WaitLoad(); err != nil {
		return goerr.Wrap(err, "failed to wait page load", goerr.V("url", url))
	}
	return nil
}

func (p *page) Click(ctx context.Context, loc model.Locator) error {
	ctx, cancel := context.WithTimeout(ctx, p.actionTimeout)
	defer cancel()

	el, err := resolve(ctx, p.page, loc)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return goerr.Wrap(err, "failed to click", goerr.V("locator", loc.String()))
	}
	return nil
}

func (p *page) Fill(ctx context.Context, loc model.Locator, text string) error {
	ctx, cancel := context.WithTimeout(ctx, p.actionTimeout)
	defer cancel()

	el, err := resolve(ctx, p.page, loc)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return goerr.Wrap(err, "failed to clear input", goerr.V("locator", loc.String()))
	}
	if err := el.Input(text); err != nil {
		return goerr.Wrap(err, "failed to input text", goerr.V("locator", loc.String()))
	}
	return nil
}

func (p *page) WaitVisible(ctx context.Context, loc model.Locator, timeout time.Duration) (bool, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := resolve(waitCtx, p.page, loc)
	if err == nil {
		err = el.WaitVisible()
	}

	visible, err := waitOutcome(ctx, err)
	if err != nil {
		return false, goerr.Wrap(err, "failed to wait for element", goerr.V("locator", loc.String()))
	}
	if !visible {
		logging.From(ctx).Debug("Element not visible before timeout", "locator", loc.String(), "timeout", timeout)
	}
	return visible, nil
}

// waitOutcome classifies the error of a bounded wait. Only the wait's own
// deadline means "not visible"; a done parent ctx or any other failure is
// returned as is.
func waitOutcome(parent context.Context, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case parent.Err() == nil && errors.Is(err, context.DeadlineExceeded):
		return false, nil
	default:
		return false, err
	}
}

func (p *page) ClickPopup(ctx context.Context, loc model.Locator) (interfaces.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, p.actionTimeout)
	defer cancel()

	el, err := resolve(ctx, p.page, loc)
	if err != nil {
		return nil, err
	}

	// Subscribe before clicking so the target-created event is not missed.
	wait := p.page.Context(ctx).WaitOpen()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, goerr.Wrap(err, "failed to click", goerr.V("locator", loc.String()))
	}

	popup, err := wait()
	if err != nil {
		return nil, goerr.Wrap(err, "popup did not open", goerr.V("locator", loc.String()))
	}
	if err := popup.Context(ctx).WaitLoad(); err != nil {
		return nil, goerr.Wrap(err, "failed to wait popup load")
	}

	return &page{page: popup, actionTimeout: p.actionTimeout}, nil
}

func (p *page) Attribute(ctx context.Context, loc model.Locator, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.actionTimeout)
	defer cancel()

	el, err := resolve(ctx, p.page, loc)
	if err != nil {
		return "", err
	}
	v, err := el.Attribute(name)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read attribute", goerr.V("locator", loc.String()), goerr.V("name", name))
	}
	if v == nil {
		return "", goerr.New("attribute is not set", goerr.V("locator", loc.String()), goerr.V("name", name))
	}
	return *v, nil
}
