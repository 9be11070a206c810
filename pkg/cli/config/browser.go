package config

import (
	"time"

	"github.com/m-mizutani/kbfetch/pkg/domain/types"
	"github.com/m-mizutani/kbfetch/pkg/infra/browser"
	"github.com/urfave/cli/v3"
)

// Browser holds Chrome configuration
type Browser struct {
	RemoteURL     string
	Bin           string
	Stealth       bool
	ActionTimeout time.Duration
}

// Flags returns CLI flags for browser configuration
func (c *Browser) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "browser-remote",
			Usage:       "DevTools websocket URL of a running Chrome (default: launch a local one)",
			Destination: &c.RemoteURL,
			Sources:     cli.EnvVars("KBFETCH_BROWSER_REMOTE"),
		},
		&cli.StringFlag{
			Name:        "browser-bin",
			Usage:       "Path to the Chrome executable",
			Destination: &c.Bin,
			Sources:     cli.EnvVars("KBFETCH_BROWSER_BIN"),
		},
		&cli.BoolFlag{
			Name:        "browser-stealth",
			Usage:       "Apply anti-bot-detection evasions to the page",
			Destination: &c.Stealth,
			Sources:     cli.EnvVars("KBFETCH_BROWSER_STEALTH"),
		},
		&cli.DurationFlag{
			Name:        "action-timeout",
			Usage:       "Timeout of navigation, click and fill",
			Value:       types.DefaultActionTimeout,
			Destination: &c.ActionTimeout,
			Sources:     cli.EnvVars("KBFETCH_ACTION_TIMEOUT"),
		},
	}
}

// Launcher builds the browser launcher
func (c *Browser) Launcher() *browser.Launcher {
	return browser.New(
		browser.WithRemoteURL(c.RemoteURL),
		browser.WithBin(c.Bin),
		browser.WithStealth(c.Stealth),
		browser.WithActionTimeout(c.ActionTimeout),
	)
}
