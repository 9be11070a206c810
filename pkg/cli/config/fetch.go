package config

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
	"github.com/m-mizutani/kbfetch/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Fetch holds the search and download parameters of a run
type Fetch struct {
	Search       string
	Month        string
	DownloadPath string
	Headless     string
	WaitTimeout  time.Duration
	CatalogURL   string
	FailOnError  bool
}

// Flags returns CLI flags for the fetch run
func (c *Fetch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "search",
			Usage:       "Search keyword",
			Value:       types.DefaultSearchKeyword,
			Destination: &c.Search,
			Sources:     cli.EnvVars("KBFETCH_SEARCH"),
		},
		&cli.StringFlag{
			Name:        "month",
			Usage:       "Month in format YYYY-MM (default: current month)",
			Destination: &c.Month,
			Sources:     cli.EnvVars("KBFETCH_MONTH"),
		},
		&cli.StringFlag{
			Name:        "downloadpath",
			Usage:       "Download path (must exist)",
			Value:       types.DefaultDownloadPath,
			Destination: &c.DownloadPath,
			Sources:     cli.EnvVars("KBFETCH_DOWNLOAD_PATH"),
		},
		&cli.StringFlag{
			Name:        "headless",
			Usage:       "Run in headless mode (True or False)",
			Value:       "True",
			Destination: &c.Headless,
			Sources:     cli.EnvVars("KBFETCH_HEADLESS"),
		},
		&cli.DurationFlag{
			Name:        "wait-timeout",
			Usage:       "Timeout of each wait for a catalog element",
			Value:       types.DefaultWaitTimeout,
			Destination: &c.WaitTimeout,
			Sources:     cli.EnvVars("KBFETCH_WAIT_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "catalog-url",
			Usage:       "Base URL of the update catalog",
			Value:       types.DefaultCatalogURL,
			Destination: &c.CatalogURL,
			Sources:     cli.EnvVars("KBFETCH_CATALOG_URL"),
		},
		&cli.BoolFlag{
			Name:        "fail-on-error",
			Usage:       "Exit with non-zero status unless the package was saved",
			Destination: &c.FailOnError,
			Sources:     cli.EnvVars("KBFETCH_FAIL_ON_ERROR"),
		},
	}
}

// IsHeadless parses the headless flag. Only True and False are accepted.
func (c *Fetch) IsHeadless() (bool, error) {
	switch {
	case strings.EqualFold(c.Headless, "true"):
		return true, nil
	case strings.EqualFold(c.Headless, "false"):
		return false, nil
	default:
		return false, goerr.New("headless must be True or False", goerr.V("headless", c.Headless))
	}
}

// Validate checks values that must be rejected before the browser starts.
// The month is checked later by the fetch itself.
func (c *Fetch) Validate() error {
	if _, err := c.IsHeadless(); err != nil {
		return err
	}
	if c.WaitTimeout <= 0 {
		return goerr.New("wait-timeout must be positive", goerr.V("wait_timeout", c.WaitTimeout))
	}
	if c.CatalogURL == "" {
		return goerr.New("catalog-url is required")
	}
	return nil
}

// Request builds the fetch request. An empty month means the month of now.
func (c *Fetch) Request(now time.Time) (*model.FetchRequest, error) {
	headless, err := c.IsHeadless()
	if err != nil {
		return nil, err
	}

	month := c.Month
	if month == "" {
		month = model.CurrentMonth(now)
	}

	return &model.FetchRequest{
		Query: model.SearchQuery{
			Month:   month,
			Keyword: c.Search,
		},
		DownloadPath: c.DownloadPath,
		Launch: model.LaunchOptions{
			Headless: headless,
		},
	}, nil
}
