package types

import "time"

// Version is overwritten at build time with -ldflags.
var Version = "dev"

const (
	// DefaultWaitTimeout bounds every wait for a catalog UI element.
	DefaultWaitTimeout = 3000 * time.Millisecond

	// DefaultActionTimeout bounds navigation, click and fill.
	DefaultActionTimeout = 30 * time.Second

	DefaultSearchKeyword = "Cumulative Update for Windows Server 2016 for x64-based Systems"
	DefaultDownloadPath  = `c:\cdrive`
	DefaultCatalogURL    = "https://www.catalog.update.microsoft.com"
)
