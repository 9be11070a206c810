package model

import "strings"

// Catalog describes the update catalog site: where to navigate and how to
// find each control the fetch flow touches.
type Catalog struct {
	RootURL string
	HomeURL string

	SearchReveal     Locator
	SearchBox        Locator
	SearchButton     Locator
	NoResults        Locator
	FirstRowDownload Locator
	PackageLink      Locator
}

// NewCatalog returns the catalog layout rooted at baseURL.
func NewCatalog(baseURL string) *Catalog {
	base := strings.TrimRight(baseURL, "/")

	return &Catalog{
		RootURL: base + "/",
		HomeURL: base + "/Home.aspx",

		SearchReveal: ByRole("cell", "Search Search").In(ByRole("row", "Search Search").Exactly()),
		SearchBox:    ByRole("textbox", "Search Search"),
		SearchButton: ByRole("button", "Search"),

		NoResults:        CSS("span#ctl00_catalogBody_noResultText"),
		FirstRowDownload: CSS("tr:nth-child(1) input[type='button'][value='Download']"),
		PackageLink:      CSS("#downloadFiles > div:nth-child(3) > a"),
	}
}
