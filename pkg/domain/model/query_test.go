package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
)

func TestSearchQuery_Text(t *testing.T) {
	tests := []struct {
		month   string
		keyword string
		want    string
	}{
		{"2023-06", "Cumulative Update for Windows Server 2016 for x64-based Systems", "2023-06 Cumulative Update for Windows Server 2016 for x64-based Systems"},
		{"2024-01", "  padded  keyword ", "2024-01   padded  keyword "},
		{"2024-01", "", "2024-01 "},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			q, err := model.NewSearchQuery(tt.month, tt.keyword)
			gt.NoError(t, err)
			gt.Value(t, q.Text()).Equal(tt.want)
		})
	}
}

func TestNewSearchQuery_InvalidMonth(t *testing.T) {
	for _, month := range []string{"", "2023", "2023-13", "06-2023", "2023/06", "June"} {
		t.Run(month, func(t *testing.T) {
			q, err := model.NewSearchQuery(month, "k")
			gt.Error(t, err)
			gt.Value(t, q).Nil()
		})
	}
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)
	gt.Value(t, model.CurrentMonth(now)).Equal("2026-10")
}

func TestLocator_String(t *testing.T) {
	catalog := model.NewCatalog("https://catalog.example.com/")

	gt.Value(t, catalog.RootURL).Equal("https://catalog.example.com/")
	gt.Value(t, catalog.HomeURL).Equal("https://catalog.example.com/Home.aspx")
	gt.Value(t, catalog.SearchReveal.String()).Equal(`row[name="Search Search" s] >> cell[name="Search Search" i]`)
	gt.Value(t, catalog.NoResults.String()).Equal("span#ctl00_catalogBody_noResultText")
	gt.Number(t, len(catalog.SearchReveal.Chain())).Equal(2)
}

func TestLocator_Exactness(t *testing.T) {
	catalog := model.NewCatalog("https://catalog.example.com")

	chain := catalog.SearchReveal.Chain()
	gt.Value(t, chain[0].Role).Equal("row")
	gt.Value(t, chain[0].Exact).Equal(true)
	gt.Value(t, chain[1].Role).Equal("cell")
	gt.Value(t, chain[1].Exact).Equal(false)

	gt.Value(t, catalog.SearchBox.Exact).Equal(false)
	gt.Value(t, catalog.SearchButton.Exact).Equal(false)
	gt.Value(t, catalog.SearchButton.String()).Equal(`button[name="Search" i]`)

	loc := model.ByRole("button", "Download")
	gt.Value(t, loc.Exactly().Exact).Equal(true)
	gt.Value(t, loc.Exact).Equal(false)
}
