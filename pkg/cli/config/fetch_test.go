package config_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kbfetch/pkg/cli/config"
)

func TestFetch_IsHeadless(t *testing.T) {
	testCases := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{value: "True", want: true},
		{value: "False", want: false},
		{value: "true", want: true},
		{value: "false", want: false},
		{value: "yes", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			cfg := &config.Fetch{Headless: tc.value}
			got, err := cfg.IsHeadless()
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestFetch_Validate(t *testing.T) {
	valid := config.Fetch{
		Headless:    "True",
		WaitTimeout: time.Second,
		CatalogURL:  "https://catalog.test",
	}
	gt.NoError(t, valid.Validate())

	noTimeout := valid
	noTimeout.WaitTimeout = 0
	gt.Error(t, noTimeout.Validate())

	noCatalog := valid
	noCatalog.CatalogURL = ""
	gt.Error(t, noCatalog.Validate())

	badHeadless := valid
	badHeadless.Headless = "maybe"
	gt.Error(t, badHeadless.Validate())
}

func TestFetch_Request(t *testing.T) {
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

	t.Run("defaults month to now", func(t *testing.T) {
		cfg := &config.Fetch{
			Search:       "Cumulative Update",
			DownloadPath: "/tmp/patches",
			Headless:     "False",
		}
		req, err := cfg.Request(now)
		gt.NoError(t, err)
		gt.Value(t, req.Query.Month).Equal("2024-03")
		gt.Value(t, req.Query.Keyword).Equal("Cumulative Update")
		gt.Value(t, req.DownloadPath).Equal("/tmp/patches")
		gt.Value(t, req.Launch.Headless).Equal(false)
	})

	t.Run("keeps explicit month unvalidated", func(t *testing.T) {
		cfg := &config.Fetch{Month: "2023-13", Headless: "True"}
		req, err := cfg.Request(now)
		gt.NoError(t, err)
		gt.Value(t, req.Query.Month).Equal("2023-13")
		gt.Error(t, req.Query.Validate())
	})

	t.Run("rejects headless value", func(t *testing.T) {
		cfg := &config.Fetch{Headless: "on"}
		_, err := cfg.Request(now)
		gt.Error(t, err)
	})
}
