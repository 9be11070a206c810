package config_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/kbfetch/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "debug", level: "debug"},
		{name: "DEBUG (case insensitive)", level: "DEBUG"},
		{name: "info", level: "info"},
		{name: "Warn", level: "Warn"},
		{name: "error", level: "error"},
		{name: "invalid", level: "invalid", wantErr: true},
		{name: "empty string", level: "", wantErr: true},
		{name: "trace", level: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Logger{Level: tt.level, Output: &bytes.Buffer{}}

			logger, err := cfg.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				gt.Value(t, logger).Nil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, logger).NotNil()
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logger{Level: "warn", JSON: true, Output: &buf}

	logger, err := cfg.Configure()
	gt.NoError(t, err)

	logger.Info("dropped by level")
	logger.Warn("Failed to close browser", "run_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	gt.Number(t, len(lines)).Equal(1)

	var record map[string]any
	gt.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	gt.Value(t, record["msg"]).Equal("Failed to close browser")
	gt.Value(t, record["run_id"]).Equal("abc")
}

func TestLogger_Redaction(t *testing.T) {
	type notifyConfig struct {
		Channel    string
		WebhookURL string `masq:"secret"`
	}

	for _, asJSON := range []bool{true, false} {
		var buf bytes.Buffer
		cfg := &config.Logger{Level: "info", JSON: asJSON, Output: &buf}

		logger, err := cfg.Configure()
		gt.NoError(t, err)

		logger.Info("Notifier configured", "config", notifyConfig{
			Channel:    "#patches",
			WebhookURL: "https://hooks.slack.com/services/T000/B000/XXXX",
		})

		gt.String(t, buf.String()).Contains("#patches")
		gt.True(t, !strings.Contains(buf.String(), "hooks.slack.com"))
	}
}

func TestLogger_Flags(t *testing.T) {
	cfg := &config.Logger{}
	flags := cfg.Flags()
	gt.Number(t, len(flags)).Equal(2)

	names := map[string]bool{}
	for _, f := range flags {
		names[f.Names()[0]] = true
	}
	gt.True(t, names["log-level"])
	gt.True(t, names["log-json"])
}
