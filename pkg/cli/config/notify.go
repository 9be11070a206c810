package config

import (
	"github.com/m-mizutani/kbfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/kbfetch/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Notify holds notification configuration
type Notify struct {
	SlackWebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL to report every run",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("KBFETCH_SLACK_WEBHOOK_URL"),
		},
	}
}

// Notifier returns nil when no webhook is configured
func (c *Notify) Notifier() interfaces.Notifier {
	if c.SlackWebhookURL == "" {
		return nil
	}
	return slack.NewNotifier(c.SlackWebhookURL)
}
