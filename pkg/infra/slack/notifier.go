package slack

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
	"github.com/slack-go/slack"
)

type notifier struct {
	webhookURL string
	httpClient *http.Client
}

// Option configures the notifier
type Option func(*notifier)

// WithHTTPClient replaces the client used to post the webhook
func WithHTTPClient(client *http.Client) Option {
	return func(n *notifier) {
		n.httpClient = client
	}
}

// NewNotifier posts fetch results to a Slack incoming webhook
func NewNotifier(webhookURL string, opts ...Option) interfaces.Notifier {
	n := &notifier{
		webhookURL: webhookURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *notifier) Notify(ctx context.Context, result *model.FetchResult) error {
	msg := buildMessage(result)
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook",
			goerr.V("run_id", result.RunID),
			goerr.V("outcome", result.Outcome),
		)
	}
	return nil
}

func buildMessage(result *model.FetchResult) *slack.WebhookMessage {
	color := "danger"
	switch result.Outcome {
	case model.OutcomeSuccess:
		color = "good"
	case model.OutcomeNoResults, model.OutcomeNoDownloadButton, model.OutcomeNoPackageLink, model.OutcomePatternMismatch:
		color = "warning"
	}

	fields := []slack.AttachmentField{
		{Title: "Outcome", Value: string(result.Outcome), Short: true},
		{Title: "Query", Value: result.Query.Text(), Short: false},
		{Title: "Run ID", Value: result.RunID, Short: true},
		{Title: "Duration", Value: result.Duration.String(), Short: true},
	}
	if result.File != nil {
		fields = append(fields, slack.AttachmentField{Title: "Source", Value: result.File.SourceURL})
	}
	if result.SavedPath != "" {
		fields = append(fields,
			slack.AttachmentField{Title: "Saved", Value: result.SavedPath},
			slack.AttachmentField{Title: "Size", Value: strconv.FormatInt(result.Size, 10), Short: true},
		)
	}
	if result.StatusCode != 0 && result.StatusCode != http.StatusOK {
		fields = append(fields, slack.AttachmentField{Title: "HTTP status", Value: strconv.Itoa(result.StatusCode), Short: true})
	}
	if result.MirrorURL != "" {
		fields = append(fields, slack.AttachmentField{Title: "Mirror", Value: result.MirrorURL})
	}

	return &slack.WebhookMessage{
		Text: fmt.Sprintf("kbfetch %s: %s", result.Query.Month, result.Outcome.Describe()),
		Attachments: []slack.Attachment{
			{
				Color:  color,
				Fields: fields,
			},
		},
	}
}
