package errutil

import "github.com/getsentry/sentry-go"

// EnableSentryForTest routes captured events to beforeSend, which drops them
// by returning nil. The returned func disables Sentry again.
func EnableSentryForTest(beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event) (func(), error) {
	err := initSentry(sentry.ClientOptions{
		Dsn:        "https://public@sentry.example.com/1",
		BeforeSend: beforeSend,
	})
	return func() { sentryEnabled = false }, err
}
