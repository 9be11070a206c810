package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . FetchUseCase

import (
	"context"
	"net/http"

	"github.com/m-mizutani/kbfetch/pkg/domain/model"
)

// FetchUseCase runs the catalog search and download flow
type FetchUseCase interface {
	// Fetch always returns a result. The error is set only for the
	// unhandled-exception outcome.
	Fetch(ctx context.Context, req *model.FetchRequest) (*model.FetchResult, error)
}

// HTTPClient retrieves the resolved package.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier reports the outcome of a run.
type Notifier interface {
	Notify(ctx context.Context, result *model.FetchResult) error
}

// Mirror copies a saved package to remote storage and returns its location.
type Mirror interface {
	Upload(ctx context.Context, localPath, name string) (string, error)
}
