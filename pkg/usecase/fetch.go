package usecase

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
	"github.com/m-mizutani/kbfetch/pkg/domain/types"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
)

type fetchUseCase struct {
	browser     interfaces.BrowserLauncher
	catalog     *model.Catalog
	httpClient  interfaces.HTTPClient
	waitTimeout time.Duration
	notifier    interfaces.Notifier
	mirror      interfaces.Mirror
	now         func() time.Time
}

// FetchOption configures the fetch use case
type FetchOption func(*fetchUseCase)

// WithCatalog replaces the default catalog layout
func WithCatalog(catalog *model.Catalog) FetchOption {
	return func(uc *fetchUseCase) {
		uc.catalog = catalog
	}
}

// WithHTTPClient sets the client used to download the package
func WithHTTPClient(client interfaces.HTTPClient) FetchOption {
	return func(uc *fetchUseCase) {
		uc.httpClient = client
	}
}

// WithWaitTimeout sets the bound for every wait on a catalog element
func WithWaitTimeout(d time.Duration) FetchOption {
	return func(uc *fetchUseCase) {
		uc.waitTimeout = d
	}
}

// WithNotifier reports every outcome
func WithNotifier(n interfaces.Notifier) FetchOption {
	return func(uc *fetchUseCase) {
		uc.notifier = n
	}
}

// WithMirror uploads saved packages
func WithMirror(m interfaces.Mirror) FetchOption {
	return func(uc *fetchUseCase) {
		uc.mirror = m
	}
}

// NewFetch creates the patch fetch use case
func NewFetch(browser interfaces.BrowserLauncher, opts ...FetchOption) interfaces.FetchUseCase {
	uc := &fetchUseCase{
		browser:     browser,
		catalog:     model.NewCatalog(types.DefaultCatalogURL),
		httpClient:  http.DefaultClient,
		waitTimeout: types.DefaultWaitTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Fetch searches the catalog, resolves the first result's package and saves it
func (uc *fetchUseCase) Fetch(ctx context.Context, req *model.FetchRequest) (*model.FetchResult, error) {
	result := &model.FetchResult{
		RunID:     req.RunID,
		Query:     req.Query,
		StartedAt: uc.now(),
	}
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}

	logger := logging.From(ctx).With("run_id", result.RunID)
	ctx = logging.With(ctx, logger)

	err := uc.run(ctx, req, result)
	if err != nil {
		result.Outcome = model.OutcomeUnhandled
	}
	result.Duration = uc.now().Sub(result.StartedAt)

	logger.Info("Fetch finished",
		"outcome", result.Outcome,
		"query", req.Query.Text(),
		"saved_path", result.SavedPath,
		"duration", result.Duration,
	)

	if uc.notifier != nil {
		if nErr := uc.notifier.Notify(ctx, result); nErr != nil {
			logger.Warn("Failed to notify fetch result", "error", nErr)
		}
	}

	return result, err
}

func (uc *fetchUseCase) run(ctx context.Context, req *model.FetchRequest, result *model.FetchResult) error {
	logger := logging.From(ctx)

	if err := req.Query.Validate(); err != nil {
		return err
	}

	session, err := uc.browser.Launch(ctx, req.Launch)
	if err != nil {
		return goerr.Wrap(err, "failed to launch browser", goerr.V("headless", req.Launch.Headless))
	}
	defer func() {
		if cErr := session.Close(); cErr != nil {
			logger.Warn("Failed to close browser", "error", cErr)
		}
	}()

	outcome, file, err := uc.resolve(ctx, session.Page(), &req.Query)
	if err != nil {
		return err
	}
	result.Outcome = outcome
	result.File = file
	if outcome != model.OutcomeSuccess {
		return nil
	}

	return uc.save(ctx, file, req.DownloadPath, result)
}

// resolve drives the catalog UI up to the package URL. It returns
// OutcomeSuccess with the resolved file, or the terminal outcome that
// stopped it.
func (uc *fetchUseCase) resolve(ctx context.Context, page interfaces.Page, query *model.SearchQuery) (model.Outcome, *model.PatchFile, error) {
	logger := logging.From(ctx)
	catalog := uc.catalog

	// The root page sets the session cookies Home.aspx relies on.
	for _, u := range []string{catalog.RootURL, catalog.HomeURL} {
		if err := page.Navigate(ctx, u); err != nil {
			return "", nil, goerr.Wrap(err, "failed to open catalog", goerr.V("url", u))
		}
	}

	if err := page.Click(ctx, catalog.SearchReveal); err != nil {
		return "", nil, goerr.Wrap(err, "failed to open search", goerr.V("locator", catalog.SearchReveal.String()))
	}

	text := query.Text()
	if err := page.Fill(ctx, catalog.SearchBox, text); err != nil {
		return "", nil, goerr.Wrap(err, "failed to fill search box", goerr.V("query", text))
	}
	if err := page.Click(ctx, catalog.SearchButton); err != nil {
		return "", nil, goerr.Wrap(err, "failed to submit search", goerr.V("query", text))
	}

	empty, err := page.WaitVisible(ctx, catalog.NoResults, uc.waitTimeout)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to check search results", goerr.V("query", text))
	}
	if empty {
		logger.Info(model.OutcomeNoResults.Describe(), "query", text)
		return model.OutcomeNoResults, nil, nil
	}

	found, err := page.WaitVisible(ctx, catalog.FirstRowDownload, uc.waitTimeout)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to look up Download button", goerr.V("query", text))
	}
	if !found {
		logger.Info(model.OutcomeNoDownloadButton.Describe(), "query", text)
		return model.OutcomeNoDownloadButton, nil, nil
	}

	popup, err := page.ClickPopup(ctx, catalog.FirstRowDownload)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to open download popup", goerr.V("query", text))
	}

	found, err = popup.WaitVisible(ctx, catalog.PackageLink, uc.waitTimeout)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to look up package link")
	}
	if !found {
		logger.Info(model.OutcomeNoPackageLink.Describe(), "query", text)
		return model.OutcomeNoPackageLink, nil, nil
	}

	href, err := popup.Attribute(ctx, catalog.PackageLink, "href")
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to read package link")
	}
	logger.Info("Downloading MSU/CAB file", "url", href)

	file, err := model.NewPatchFile(href, query)
	if err != nil {
		logger.Info(model.OutcomePatternMismatch.Describe(),
			"url", href,
			"file_name", model.URLBaseName(href),
		)
		return model.OutcomePatternMismatch, nil, nil
	}

	return model.OutcomeSuccess, file, nil
}

// save downloads file into dir. The body goes to a temporary file next to
// the target and is renamed only after a complete 200 response, so other
// statuses leave nothing on disk.
func (uc *fetchUseCase) save(ctx context.Context, file *model.PatchFile, dir string, result *model.FetchResult) error {
	logger := logging.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.SourceURL, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create download request", goerr.V("url", file.SourceURL))
	}

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to download package", goerr.V("url", file.SourceURL))
	}
	defer safeClose(logger, resp.Body)

	result.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		logger.Info(model.OutcomeHTTPFailure.Describe(),
			"url", file.SourceURL,
			"status", resp.StatusCode,
		)
		result.Outcome = model.OutcomeHTTPFailure
		return nil
	}

	target := file.TargetPath(dir)
	tmp, err := os.CreateTemp(dir, "."+file.TargetName+".*.part")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("dir", dir))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write package", goerr.V("url", file.SourceURL), goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to flush package", goerr.V("path", tmpName))
	}
	if err := os.Rename(tmpName, target); err != nil {
		return goerr.Wrap(err, "failed to move package into place", goerr.V("path", target))
	}
	committed = true

	result.SavedPath = target
	result.Size = size
	result.Outcome = model.OutcomeSuccess
	logger.Info("Download completed. File saved", "path", target, "size", size)

	if uc.mirror != nil {
		mirrored, err := uc.mirror.Upload(ctx, target, file.TargetName)
		if err != nil {
			logger.Warn("Failed to mirror package", "error", err, "path", target)
		} else {
			result.MirrorURL = mirrored
			logger.Info("Package mirrored", "url", mirrored)
		}
	}

	return nil
}

func safeClose(logger *slog.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("Failed to close response body", "error", err)
	}
}
