package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
	"github.com/m-mizutani/kbfetch/pkg/utils/async"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
)

// SignatureHeader carries "sha256=<hex HMAC of the body>"
const SignatureHeader = "X-Kbfetch-Signature-256"

const maxBodySize = 1 << 20

// FetchBody is the POST /fetch payload. Empty fields take the server defaults.
type FetchBody struct {
	Search string `json:"search"`
	Month  string `json:"month"`
}

// FetchAccepted is the POST /fetch response
type FetchAccepted struct {
	RunID string `json:"run_id"`
	Query string `json:"query"`
}

// FetchHandler starts fetch runs in the background, one at a time. A request
// arriving while a run is in progress is refused with 409.
type FetchHandler struct {
	fetchUC  interfaces.FetchUseCase
	secret   string
	defaults model.FetchRequest
	now      func() time.Time

	running atomic.Bool
}

// NewFetchHandler creates a new FetchHandler. An empty secret disables
// signature verification.
func NewFetchHandler(fetchUC interfaces.FetchUseCase, secret string, defaults model.FetchRequest, now func() time.Time) *FetchHandler {
	if now == nil {
		now = time.Now
	}
	return &FetchHandler{
		fetchUC:  fetchUC,
		secret:   secret,
		defaults: defaults,
		now:      now,
	}
}

// Busy reports whether a run is in progress
func (h *FetchHandler) Busy() bool {
	return h.running.Load()
}

// Handle processes POST /fetch
func (h *FetchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.From(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, r, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.secret != "" && !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		logger.Warn("Invalid fetch request signature")
		writeError(w, r, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	req, err := h.buildRequest(body)
	if err != nil {
		logger.Info("Rejected fetch request", "error", err)
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	if !h.running.CompareAndSwap(false, true) {
		logger.Info("Fetch request refused, a run is in progress", "query", req.Query.Text())
		writeError(w, r, goerr.New("a fetch run is already in progress"), http.StatusConflict)
		return
	}

	logger.Info("Fetch request accepted",
		"run_id", req.RunID,
		"query", req.Query.Text(),
	)

	async.Dispatch(ctx, func(ctx context.Context) error {
		defer h.running.Store(false)

		_, err := h.fetchUC.Fetch(ctx, req)
		return err
	})

	writeJSON(w, r, http.StatusAccepted, &FetchAccepted{
		RunID: req.RunID,
		Query: req.Query.Text(),
	})
}

func (h *FetchHandler) buildRequest(body []byte) (*model.FetchRequest, error) {
	var payload FetchBody
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, goerr.Wrap(err, "invalid JSON payload")
		}
	}

	req := h.defaults
	req.RunID = uuid.NewString()
	if payload.Search != "" {
		req.Query.Keyword = payload.Search
	}
	req.Query.Month = payload.Month
	if req.Query.Month == "" {
		req.Query.Month = model.CurrentMonth(h.now())
	}

	if err := req.Query.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *FetchHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}
