package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/kbfetch/pkg/domain/model"
	"github.com/m-mizutani/kbfetch/pkg/domain/types"
	"github.com/m-mizutani/kbfetch/pkg/utils/logging"
)

type busyReporter interface {
	Busy() bool
}

func healthHandler(runs busyReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:  "healthy",
			Service: "kbfetch",
			Version: types.Version,
			Busy:    runs.Busy(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			logging.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}
