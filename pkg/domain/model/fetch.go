package model

import "time"

// LaunchOptions controls how the browser is started.
type LaunchOptions struct {
	Headless bool
}

// FetchRequest is the input of one fetch run.
type FetchRequest struct {
	// RunID is generated when empty
	RunID        string
	Query        SearchQuery
	DownloadPath string
	Launch       LaunchOptions
}

// FetchResult records how a run ended.
type FetchResult struct {
	RunID      string        `json:"run_id"`
	Query      SearchQuery   `json:"query"`
	Outcome    Outcome       `json:"outcome"`
	File       *PatchFile    `json:"file,omitempty"`
	SavedPath  string        `json:"saved_path,omitempty"`
	MirrorURL  string        `json:"mirror_url,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	Size       int64         `json:"size,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}
