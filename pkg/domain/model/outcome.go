package model

// Outcome is the terminal state a fetch run ends in.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNoResults        Outcome = "no-results"
	OutcomeNoDownloadButton Outcome = "no-download-button"
	OutcomeNoPackageLink    Outcome = "no-msu-link"
	OutcomePatternMismatch  Outcome = "pattern-mismatch"
	OutcomeHTTPFailure      Outcome = "http-failure"
	OutcomeUnhandled        Outcome = "unhandled-exception"
)

// Succeeded reports whether a file was saved.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSuccess
}

// Describe returns the human readable reason logged for the outcome.
func (o Outcome) Describe() string {
	switch o {
	case OutcomeSuccess:
		return "Download completed"
	case OutcomeNoResults:
		return "No search results found"
	case OutcomeNoDownloadButton:
		return "Failed to find the Download button"
	case OutcomeNoPackageLink:
		return "Failed to find the MSU/CAB download link"
	case OutcomePatternMismatch:
		return "Failed to match the filename pattern"
	case OutcomeHTTPFailure:
		return "Failed to download the file"
	case OutcomeUnhandled:
		return "An error occurred during fetch"
	default:
		return string(o)
	}
}
