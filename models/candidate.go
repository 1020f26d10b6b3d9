package models

// CandidateLink is a discovered, not-yet-imported URL with optional metadata.
// Candidates are transient: they exist only between discovery and selection.
type CandidateLink struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}
