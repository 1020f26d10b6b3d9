// Package models defines the shared data structures for the content library.
package models

import "time"

// ItemStatus tracks the fetch outcome for a saved item.
type ItemStatus string

const (
	StatusPending   ItemStatus = "PENDING"
	StatusCompleted ItemStatus = "COMPLETED"
	StatusFailed    ItemStatus = "FAILED"
)

// StatusAll is a List filter value meaning "no status filter".
const StatusAll ItemStatus = "all"

// ParseStatus maps a user-supplied status string to an ItemStatus.
// Accepts lowercase input; empty means "all".
func ParseStatus(s string) (ItemStatus, bool) {
	switch s {
	case "", "all":
		return StatusAll, true
	case "pending", string(StatusPending):
		return StatusPending, true
	case "completed", string(StatusCompleted):
		return StatusCompleted, true
	case "failed", string(StatusFailed):
		return StatusFailed, true
	}
	return "", false
}

// SummaryState tracks where an item is in the enrichment flow.
// Stored on the item so precondition checks don't race on summary nullability.
type SummaryState string

const (
	SummaryNone       SummaryState = "NO_SUMMARY"
	SummaryGenerating SummaryState = "GENERATING"
	SummaryDone       SummaryState = "SUMMARIZED"
)

// Item is a durably stored, user-owned saved page.
// One row per distinct URL per owner.
type Item struct {
	ID           int64
	Owner        string
	URL          string
	Title        string
	Author       string
	OGImage      string
	Content      string
	Summary      string
	Lang         string
	ErrorNote    string
	Tags         []string
	Status       ItemStatus
	SummaryState SummaryState
	PublishedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
