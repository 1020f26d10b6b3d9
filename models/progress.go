package models

// ProgressStatus is the per-unit outcome reported during a bulk import.
type ProgressStatus string

const (
	ProgressSuccess ProgressStatus = "success"
	ProgressFailure ProgressStatus = "failure"
)

// BulkProgress is streamed once per completed unit of work during a batch.
// Completed is the running count of finished units (1-indexed, monotonic),
// Total the fixed batch size. Events arrive in completion order, not input
// order.
type BulkProgress struct {
	Completed int            `json:"completed"`
	Total     int            `json:"total"`
	URL       string         `json:"url"`
	Status    ProgressStatus `json:"status"`
}
