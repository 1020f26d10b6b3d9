// Package ingest runs bulk imports: a bounded worker pool fetches and
// extracts each URL, persists every outcome, and streams progress events in
// completion order.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dtnitsch/linkstash/internal/common"
	"github.com/dtnitsch/linkstash/models"
	"github.com/dtnitsch/linkstash/pkg/extractor"
	"github.com/dtnitsch/linkstash/pkg/fetcher"
	"github.com/dtnitsch/linkstash/pkg/store"
)

var (
	// ErrNoURLs rejects an empty batch before any side effect.
	ErrNoURLs = errors.New("no urls to import")

	// ErrInvalidURLs rejects a batch containing malformed URLs. The whole
	// batch is rejected so the caller can fix input instead of partially
	// importing it.
	ErrInvalidURLs = errors.New("batch contains invalid urls")
)

const defaultWorkers = 4

// PageFetcher is the fetch+extract capability applied to each batch unit.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (*extractor.Extraction, error)
}

// ItemWriter is the slice of the store the orchestrator needs.
type ItemWriter interface {
	UpsertByURL(ctx context.Context, in store.UpsertItem) (*models.Item, error)
	RecordBatch(ctx context.Context, rec store.BatchRecord) error
}

type Orchestrator struct {
	fetch   PageFetcher
	store   ItemWriter
	workers int
	logger  *slog.Logger
}

func New(fetch PageFetcher, st ItemWriter, workers int, logger *slog.Logger) *Orchestrator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Orchestrator{
		fetch:   fetch,
		store:   st,
		workers: workers,
		logger:  logger,
	}
}

type unitOutcome struct {
	url string
	ok  bool
}

// Run starts a fresh batch over rawURLs and returns its progress channel and
// batch id. Input is sanitized, validated, and deduplicated (first occurrence
// wins) before any fetch or write happens; a batch with malformed URLs is
// rejected wholesale.
//
// Exactly one event per URL is emitted, in completion order, and the channel
// is closed afterwards. The channel is buffered to the batch size, so a
// consumer that stops reading never stalls the workers: in-flight fetches
// run to completion and their outcomes are still persisted.
func (o *Orchestrator) Run(ctx context.Context, owner string, rawURLs []string) (<-chan models.BulkProgress, string, error) {
	sanitized, invalid := common.SanitizeAndValidateURLs(rawURLs)
	if len(invalid) > 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidURLs, strings.Join(invalid, ", "))
	}

	urls := common.DedupeURLs(sanitized)
	if len(urls) == 0 {
		return nil, "", ErrNoURLs
	}

	batchID := uuid.NewString()
	total := len(urls)

	progress := make(chan models.BulkProgress, total)
	jobs := make(chan string, total)
	outcomes := make(chan unitOutcome, total)

	o.info("batch started", "batch_id", batchID, "owner", owner, "url_count", total, "workers", o.workers)

	// Dispatched units are fire-and-forget from the consumer's point of
	// view: cancelling the consumer's context must not abort their fetches
	// or drop their upserts.
	unitCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for w := 1; w <= o.workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for pageURL := range jobs {
				outcomes <- unitOutcome{url: pageURL, ok: o.processUnit(unitCtx, id, owner, pageURL)}
			}
		}(w)
	}

	// FIFO: queued URLs start as worker slots free up.
	for _, pageURL := range urls {
		jobs <- pageURL
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	go o.collect(ctx, batchID, owner, total, outcomes, progress)

	return progress, batchID, nil
}

// processUnit fetches, extracts, and persists one URL. Every failure mode is
// absorbed into a FAILED upsert; nothing propagates to the batch level.
func (o *Orchestrator) processUnit(ctx context.Context, workerID int, owner, pageURL string) bool {
	extraction, err := o.fetch.FetchPage(ctx, pageURL)
	if err != nil {
		o.warn("unit failed", "worker_id", workerID, "url", pageURL, "error", err)
		if _, upsertErr := o.store.UpsertByURL(ctx, store.UpsertItem{
			Owner:     owner,
			URL:       pageURL,
			Status:    models.StatusFailed,
			ErrorNote: classifyFailure(err),
		}); upsertErr != nil {
			o.warn("failed to persist failed unit", "url", pageURL, "error", upsertErr)
		}
		return false
	}

	_, err = o.store.UpsertByURL(ctx, store.UpsertItem{
		Owner:       owner,
		URL:         pageURL,
		Status:      models.StatusCompleted,
		Title:       extraction.Title,
		Author:      extraction.Author,
		OGImage:     extraction.OGImage,
		Content:     extraction.Content,
		Lang:        extraction.Lang,
		PublishedAt: extraction.PublishedAt,
	})
	if err != nil {
		o.warn("failed to persist unit", "worker_id", workerID, "url", pageURL, "error", err)
		return false
	}

	o.info("unit done", "worker_id", workerID, "url", pageURL)
	return true
}

// collect turns unit outcomes into ordered progress events and records the
// batch row once everything has drained.
func (o *Orchestrator) collect(ctx context.Context, batchID, owner string, total int, outcomes <-chan unitOutcome, progress chan<- models.BulkProgress) {
	var succeeded, failed int
	completed := 0

	for outcome := range outcomes {
		completed++
		status := models.ProgressSuccess
		if outcome.ok {
			succeeded++
		} else {
			failed++
			status = models.ProgressFailure
		}
		progress <- models.BulkProgress{
			Completed: completed,
			Total:     total,
			URL:       outcome.url,
			Status:    status,
		}
	}
	close(progress)

	// Bookkeeping only; must survive a consumer that cancelled its context.
	if err := o.store.RecordBatch(context.WithoutCancel(ctx), store.BatchRecord{
		BatchID:      batchID,
		Owner:        owner,
		URLCount:     total,
		SuccessCount: succeeded,
		FailedCount:  failed,
	}); err != nil {
		o.warn("failed to record batch", "batch_id", batchID, "error", err)
	}

	o.info("batch finished", "batch_id", batchID, "succeeded", succeeded, "failed", failed)
}

// classifyFailure keeps the underlying cause for diagnostic display.
func classifyFailure(err error) string {
	switch {
	case errors.Is(err, fetcher.ErrRateLimited):
		return "rate limited: " + err.Error()
	case errors.Is(err, fetcher.ErrNetwork):
		return "network error: " + err.Error()
	case errors.Is(err, extractor.ErrExtraction):
		return "extraction error: " + err.Error()
	default:
		return err.Error()
	}
}

func (o *Orchestrator) info(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o *Orchestrator) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}
