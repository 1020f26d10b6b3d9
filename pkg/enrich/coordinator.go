// Package enrich drives AI summary generation and tag derivation for items
// that were imported successfully.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dtnitsch/linkstash/models"
	"github.com/dtnitsch/linkstash/pkg/llm"
)

var (
	// ErrNoContent rejects generation for items without extracted content.
	ErrNoContent = errors.New("item has no content to summarize")

	// ErrInProgress rejects a second generation while one is running for
	// the same item.
	ErrInProgress = errors.New("summary generation already in progress")
)

const (
	tagDerivationTimeout = 60 * time.Second

	// A stored GENERATING state older than this is treated as abandoned
	// (the owning process died mid-generation) and may be reclaimed.
	staleGenerationAfter = 10 * time.Minute
)

// ItemStore is the slice of the store the coordinator needs.
type ItemStore interface {
	GetByID(ctx context.Context, owner string, id int64) (*models.Item, error)
	SetSummary(ctx context.Context, owner string, id int64, summary string) (*models.Item, error)
	SetSummaryState(ctx context.Context, owner string, id int64, state models.SummaryState) error
	SetTags(ctx context.Context, owner string, id int64, tags []string) (*models.Item, error)
}

type Coordinator struct {
	store      ItemStore
	model      llm.Streamer
	logger     *slog.Logger
	staleAfter time.Duration

	mu     sync.Mutex
	active map[int64]struct{}
	tagWG  sync.WaitGroup
}

func NewCoordinator(st ItemStore, model llm.Streamer, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		store:      st,
		model:      model,
		logger:     logger,
		staleAfter: staleGenerationAfter,
		active:     make(map[int64]struct{}),
	}
}

// Generation is a single in-flight summary run. Fragments yields model
// tokens as they arrive; once the channel is closed, Err reports how the run
// ended. The summary is committed exactly once, as a side effect of the
// stream terminating normally.
type Generation struct {
	fragments chan string
	done      chan struct{}
	err       error
}

// Fragments is the token stream. Single consumer.
func (g *Generation) Fragments() <-chan string {
	return g.fragments
}

// Err blocks until the run has fully finished, then reports its outcome.
func (g *Generation) Err() error {
	<-g.done
	return g.err
}

// GenerateSummary starts a summary run for the item. Preconditions are
// checked before any side effect: the item must exist, have content, and not
// already be generating. An existing summary does not block regeneration;
// the new summary overwrites it on commit.
//
// Cancelling ctx, or a mid-stream model failure, discards all fragments and
// commits nothing; the item drops back to NO_SUMMARY and a later call may
// retry.
func (c *Coordinator) GenerateSummary(ctx context.Context, owner string, id int64) (*Generation, error) {
	c.mu.Lock()
	if _, busy := c.active[id]; busy {
		c.mu.Unlock()
		return nil, ErrInProgress
	}

	item, err := c.store.GetByID(ctx, owner, id)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	// A GENERATING state this process does not hold belongs to another
	// process, or to one that died mid-run. Honor it only while fresh so a
	// crash never locks the item out of summarization forever.
	if item.SummaryState == models.SummaryGenerating && time.Since(item.UpdatedAt) < c.staleAfter {
		c.mu.Unlock()
		return nil, ErrInProgress
	}
	if strings.TrimSpace(item.Content) == "" {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: item %d", ErrNoContent, id)
	}

	c.active[id] = struct{}{}
	c.mu.Unlock()

	if err := c.store.SetSummaryState(ctx, owner, id, models.SummaryGenerating); err != nil {
		c.release(id)
		return nil, err
	}

	g := &Generation{
		fragments: make(chan string),
		done:      make(chan struct{}),
	}
	go c.run(ctx, g, owner, item)

	return g, nil
}

func (c *Coordinator) run(ctx context.Context, g *Generation, owner string, item *models.Item) {
	defer c.release(item.ID)
	defer close(g.done)

	fail := func(err error) {
		// Nothing was committed; reset so the caller can retry.
		if stateErr := c.store.SetSummaryState(context.WithoutCancel(ctx), owner, item.ID, models.SummaryNone); stateErr != nil {
			c.warn("failed to reset summary state", "item_id", item.ID, "error", stateErr)
		}
		g.err = err
		close(g.fragments)
	}

	stream, err := c.model.StreamCompletion(ctx, llm.SummaryPrompt(item.Title, item.Content))
	if err != nil {
		fail(err)
		return
	}
	defer stream.Close()

	var summary strings.Builder
	for stream.Next() {
		fragment := stream.Current()
		summary.WriteString(fragment)

		select {
		case g.fragments <- fragment:
		case <-ctx.Done():
			fail(ctx.Err())
			return
		}
	}
	if err := stream.Err(); err != nil {
		fail(err)
		return
	}
	if err := ctx.Err(); err != nil {
		fail(err)
		return
	}

	// Terminal event reached: commit exactly once.
	if _, err := c.store.SetSummary(ctx, owner, item.ID, summary.String()); err != nil {
		fail(fmt.Errorf("failed to commit summary: %w", err))
		return
	}
	close(g.fragments)

	c.info("summary committed", "item_id", item.ID, "chars", summary.Len())

	// Tag derivation is a fire-and-forget follow-up; its failure never
	// rolls back the summary.
	c.tagWG.Add(1)
	go func() {
		defer c.tagWG.Done()
		c.deriveTags(context.WithoutCancel(ctx), owner, item.ID, summary.String())
	}()
}

// Wait blocks until background tag derivation has drained. Short-lived
// callers should wait before exiting so tags are not lost.
func (c *Coordinator) Wait() {
	c.tagWG.Wait()
}

func (c *Coordinator) deriveTags(ctx context.Context, owner string, id int64, summary string) {
	ctx, cancel := context.WithTimeout(ctx, tagDerivationTimeout)
	defer cancel()

	reply, err := llm.Complete(ctx, c.model, llm.TagsPrompt(summary))
	if err != nil {
		c.warn("tag derivation failed", "item_id", id, "error", err)
		return
	}

	tags := llm.ParseTags(reply)
	if len(tags) == 0 {
		c.warn("tag derivation produced no tags", "item_id", id)
		return
	}

	if _, err := c.store.SetTags(ctx, owner, id, tags); err != nil {
		c.warn("failed to persist tags", "item_id", id, "error", err)
		return
	}

	c.info("tags committed", "item_id", id, "count", len(tags))
}

func (c *Coordinator) release(id int64) {
	c.mu.Lock()
	delete(c.active, id)
	c.mu.Unlock()
}

func (c *Coordinator) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Coordinator) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
