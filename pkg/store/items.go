package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/linkstash/models"
)

// UpsertItem carries the writable fields for an item upsert.
type UpsertItem struct {
	Owner       string
	URL         string
	Status      models.ItemStatus
	Title       string
	Author      string
	OGImage     string
	Content     string
	Lang        string
	ErrorNote   string
	PublishedAt *time.Time
}

// ListFilter narrows List results. Query matches case-insensitively against
// the title or any tag substring. Status of StatusAll (or empty) means no
// status filter.
type ListFilter struct {
	Query  string
	Status models.ItemStatus
}

// UpsertByURL inserts or overwrites the item for (owner, url). A re-import
// replaces the stored fields wholesale: summary, tags, and summary state are
// reset because the content they were derived from is gone.
func (s *Store) UpsertByURL(ctx context.Context, in UpsertItem) (*models.Item, error) {
	var publishedAt any
	if in.PublishedAt != nil {
		publishedAt = in.PublishedAt.UTC().Format(time.RFC3339)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (owner, url, title, author, og_image, content, lang, error_note, status, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, url) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			og_image = excluded.og_image,
			content = excluded.content,
			lang = excluded.lang,
			error_note = excluded.error_note,
			status = excluded.status,
			published_at = excluded.published_at,
			summary = NULL,
			summary_state = 'NO_SUMMARY',
			updated_at = CURRENT_TIMESTAMP
	`, in.Owner, in.URL, in.Title, in.Author, in.OGImage, in.Content, in.Lang, in.ErrorNote, string(in.Status), publishedAt)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to upsert item: %w", err)
	}

	var itemID int64
	err = tx.QueryRowContext(ctx, "SELECT item_id FROM items WHERE owner = ? AND url = ?", in.Owner, in.URL).Scan(&itemID)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to read back item id: %w", err)
	}

	// Tags derive from the previous content; drop them with it.
	if _, err := tx.ExecContext(ctx, "DELETE FROM item_tags WHERE item_id = ?", itemID); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to clear tags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit upsert: %w", err)
	}

	return s.GetByID(ctx, in.Owner, itemID)
}

const itemColumns = `item_id, owner, url,
	COALESCE(title, ''), COALESCE(author, ''), COALESCE(og_image, ''),
	COALESCE(content, ''), COALESCE(summary, ''), COALESCE(lang, ''),
	COALESCE(error_note, ''), status, summary_state, published_at,
	created_at, updated_at`

// GetByID loads one item with its tags. Items owned by someone else are
// reported as ErrNotFound.
func (s *Store) GetByID(ctx context.Context, owner string, id int64) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items WHERE owner = ? AND item_id = ?
	`, owner, id)

	item, err := scanItem(row)
	if err != nil {
		return nil, err
	}

	if err := s.loadTags(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// SetSummary commits the summary text and marks the item SUMMARIZED. An
// existing summary is overwritten: regeneration is always allowed.
func (s *Store) SetSummary(ctx context.Context, owner string, id int64, summary string) (*models.Item, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET summary = ?, summary_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE owner = ? AND item_id = ?
	`, summary, string(models.SummaryDone), owner, id)
	if err != nil {
		return nil, fmt.Errorf("failed to set summary: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, owner, id)
}

// SetSummaryState moves the enrichment state machine without touching the
// summary text.
func (s *Store) SetSummaryState(ctx context.Context, owner string, id int64, state models.SummaryState) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET summary_state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE owner = ? AND item_id = ?
	`, string(state), owner, id)
	if err != nil {
		return fmt.Errorf("failed to set summary state: %w", err)
	}
	return requireRow(res)
}

// SetTags replaces the item's tag set.
func (s *Store) SetTags(ctx context.Context, owner string, id int64, tags []string) (*models.Item, error) {
	// Owner check up front so a foreign item's tags are never touched.
	if _, err := s.GetByID(ctx, owner, id); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM item_tags WHERE item_id = ?", id); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to clear tags: %w", err)
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO item_tags (item_id, tag) VALUES (?, ?)", id, tag); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to insert tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tags: %w", err)
	}

	return s.GetByID(ctx, owner, id)
}

// List returns the owner's items, newest first, narrowed by filter.
func (s *Store) List(ctx context.Context, owner string, filter ListFilter) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner = ?`
	args := []any{owner}

	if filter.Status != "" && filter.Status != models.StatusAll {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query += ` AND (lower(COALESCE(title, '')) LIKE ?
			OR EXISTS (
				SELECT 1 FROM item_tags t
				WHERE t.item_id = items.item_id AND lower(t.tag) LIKE ?
			))`
		pattern := "%" + strings.ToLower(q) + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY created_at DESC, item_id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	for _, item := range items {
		if err := s.loadTags(ctx, item); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s *Store) loadTags(ctx context.Context, item *models.Item) error {
	rows, err := s.db.QueryContext(ctx, "SELECT tag FROM item_tags WHERE item_id = ? ORDER BY tag", item.ID)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		item.Tags = append(item.Tags, tag)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var (
		item        models.Item
		status      string
		state       string
		publishedAt sql.NullString
	)

	err := row.Scan(
		&item.ID, &item.Owner, &item.URL,
		&item.Title, &item.Author, &item.OGImage,
		&item.Content, &item.Summary, &item.Lang,
		&item.ErrorNote, &status, &state, &publishedAt,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	item.Status = models.ItemStatus(status)
	item.SummaryState = models.SummaryState(state)
	if publishedAt.Valid && publishedAt.String != "" {
		if ts, parseErr := time.Parse(time.RFC3339, publishedAt.String); parseErr == nil {
			item.PublishedAt = &ts
		}
	}

	return &item, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
