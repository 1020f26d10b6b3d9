package items

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/linkstash/internal/common"
	"github.com/dtnitsch/linkstash/models"
	"github.com/dtnitsch/linkstash/pkg/store"
)

// ListAction prints the owner's library, optionally narrowed by a status and
// a text query over titles and tags.
func ListAction(c *cli.Context) error {
	cfg, _, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	filter := store.ListFilter{Query: c.String("query")}
	if raw := c.String("status"); raw != "" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown status %q (expected pending, completed, failed, or all)\n", raw)
			os.Exit(1)
		}
		filter.Status = status
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	items, err := st.List(c.Context, cfg.Owner, filter)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("No items found")
		return nil
	}

	fmt.Printf("%-6s %-10s %-9s %-40s %s\n", "ID", "Status", "Summary", "Title", "URL")
	fmt.Println(strings.Repeat("-", 120))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "(untitled)"
		}
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("%-6d %-10s %-9s %-40s %s\n",
			item.ID, item.Status, summaryMarker(item.SummaryState), title, item.URL)
		if len(item.Tags) > 0 {
			fmt.Printf("       tags: %s\n", strings.Join(item.Tags, ", "))
		}
	}
	fmt.Printf("\nTotal: %d items\n", len(items))
	fmt.Printf("\nTip: Use 'linkstash show <id>' to see one item in full\n")

	return nil
}

func summaryMarker(state models.SummaryState) string {
	switch state {
	case models.SummaryDone:
		return "yes"
	case models.SummaryGenerating:
		return "pending"
	default:
		return "-"
	}
}

// ShowAction prints a single item in full.
func ShowAction(c *cli.Context) error {
	cfg, _, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	id, err := ParseItemID(c)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	item, err := st.GetByID(c.Context, cfg.Owner, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error: item %d not found\n", id)
			os.Exit(1)
		}
		return fmt.Errorf("failed to load item: %w", err)
	}

	fmt.Printf("Item %d\n", item.ID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("URL:       %s\n", item.URL)
	fmt.Printf("Title:     %s\n", item.Title)
	if item.Author != "" {
		fmt.Printf("Author:    %s\n", item.Author)
	}
	if item.Lang != "" {
		fmt.Printf("Language:  %s\n", item.Lang)
	}
	fmt.Printf("Status:    %s\n", item.Status)
	if item.ErrorNote != "" {
		fmt.Printf("Error:     %s\n", item.ErrorNote)
	}
	if item.PublishedAt != nil {
		fmt.Printf("Published: %s\n", item.PublishedAt.Format("2006-01-02"))
	}
	fmt.Printf("Saved:     %s\n", item.CreatedAt.Format("2006-01-02 15:04:05"))
	if len(item.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", strings.Join(item.Tags, ", "))
	}

	if item.Summary != "" {
		fmt.Printf("\nSummary:\n%s\n", item.Summary)
	} else if item.SummaryState == models.SummaryGenerating {
		fmt.Println("\nSummary: generation in progress")
	}

	if c.Bool("content") {
		fmt.Printf("\n%s\n", item.Content)
	} else if item.Content != "" {
		fmt.Printf("\nTip: Use 'linkstash show %d --content' to print the extracted content\n", item.ID)
	}

	return nil
}

func ParseItemID(c *cli.Context) (int64, error) {
	raw := c.Args().First()
	if raw == "" {
		fmt.Fprintf(os.Stderr, "Error: missing item id\n\nUsage: linkstash %s <id>\n", c.Command.Name)
		os.Exit(1)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return id, nil
}
