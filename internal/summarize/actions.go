package summarize

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/linkstash/internal/common"
	"github.com/dtnitsch/linkstash/internal/items"
	"github.com/dtnitsch/linkstash/pkg/enrich"
	"github.com/dtnitsch/linkstash/pkg/llm"
	"github.com/dtnitsch/linkstash/pkg/store"
)

// SummarizeAction generates an AI summary for one item, streaming the text to
// stdout as the model produces it. The summary is stored when the stream ends
// cleanly; tags are derived right after and stored in the background.
func SummarizeAction(c *cli.Context) error {
	cfg, logger, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	id, err := items.ParseItemID(c)
	if err != nil {
		return err
	}

	model, err := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.Model)
	if err != nil {
		if errors.Is(err, llm.ErrAPIKeyNotSet) {
			fmt.Fprintln(os.Stderr, "Error: no model API key configured")
			fmt.Fprintln(os.Stderr, "Set OPENAI_API_KEY or llm.api_key in config.yaml")
			os.Exit(1)
		}
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	coord := enrich.NewCoordinator(st, model, logger)

	gen, err := coord.GenerateSummary(c.Context, cfg.Owner, id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			fmt.Fprintf(os.Stderr, "Error: item %d not found\n", id)
			os.Exit(1)
		case errors.Is(err, enrich.ErrNoContent):
			fmt.Fprintf(os.Stderr, "Error: item %d has no content to summarize\n", id)
			fmt.Fprintln(os.Stderr, "Only successfully imported items can be summarized")
			os.Exit(1)
		case errors.Is(err, enrich.ErrInProgress):
			fmt.Fprintf(os.Stderr, "Error: a summary for item %d is already being generated\n", id)
			os.Exit(1)
		}
		return err
	}

	for fragment := range gen.Fragments() {
		fmt.Print(fragment)
	}
	fmt.Println()

	if err := gen.Err(); err != nil {
		return fmt.Errorf("summary generation failed, nothing was saved: %w", err)
	}

	fmt.Println("\nSummary saved")

	// Tags derive from the fresh summary; hold the process open for them.
	coord.Wait()

	return nil
}
