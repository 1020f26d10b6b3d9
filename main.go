package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/linkstash/internal/discover"
	"github.com/dtnitsch/linkstash/internal/importer"
	"github.com/dtnitsch/linkstash/internal/items"
	"github.com/dtnitsch/linkstash/internal/summarize"
)

func main() {
	app := &cli.App{
		Name:  "linkstash",
		Usage: "save web pages into a personal library, then search and summarize them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the YAML config file",
			},
			&cli.StringFlag{
				Name:  "owner",
				Usage: "library owner (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "discover",
				Usage:  "find candidate links from a web search or a seed site",
				Action: discover.DiscoverAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Usage: "web search query"},
					&cli.StringFlag{Name: "site", Usage: "seed URL to enumerate links under"},
					&cli.StringFlag{Name: "filter", Usage: "only keep links containing this substring (with --site)"},
					&cli.BoolFlag{Name: "json", Usage: "print candidates as JSON"},
				},
			},
			{
				Name:   "import",
				Usage:  "fetch, extract, and save a batch of URLs",
				Action: importer.ImportAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "urls", Usage: "comma-separated URLs to import"},
					&cli.StringFlag{Name: "query", Usage: "import the results of a web search"},
					&cli.StringFlag{Name: "site", Usage: "import the links found under a seed URL"},
					&cli.StringFlag{Name: "filter", Usage: "only keep links containing this substring (with --site)"},
					&cli.IntFlag{Name: "workers", Usage: "concurrent fetch workers (overrides config)"},
				},
			},
			{
				Name:   "items",
				Usage:  "list saved items",
				Action: items.ListAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Usage: "match against titles and tags"},
					&cli.StringFlag{Name: "status", Usage: "pending, completed, failed, or all"},
				},
			},
			{
				Name:      "show",
				Usage:     "print one item in full",
				ArgsUsage: "<id>",
				Action:    items.ShowAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "content", Usage: "include the extracted content"},
				},
			},
			{
				Name:      "summarize",
				Usage:     "generate and store an AI summary for an item",
				ArgsUsage: "<id>",
				Action:    summarize.SummarizeAction,
			},
			{
				Name:   "batches",
				Usage:  "list recent import batches",
				Action: importer.BatchesAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "max batches to show"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
