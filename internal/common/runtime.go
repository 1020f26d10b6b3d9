package common

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/linkstash/models"
)

// NewLogger builds the shared JSON logger. Logs go to stderr so stdout stays
// clean for command output.
func NewLogger(quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LoadRuntime resolves config and logger for a CLI action. The --owner flag
// overrides the configured owner.
func LoadRuntime(c *cli.Context) (*models.Config, *slog.Logger, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if owner := c.String("owner"); owner != "" {
		cfg.Owner = owner
	}
	return cfg, NewLogger(c.Bool("quiet")), nil
}
