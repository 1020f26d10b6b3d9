package models

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SEARCH_API_KEY", "")
	t.Setenv("LINKSTASH_DB", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() with missing file failed: %v", err)
	}

	if cfg.Owner != "local" {
		t.Errorf("Owner = %q, want %q", cfg.Owner, "local")
	}
	if cfg.DBPath != "linkstash.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "linkstash.db")
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want default", cfg.LLM.Model)
	}
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SEARCH_API_KEY", "")
	t.Setenv("LINKSTASH_DB", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `owner: alice
db_path: /tmp/stash.db
workers: 8
search:
  endpoint: https://search.example.com
  api_key: search-key
llm:
  model: gpt-4o
  api_key: llm-key
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Owner != "alice" {
		t.Errorf("Owner = %q, want %q", cfg.Owner, "alice")
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Search.Endpoint != "https://search.example.com" {
		t.Errorf("Search.Endpoint = %q", cfg.Search.Endpoint)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.APIKey != "llm-key" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-llm-key")
	t.Setenv("SEARCH_API_KEY", "env-search-key")
	t.Setenv("LINKSTASH_DB", "/tmp/env.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.LLM.APIKey != "env-llm-key" {
		t.Errorf("LLM.APIKey = %q, want env value", cfg.LLM.APIKey)
	}
	if cfg.Search.APIKey != "env-search-key" {
		t.Errorf("Search.APIKey = %q, want env value", cfg.Search.APIKey)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("DBPath = %q, want env value", cfg.DBPath)
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("owner: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() succeeded on malformed YAML")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   ItemStatus
		wantOK bool
	}{
		{"", StatusAll, true},
		{"all", StatusAll, true},
		{"pending", StatusPending, true},
		{"completed", StatusCompleted, true},
		{"failed", StatusFailed, true},
		{"FAILED", StatusFailed, true},
		{"bogus", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
