package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("loadFrom() error = %v", err)
	}
	if cfg.MaxAPIRetries != 3 || cfg.RetryDelaySeconds != 5 || cfg.TMDBLanguage != "en-US" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DefaultSeason != 1 || cfg.DefaultEpisode != 1 {
		t.Errorf("fallback numbering = (%d, %d), want (1, 1)", cfg.DefaultSeason, cfg.DefaultEpisode)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"tmdb_api_key":"abc","max_api_retries":7}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom() error = %v", err)
	}
	if cfg.TMDBAPIKey != "abc" {
		t.Errorf("TMDBAPIKey = %q, want abc", cfg.TMDBAPIKey)
	}
	if cfg.MaxAPIRetries != 7 {
		t.Errorf("MaxAPIRetries = %d, want 7", cfg.MaxAPIRetries)
	}
	if cfg.PosterSize != "w500" || cfg.LogRetentionDays != 30 {
		t.Errorf("missing fields not defaulted: %+v", cfg)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFrom(path); err == nil {
		t.Error("loadFrom(malformed) error = nil, want parse failure")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.TMDBAPIKey = "secret"
	cfg.DryRun = true // run flag, must not persist
	if err := cfg.saveTo(path); err != nil {
		t.Fatalf("saveTo() error = %v", err)
	}

	loaded, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom() error = %v", err)
	}
	if loaded.TMDBAPIKey != "secret" {
		t.Errorf("TMDBAPIKey = %q, want secret", loaded.TMDBAPIKey)
	}
	if loaded.DryRun {
		t.Error("run flag DryRun leaked into the persisted config")
	}
}
