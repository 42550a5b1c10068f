package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv unsets keys for the duration of the test
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

var allKeys = []string{
	"K", "MIN_SCORE", "IMAGE_DIR", "IMAGE_EXTENSIONS", "RECURSIVE",
	"RATINGS_FILE", "DATABASE", "HISTORY", "METRICS_FILE", "PRESENTER",
	"VIEWER", "VIEWER_ARGS", "WINDOW_HEIGHT", "SEED", "NO_COLOR",
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t, allKeys...)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.K != 40 || cfg.MinScore != 1100 {
		t.Errorf("expected K=40 MIN_SCORE=1100, got %v %v", cfg.K, cfg.MinScore)
	}
	if cfg.RatingsFile != "ratings.csv" || cfg.ImageDir != "." || cfg.Viewer != "sxiv" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".jpg" {
		t.Errorf("unexpected extensions: %v", cfg.Extensions)
	}
	if cfg.SeedSet {
		t.Errorf("seed must not be set by default")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t, allKeys...)
	t.Setenv("K", "32")
	t.Setenv("MIN_SCORE", "1000.5")
	t.Setenv("IMAGE_EXTENSIONS", ".jpg, .png")
	t.Setenv("VIEWER_ARGS", "-b -g 1600x900")
	t.Setenv("SEED", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.K != 32 || cfg.MinScore != 1000.5 {
		t.Errorf("expected K=32 MIN_SCORE=1000.5, got %v %v", cfg.K, cfg.MinScore)
	}
	if strings.Join(cfg.Extensions, "|") != ".jpg|.png" {
		t.Errorf("unexpected extensions: %v", cfg.Extensions)
	}
	if strings.Join(cfg.ViewerArgs, "|") != "-b|-g|1600x900" {
		t.Errorf("unexpected viewer args: %v", cfg.ViewerArgs)
	}
	if !cfg.SeedSet || cfg.Seed != 7 {
		t.Errorf("expected seed 7, got %d (set=%v)", cfg.Seed, cfg.SeedSet)
	}
}

func TestLoad_MalformedValuesAreAllReported(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t, allKeys...)
	t.Setenv("K", "forty")
	t.Setenv("MIN_SCORE", "")
	t.Setenv("RECURSIVE", "maybe")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"K ", "MIN_SCORE", "RECURSIVE"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should mention %s: %v", key, err)
		}
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clearEnv(t, allKeys...)

	path := filepath.Join(dir, "imagerank.yaml")
	body := "k: 24\nmin_score: 900\nimage_extensions:\n  - .jpg\n  - .webp\npresenter: window\nwindow_height: 600\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Setenv("MIN_SCORE", "950")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.K != 24 {
		t.Errorf("expected K from file, got %v", cfg.K)
	}
	if cfg.MinScore != 950 {
		t.Errorf("environment must win over file, got %v", cfg.MinScore)
	}
	if strings.Join(cfg.Extensions, "|") != ".jpg|.webp" {
		t.Errorf("unexpected extensions: %v", cfg.Extensions)
	}
	if cfg.Presenter != PresenterWindow || cfg.WindowHeight != 600 {
		t.Errorf("unexpected presenter settings: %q %d", cfg.Presenter, cfg.WindowHeight)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	clearEnv(t, allKeys...)

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("K=16\nHISTORY=matches.jsonl\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.K != 16 || cfg.History != "matches.jsonl" {
		t.Errorf("expected values from .env, got K=%v History=%q", cfg.K, cfg.History)
	}
}

func TestApplyArgs(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyArgs(map[string]string{
		"dir":      "photos",
		"database": "ratings.db",
		"seed":     "42",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ImageDir != "photos" || cfg.Database != "ratings.db" || cfg.Seed != 42 || !cfg.SeedSet {
		t.Errorf("flags not applied: %+v", cfg)
	}

	if err := cfg.ApplyArgs(map[string]string{"presenter": "slideshow"}); err == nil {
		t.Error("expected error for unknown presenter")
	}
	if err := cfg.ApplyArgs(map[string]string{"seed": "-1"}); err == nil {
		t.Error("expected error for negative seed")
	}
}

func TestLoad_NoColor(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t, allKeys...)
	t.Setenv("NO_COLOR", "please")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.NoColor {
		t.Error("any non-empty NO_COLOR must disable color")
	}
}
