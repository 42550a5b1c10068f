package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imagerank/config"
	"imagerank/ratingfile"
	"imagerank/types"
)

func TestRankRecords(t *testing.T) {
	recs := []types.ImageRecord{
		{Path: "c.jpg", Rating: 1100},
		{Path: "b.jpg", Rating: 1250},
		{Path: "a.jpg", Rating: 1100},
		{Path: "d.jpg", Rating: 980},
	}

	got := rankRecords(recs, 0)
	want := []string{"b.jpg", "a.jpg", "c.jpg", "d.jpg"}
	for i, w := range want {
		if got[i].Path != w {
			t.Fatalf("position %d: want %s, got %s", i, w, got[i].Path)
		}
	}
	if recs[0].Path != "c.jpg" {
		t.Error("input must not be reordered")
	}
	if n := len(rankRecords(recs, 2)); n != 2 {
		t.Errorf("expected 2 records with top=2, got %d", n)
	}
}

func TestDescribeAndWriteLeaderboard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	f.Close()

	rows := []leaderboardRow{
		describe(types.ImageRecord{Path: path, Rating: 1234.56, Games: 3}, 1100, nil),
		describe(types.ImageRecord{Path: filepath.Join(dir, "gone.jpg"), Rating: 1000, Games: 9}, 1100, nil),
	}
	if !rows[0].Viable || rows[1].Viable {
		t.Errorf("unexpected viability: %v %v", rows[0].Viable, rows[1].Viable)
	}
	if rows[0].Size != "64x48" || rows[1].Size != "-" {
		t.Errorf("unexpected sizes: %q %q", rows[0].Size, rows[1].Size)
	}

	var buf bytes.Buffer
	if err := writeLeaderboard(&buf, rows); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "1234.6") || !strings.Contains(lines[1], "64x48") {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], " x ") {
		t.Errorf("row under the cutoff not marked: %q", lines[2])
	}
}

func TestRun_UsageErrors(t *testing.T) {
	if code := run([]string{"stray"}); code != exitUsage {
		t.Errorf("unexpected argument: expected %d, got %d", exitUsage, code)
	}
	if code := run([]string{"--help"}); code != exitOK {
		t.Errorf("help: expected %d, got %d", exitOK, code)
	}
}

func TestRun_ListFromRatingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{"K", "MIN_SCORE", "DATABASE", "HISTORY", "PRESENTER", "RATINGS_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	err := ratingfile.File{Path: "ratings.csv"}.Save([]types.ImageRecord{{Path: "a.jpg", Rating: 1200}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if code := run([]string{"list", "--top=1"}); code != exitOK {
		t.Errorf("expected %d, got %d", exitOK, code)
	}
	if code := run([]string{"list", "--top=0"}); code != exitUsage {
		t.Errorf("expected usage error for --top=0, got %d", code)
	}
}

func TestPrintSettings(t *testing.T) {
	var buf bytes.Buffer
	printSettings(&buf, config.Default())
	want := "K set to 40 (default)\nMIN_SCORE set to 1100 (default)\n"
	if buf.String() != want {
		t.Errorf("want %q, got %q", want, buf.String())
	}

	cfg := config.Default()
	cfg.K, cfg.MinScore = 32, 1050.5
	buf.Reset()
	printSettings(&buf, cfg)
	want = "K set to 32\nMIN_SCORE set to 1050.5\n"
	if buf.String() != want {
		t.Errorf("want %q, got %q", want, buf.String())
	}
}
