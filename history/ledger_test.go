package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"imagerank/types"
)

func match(sid, left, right, result string) types.MatchResult {
	return types.MatchResult{
		SessionID:   sid,
		At:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Result:      result,
		LeftBefore:  types.ImageRecord{Path: left, Rating: 1200},
		RightBefore: types.ImageRecord{Path: right, Rating: 1200},
		LeftAfter:   types.ImageRecord{Path: left, Rating: 1220, Games: 1},
		RightAfter:  types.ImageRecord{Path: right, Rating: 1180, Games: 1},
		Penalty:     0,
	}
}

func TestLedger_AppendsOneLinePerMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "matches.jsonl")
	l := Ledger{Path: path}

	if err := l.ObserveMatch(match("s1", "a.jpg", "b.jpg", "left")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := l.ObserveMatch(match("s1", "c.jpg", "a.jpg", "draw")); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n := strings.Count(string(raw), "\n"); n != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", n, raw)
	}
	if !strings.Contains(string(raw), `"left":"a.jpg"`) {
		t.Errorf("left path missing:\n%s", raw)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("read lines failed: %v", err)
	}
	if len(lines) != 2 || lines[1].Result != "draw" || lines[1].LeftPath != "c.jpg" || lines[0].LeftAfter.Rating != 1220 {
		t.Errorf("unexpected lines: %+v", lines)
	}
}

func TestReadLines_MissingFile(t *testing.T) {
	lines, err := ReadLines(filepath.Join(t.TempDir(), "none.jsonl"))
	if err != nil || len(lines) != 0 {
		t.Fatalf("expected no lines, got %v (%v)", lines, err)
	}
}

func TestReadLines_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(path, []byte("{\"result\":\"left\"}\nnot json\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := ReadLines(path); err == nil {
		t.Fatal("expected error")
	}
}
