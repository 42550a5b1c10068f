// Package history appends applied comparisons to a JSON lines file.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"imagerank/types"
)

// Line is one record of the ledger
type Line struct {
	types.MatchResult
	LeftPath  string `json:"left"`
	RightPath string `json:"right"`
}

// Ledger appends to the file at Path
type Ledger struct {
	Path string
}

// ObserveMatch appends m as one JSON line
func (l Ledger) ObserveMatch(m types.MatchResult) error {
	return AppendLine(l.Path, Line{
		MatchResult: m,
		LeftPath:    m.LeftBefore.Path,
		RightPath:   m.RightBefore.Path,
	})
}

// AppendLine writes line at the end of path, creating parent directories
func AppendLine(path string, line Line) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	b, err := json.Marshal(line)
	if err != nil {
		f.Close()
		return err
	}
	b = append(b, '\n')

	if _, err = f.Write(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadLines returns every line in the ledger. A missing file has none.
func ReadLines(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return decodeLines(f)
}

func decodeLines(r io.Reader) ([]Line, error) {
	var out []Line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var line Line
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
