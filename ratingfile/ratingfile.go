// Package ratingfile reads and writes the ratings table as CSV
// with the header Path,Rating,Games.
package ratingfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"imagerank/logging"
	"imagerank/types"
	"imagerank/utils"
)

// Header is the first row of every ratings file
var Header = []string{"Path", "Rating", "Games"}

var (
	errNotFinite     = errors.New("rating is not a finite number")
	errNegativeGames = errors.New("games count is negative")
)

// ParseError reports a malformed row
type ParseError struct {
	File  string
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: can't parse %s %q: %v", e.File, e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// File is a ratings table stored at Path
type File struct {
	Path string
}

// Load reads all records. A missing file yields no records and no error.
func (f File) Load() ([]types.ImageRecord, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Notice("No ratings file found at %s", f.Path)
			return nil, nil
		}
		return nil, err
	}
	return Decode(f.Path, bytes.NewReader(b))
}

// Save rewrites the whole table
func (f File) Save(records []types.ImageRecord) error {
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(f.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	logging.LogInfo("Wrote %d ratings to %s", len(records), f.Path)
	return nil
}

// Decode parses a ratings table. name is only used in error messages.
func Decode(name string, r io.Reader) ([]types.ImageRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return nil, &ParseError{File: name, Line: 1, Err: err}
	}
	if !strings.EqualFold(strings.TrimSpace(head[0]), Header[0]) {
		return nil, &ParseError{File: name, Line: 1, Err: errors.New("missing Path,Rating,Games header")}
	}

	var records []types.ImageRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{File: name, Line: pe.Line, Err: pe.Err}
			}
			return nil, &ParseError{File: name, Err: err}
		}
		line, _ := cr.FieldPos(0)

		rating, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err == nil && (math.IsNaN(rating) || math.IsInf(rating, 0)) {
			err = errNotFinite
		}
		if err != nil {
			return nil, &ParseError{File: name, Line: line, Field: "rating", Value: row[1], Err: err}
		}
		games, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err == nil && games < 0 {
			err = errNegativeGames
		}
		if err != nil {
			return nil, &ParseError{File: name, Line: line, Field: "games", Value: row[2], Err: err}
		}

		records = append(records, types.ImageRecord{
			Path:   row[0],
			Rating: rating,
			Games:  games,
		})
	}
	return records, nil
}

// Encode writes records sorted by path under the standard header
func Encode(w io.Writer, records []types.ImageRecord) error {
	sorted := append([]types.ImageRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, rec := range sorted {
		row := []string{
			rec.Path,
			strconv.FormatFloat(rec.Rating, 'f', -1, 64),
			strconv.Itoa(rec.Games),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
