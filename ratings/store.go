// Package ratings holds the rating store, the pair selector and the Elo update rule.
package ratings

import (
	"fmt"
	"path/filepath"
	"sort"

	"imagerank/types"
)

// InitialRating is assigned to images seen for the first time.
const InitialRating = 1200.0

// Store maps an image id to its rating record. It is owned by a single
// goroutine and does no locking.
type Store struct {
	records map[string]types.ImageRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{records: make(map[string]types.ImageRecord)}
}

// Get returns the record for id
func (s *Store) Get(id string) (types.ImageRecord, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Put inserts or replaces the record keyed by rec.Path
func (s *Store) Put(rec types.ImageRecord) {
	s.records[rec.Path] = rec
}

// All returns every record in no particular order
func (s *Store) All() []types.ImageRecord {
	out := make([]types.ImageRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

// Viable returns the records rated at or above minScore, sorted by path.
func (s *Store) Viable(minScore float64) []types.ImageRecord {
	out := make([]types.ImageRecord, 0, len(s.records))
	for _, rec := range s.records {
		if rec.Rating >= minScore {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ViableCount returns how many records are rated at or above minScore
func (s *Store) ViableCount(minScore float64) int {
	n := 0
	for _, rec := range s.records {
		if rec.Rating >= minScore {
			n++
		}
	}
	return n
}

// MissingImageError reports a persisted record whose image file is gone.
type MissingImageError struct {
	Path string
}

func (e *MissingImageError) Error() string {
	return fmt.Sprintf("file %s does not exist, but is found in the ratings table, please fix", e.Path)
}

// DuplicateRecordError reports two persisted records naming the same file.
type DuplicateRecordError struct {
	First, Second string
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("%s and %s name the same file in the ratings table, please fix", e.First, e.Second)
}

// Merge builds a store from persisted records and freshly discovered image ids.
//
// Every persisted record must be locatable; the first one that is not aborts
// the merge with a *MissingImageError. Two persisted records whose cleaned
// paths match abort it with a *DuplicateRecordError. Discovered ids are added at
// InitialRating with zero games unless a persisted record already covers the
// same cleaned path.
func Merge(persisted []types.ImageRecord, discovered []string, locate func(string) bool) (*Store, error) {
	s := NewStore()
	known := make(map[string]string, len(persisted))

	for _, rec := range persisted {
		key := filepath.Clean(rec.Path)
		if first, ok := known[key]; ok {
			return nil, &DuplicateRecordError{First: first, Second: rec.Path}
		}
		if !locate(rec.Path) {
			return nil, &MissingImageError{Path: rec.Path}
		}
		s.Put(rec)
		known[key] = rec.Path
	}

	for _, id := range discovered {
		key := filepath.Clean(id)
		if _, ok := known[key]; ok {
			continue
		}
		s.Put(types.ImageRecord{Path: id, Rating: InitialRating, Games: 0})
		known[key] = id
	}

	return s, nil
}
