package ratings

import (
	"errors"
	"fmt"
	"sort"

	"imagerank/types"
)

// ErrNotEnoughCandidates is matched by every *SelectionError.
var ErrNotEnoughCandidates = errors.New("not enough candidates to form a pair")

// SelectionError reports that no pair could be drawn this round.
type SelectionError struct {
	Viable   int // records at or above the cutoff
	Eligible int // records left after play-count balancing
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%v (viable=%d eligible=%d)", ErrNotEnoughCandidates, e.Viable, e.Eligible)
}

func (e *SelectionError) Is(target error) bool { return target == ErrNotEnoughCandidates }

// Source is the randomness the selector draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Selector picks the next pair to compare, keeping play counts even.
type Selector struct {
	rng Source
}

// NewSelector returns a selector drawing from rng
func NewSelector(rng Source) *Selector {
	return &Selector{rng: rng}
}

// TieInclusionProbability is the chance that the next record sitting exactly
// on the threshold joins the pool, given how many tied records were already
// taken this round. It falls from 1.0 in steps of 0.1 and stays at zero.
func TieInclusionProbability(included int) float64 {
	if included >= 10 {
		return 0
	}
	return float64(10-included) / 10
}

// Order returns the viable records sorted by ascending games. Records with
// equal games come out in a random order drawn from the selector's source.
func (s *Selector) Order(viable []types.ImageRecord) []types.ImageRecord {
	out := append([]types.ImageRecord(nil), viable...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Games < out[j].Games })
	return out
}

// Threshold is the games count of the record a third of the way up an
// ascending order. Nothing played more often than that is eligible.
func Threshold(ordered []types.ImageRecord) int {
	return ordered[len(ordered)/3].Games
}

// EligiblePool scans ordered records and returns the ids allowed into this
// round's draw.
func (s *Selector) EligiblePool(ordered []types.ImageRecord, threshold int) []string {
	pool := make([]string, 0, len(ordered))
	included := 0
	for _, rec := range ordered {
		switch {
		case rec.Games < threshold:
			pool = append(pool, rec.Path)
		case rec.Games == threshold:
			p := TieInclusionProbability(included)
			if p <= 0 {
				continue
			}
			if s.rng.Float64() < p {
				included++
				pool = append(pool, rec.Path)
			}
		}
	}
	return pool
}

// Select draws two distinct ids from the store's viable records.
func (s *Selector) Select(store *Store, minScore float64) (types.Pair, error) {
	viable := store.Viable(minScore)
	if len(viable) < 2 {
		return types.Pair{}, &SelectionError{Viable: len(viable), Eligible: len(viable)}
	}

	ordered := s.Order(viable)
	pool := s.EligiblePool(ordered, Threshold(ordered))
	if len(pool) < 2 {
		return types.Pair{}, &SelectionError{Viable: len(viable), Eligible: len(pool)}
	}

	i := s.rng.IntN(len(pool))
	j := s.rng.IntN(len(pool) - 1)
	if j >= i {
		j++
	}
	return types.Pair{Left: pool[i], Right: pool[j]}, nil
}
