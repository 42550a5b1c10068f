package ratings

import (
	"fmt"
	"math"

	"imagerank/types"
)

// DefaultK is the Elo step size used when none is configured.
const DefaultK = 40.0

// Elo applies the rating update. The zero value is not useful; set K.
type Elo struct {
	K float64
}

// Outcome is the result of rating one comparison.
type Outcome struct {
	Left    types.ImageRecord
	Right   types.ImageRecord
	Penalty float64
}

// Scores maps a judgment to the result value for each side.
func Scores(j types.Judgment) (left, right float64, err error) {
	switch j {
	case types.LeftWins:
		return 1, 0, nil
	case types.RightWins:
		return 0, 1, nil
	case types.Draw:
		return 0.5, 0.5, nil
	default:
		return 0, 0, fmt.Errorf("judgment %q cannot be rated", j)
	}
}

// Expected is the standard Elo win expectation of a rated ra against rb.
func Expected(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// Penalty is subtracted from a side in proportion to what it did not score,
// so the loser pays it in full and a draw splits it.
// It grows with the pair's average play count so images compared often drift
// toward the cutoff.
func Penalty(gamesLeft, gamesRight int) float64 {
	return math.Sqrt(float64(gamesLeft+gamesRight) / 2)
}

// Rate computes both updated records. It is a pure function of its inputs
// and e.K. Each side's games count goes up by exactly one.
func (e Elo) Rate(left, right types.ImageRecord, j types.Judgment) (Outcome, error) {
	s1, s2, err := Scores(j)
	if err != nil {
		return Outcome{}, err
	}

	penalty := Penalty(left.Games, right.Games)
	e1 := Expected(left.Rating, right.Rating)
	e2 := Expected(right.Rating, left.Rating)

	newLeft := left
	newLeft.Rating = left.Rating + e.K*(s1-e1) - (1-s1)*penalty
	newLeft.Games = left.Games + 1

	newRight := right
	newRight.Rating = right.Rating + e.K*(s2-e2) - (1-s2)*penalty
	newRight.Games = right.Games + 1

	return Outcome{Left: newLeft, Right: newRight, Penalty: penalty}, nil
}

// Apply reads both records of pair from store, rates them and writes both
// back. The store is untouched when any step fails.
func (e Elo) Apply(store *Store, pair types.Pair, j types.Judgment) (types.MatchResult, error) {
	left, ok := store.Get(pair.Left)
	if !ok {
		return types.MatchResult{}, fmt.Errorf("unknown image %s", pair.Left)
	}
	right, ok := store.Get(pair.Right)
	if !ok {
		return types.MatchResult{}, fmt.Errorf("unknown image %s", pair.Right)
	}

	out, err := e.Rate(left, right, j)
	if err != nil {
		return types.MatchResult{}, err
	}

	store.Put(out.Left)
	store.Put(out.Right)

	return types.MatchResult{
		Judgment:    j,
		Result:      j.String(),
		LeftBefore:  left,
		RightBefore: right,
		LeftAfter:   out.Left,
		RightAfter:  out.Right,
		Penalty:     out.Penalty,
	}, nil
}
