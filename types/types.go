package types

import "time"

// ImageRecord holds the rating state of one image
type ImageRecord struct {
	Path   string  `json:"path"`
	Rating float64 `json:"rating"`
	Games  int     `json:"games"`
}

// Judgment is the user's verdict on a presented pair
type Judgment int

const (
	Invalid Judgment = iota
	LeftWins
	RightWins
	Draw
	Quit
)

func (j Judgment) String() string {
	switch j {
	case LeftWins:
		return "left"
	case RightWins:
		return "right"
	case Draw:
		return "draw"
	case Quit:
		return "quit"
	default:
		return "invalid"
	}
}

// Pair is the two images shown in one round, left first
type Pair struct {
	Left  string
	Right string
}

// MatchResult describes one applied comparison
type MatchResult struct {
	SessionID   string      `json:"session_id"`
	At          time.Time   `json:"at"`
	Judgment    Judgment    `json:"-"`
	Result      string      `json:"result"`
	LeftBefore  ImageRecord `json:"left_before"`
	RightBefore ImageRecord `json:"right_before"`
	LeftAfter   ImageRecord `json:"left_after"`
	RightAfter  ImageRecord `json:"right_after"`
	Penalty     float64     `json:"penalty"`
}
