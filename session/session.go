// Package session runs the interactive comparison loop: select a pair,
// present it, read a judgment, update both ratings, repeat.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"imagerank/logging"
	"imagerank/ratings"
	"imagerank/types"
)

// Prompt is printed before every read of a judgment token
const Prompt = "Select winner: l(eft), r(ight), d(raw), q(uit): "

// ErrInterrupted is returned by Run when its context is cancelled
var ErrInterrupted = errors.New("session interrupted")

// View is one presented pair. Close must be called exactly once.
type View interface {
	// ReadToken blocks until the user enters a token. io.EOF means no
	// more input will arrive.
	ReadToken(ctx context.Context) (string, error)
	Close() error
}

// Presenter shows a pair to the user
type Presenter interface {
	Present(ctx context.Context, pair types.Pair) (View, error)
}

// Observer receives every applied match. An error ends the session.
type Observer interface {
	ObserveMatch(m types.MatchResult) error
}

// InvalidInputObserver is optionally implemented by observers that count
// rejected tokens.
type InvalidInputObserver interface {
	ObserveInvalid(token string)
}

// EndReason tells why Run returned
type EndReason int

const (
	EndQuit EndReason = iota
	EndExhausted
	EndInterrupted
	EndFailed
)

func (r EndReason) String() string {
	switch r {
	case EndQuit:
		return "quit"
	case EndExhausted:
		return "exhausted"
	case EndInterrupted:
		return "interrupted"
	default:
		return "failed"
	}
}

// Summary describes a finished session
type Summary struct {
	Reason    EndReason
	Rounds    int // applied comparisons
	Invalid   int // rejected tokens
	Remaining int // images at or above the cutoff when the session ended
}

// Session wires the rating core to a presenter
type Session struct {
	Store     *ratings.Store
	Selector  *ratings.Selector
	Elo       ratings.Elo
	Presenter Presenter
	MinScore  float64
	Out       io.Writer
	Observers []Observer
	SessionID string
	Color     bool
	Now       func() time.Time
}

// ParseJudgment maps a raw token to a judgment. Surrounding whitespace is
// ignored; anything unrecognised is Invalid.
func ParseJudgment(token string) types.Judgment {
	switch strings.TrimSpace(token) {
	case "l", "a":
		return types.LeftWins
	case "r":
		return types.RightWins
	case "d":
		return types.Draw
	case "q":
		return types.Quit
	default:
		return types.Invalid
	}
}

// Run loops until the user quits, no pair can be formed, ctx is cancelled
// or a fatal error occurs. The store holds every applied update on return,
// whatever the reason.
func (s *Session) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	now := s.Now
	if now == nil {
		now = time.Now
	}

	fmt.Fprintf(s.Out, "Pictures to rate: %d\n", s.Store.ViableCount(s.MinScore))

	finish := func(reason EndReason, err error) (Summary, error) {
		sum.Reason = reason
		sum.Remaining = s.Store.ViableCount(s.MinScore)
		logging.LogInfo("Session %s ended (%s) after %d rounds, %d images remain", s.SessionID, reason, sum.Rounds, sum.Remaining)
		return sum, err
	}

	for {
		if ctx.Err() != nil {
			return finish(EndInterrupted, ErrInterrupted)
		}

		pair, err := s.Selector.Select(s.Store, s.MinScore)
		if err != nil {
			if errors.Is(err, ratings.ErrNotEnoughCandidates) {
				fmt.Fprintf(s.Out, "Not enough images left to compare (%d at or above %s).\n",
					s.Store.ViableCount(s.MinScore), formatScore(s.MinScore))
				return finish(EndExhausted, nil)
			}
			return finish(EndFailed, err)
		}
		logging.DebugLog("Round %d: %s vs %s", sum.Rounds+1, pair.Left, pair.Right)

		j, err := s.judge(ctx, pair, &sum)
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				return finish(EndInterrupted, err)
			}
			return finish(EndFailed, err)
		}
		if j == types.Quit {
			return finish(EndQuit, nil)
		}

		m, err := s.Elo.Apply(s.Store, pair, j)
		if err != nil {
			return finish(EndFailed, err)
		}
		m.SessionID = s.SessionID
		m.At = now()
		sum.Rounds++

		s.report(m)
		logging.LogMatch(pair.Left, pair.Right, m.Result, m.LeftAfter.Rating, m.RightAfter.Rating, m.Penalty)

		for _, o := range s.Observers {
			if err := o.ObserveMatch(m); err != nil {
				return finish(EndFailed, fmt.Errorf("record match: %w", err))
			}
		}
	}
}

// judge presents pair and reads tokens until one is valid. The view is
// closed before judge returns and a failure to close is fatal.
func (s *Session) judge(ctx context.Context, pair types.Pair, sum *Summary) (j types.Judgment, err error) {
	view, err := s.Presenter.Present(ctx, pair)
	if err != nil {
		return types.Invalid, fmt.Errorf("present %s and %s: %w", pair.Left, pair.Right, err)
	}
	defer func() {
		if cerr := view.Close(); cerr != nil {
			j, err = types.Invalid, fmt.Errorf("close view: %w", cerr)
		}
	}()

	for {
		fmt.Fprintln(s.Out, Prompt)
		token, rerr := view.ReadToken(ctx)
		if rerr != nil {
			if ctx.Err() != nil {
				return types.Invalid, ErrInterrupted
			}
			if errors.Is(rerr, io.EOF) {
				logging.LogInfo("End of input, quitting")
				return types.Quit, nil
			}
			return types.Invalid, fmt.Errorf("read judgment: %w", rerr)
		}

		if parsed := ParseJudgment(token); parsed != types.Invalid {
			return parsed, nil
		}

		sum.Invalid++
		fmt.Fprintln(s.Out, "Invalid input.")
		for _, o := range s.Observers {
			if inv, ok := o.(InvalidInputObserver); ok {
				inv.ObserveInvalid(token)
			}
		}
	}
}

func (s *Session) report(m types.MatchResult) {
	fmt.Fprintf(s.Out, "Old scores: l: %s, r: %s\n", formatScore(m.LeftBefore.Rating), formatScore(m.RightBefore.Rating))

	left := formatScore(m.LeftAfter.Rating)
	right := formatScore(m.RightAfter.Rating)
	info := ""
	if m.LeftAfter.Rating < s.MinScore {
		left = s.red(left)
	}
	if m.RightAfter.Rating < s.MinScore {
		right = s.red(right)
	}
	if m.LeftAfter.Rating < s.MinScore || m.RightAfter.Rating < s.MinScore {
		info = fmt.Sprintf("; Images left: %d", s.Store.ViableCount(s.MinScore))
	}
	fmt.Fprintf(s.Out, "New scores: l: %s, r: %s - Penalty: %s%s\n\n", left, right, formatScore(m.Penalty), info)
}
