package session

import "strconv"

const (
	colReset = "\033[0m"
	colRed   = "\033[31m"
)

func (s *Session) red(v string) string {
	if !s.Color {
		return v
	}
	return colRed + v + colReset
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
