package presenter

import (
	"bufio"
	"context"
	"io"
)

type line struct {
	text string
	err  error
}

// LineReader reads lines from r in a background goroutine so a pending
// read can be abandoned when the context is cancelled. One LineReader is
// shared by every view of a session.
type LineReader struct {
	lines chan line
	err   error
}

// NewLineReader starts pumping lines from r
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{lines: make(chan line)}
	go lr.pump(r)
	return lr
}

func (lr *LineReader) pump(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lr.lines <- line{text: sc.Text()}
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	lr.lines <- line{err: err}
	close(lr.lines)
}

// ReadLine returns the next line without its newline. Once the input is
// exhausted every call returns io.EOF.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	if lr.err != nil {
		return "", lr.err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-lr.lines:
		if !ok {
			lr.err = io.EOF
			return "", io.EOF
		}
		if l.err != nil {
			lr.err = l.err
			return "", l.err
		}
		return l.text, nil
	}
}
