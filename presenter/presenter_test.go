package presenter

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"imagerank/types"
)

func TestLineReader_LinesThenEOF(t *testing.T) {
	lr := NewLineReader(strings.NewReader("l\n x \nq"))
	ctx := context.Background()

	for _, want := range []string{"l", " x ", "q"} {
		got, err := lr.ReadLine(ctx)
		if err != nil || got != want {
			t.Fatalf("expected %q, got %q (%v)", want, got, err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := lr.ReadLine(ctx); !errors.Is(err, io.EOF) {
			t.Fatalf("expected io.EOF, got %v", err)
		}
	}
}

func TestLineReader_CancelledWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	lr := NewLineReader(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := lr.ReadLine(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}

	// the pending line is still delivered to the next read
	go pw.Write([]byte("d\n"))
	got, err := lr.ReadLine(context.Background())
	if err != nil || got != "d" {
		t.Fatalf("expected d, got %q (%v)", got, err)
	}
}

func TestViewer_PresentReadClose(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	v := NewViewer("sh", []string{"-c", "sleep 30", "viewer"}, NewLineReader(strings.NewReader("r\n")))

	view, err := v.Present(context.Background(), types.Pair{Left: "a.jpg", Right: "b.jpg"})
	if err != nil {
		t.Fatalf("present failed: %v", err)
	}
	token, err := view.ReadToken(context.Background())
	if err != nil || token != "r" {
		t.Fatalf("expected r, got %q (%v)", token, err)
	}

	start := time.Now()
	if err := view.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("close did not kill the viewer")
	}
	state := view.(*viewerView).cmd.ProcessState
	if state == nil {
		t.Errorf("viewer not reaped")
	}
}

func TestViewer_AlreadyExitedIsFine(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	v := NewViewer("true", nil, NewLineReader(strings.NewReader("")))

	view, err := v.Present(context.Background(), types.Pair{Left: "a.jpg", Right: "b.jpg"})
	if err != nil {
		t.Fatalf("present failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := view.Close(); err != nil {
		t.Fatalf("close of an exited viewer failed: %v", err)
	}
}

func TestViewer_LaunchFailure(t *testing.T) {
	v := NewViewer("imagerank-no-such-viewer", nil, NewLineReader(strings.NewReader("")))
	if _, err := v.Present(context.Background(), types.Pair{Left: "a.jpg", Right: "b.jpg"}); err == nil {
		t.Fatal("expected launch error")
	}
}
