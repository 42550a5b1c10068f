// Package presenter shows comparison pairs in an external image viewer and
// reads judgments from the terminal.
package presenter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"imagerank/logging"
	"imagerank/session"
	"imagerank/types"
)

// DefaultViewer is used when no viewer command is configured
const DefaultViewer = "sxiv"

// Viewer launches Command with Args followed by the left and right image
// paths. Judgments are read from Input.
type Viewer struct {
	Command string
	Args    []string
	Input   *LineReader
}

// NewViewer creates a viewer presenter reading judgments from input
func NewViewer(command string, args []string, input *LineReader) *Viewer {
	if command == "" {
		command = DefaultViewer
	}
	return &Viewer{Command: command, Args: args, Input: input}
}

// Present starts the viewer process. The returned view owns the process.
func (v *Viewer) Present(_ context.Context, pair types.Pair) (session.View, error) {
	args := append(append([]string(nil), v.Args...), pair.Left, pair.Right)
	cmd := exec.Command(v.Command, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start viewer %s: %w", v.Command, err)
	}
	logging.DebugLog("Started %s (pid %d) for %s | %s", v.Command, cmd.Process.Pid, pair.Left, pair.Right)
	return &viewerView{cmd: cmd, input: v.Input}, nil
}

type viewerView struct {
	cmd   *exec.Cmd
	input *LineReader
}

func (w *viewerView) ReadToken(ctx context.Context) (string, error) {
	return w.input.ReadLine(ctx)
}

// Close kills the viewer and reaps it. A viewer the user already closed is
// not an error.
func (w *viewerView) Close() error {
	if err := w.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill viewer: %w", err)
	}
	err := w.cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("failed to wait for viewer: %w", err)
	}
	logging.DebugLog("Viewer %d exited: %v", w.cmd.Process.Pid, w.cmd.ProcessState)
	return nil
}
