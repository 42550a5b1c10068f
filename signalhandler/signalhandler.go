package signalhandler

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ExitInterrupted is the exit status after SIGINT or SIGTERM
const ExitInterrupted = 130

// NotifyContext returns a context cancelled on the first SIGINT or SIGTERM.
// After that the default handlers are restored, so a second signal kills
// the process.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
