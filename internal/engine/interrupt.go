package engine

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

// NotifyInterrupt returns a context cancelled on the first SIGINT or
// SIGTERM. The handler stays registered and swallows repeated signals
// until the returned stop function runs, so shutdown is idempotent:
// the run loop observes the cancellation cooperatively, flushes the
// sink, writes its final checkpoint and exits on its own terms even if
// the operator keeps hammering Ctrl+C.
func NotifyInterrupt(parent context.Context, log *zap.Logger) (ctx context.Context, stop context.CancelFunc) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	quit := make(chan struct{})

	go func() {
		for {
			select {
			case <-quit:
				return
			case sig := <-ch:
				log.Info("interrupt received, stopping safely", zap.String("signal", sig.String()))
				cancel()
			}
		}
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			signal.Stop(ch)
			close(quit)
		})
		cancel()
	}
	return ctx, stop
}
