package utils

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"
)

type ContextCloser interface {
	Close(ctx context.Context) error
}

// KillGracefullyOnInterrupt calls start with a context that is canceled on the
// first interrupt (or when parent is canceled), then closes every returned
// closer concurrently. It returns false if the closers did not finish within
// gracePeriod.
func KillGracefullyOnInterrupt(parent context.Context, gracePeriod time.Duration, start func(ctx context.Context) []ContextCloser) bool {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	closers := start(ctx)

	<-ctx.Done()
	stop()
	slog.Info("shutting down gracefully, press Ctrl+C again to force")

	return closeAll(gracePeriod, closers)
}

func closeAll(gracePeriod time.Duration, closers []ContextCloser) bool {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), gracePeriod)
	defer cancel()

	var wg sync.WaitGroup
	for _, closer := range closers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := closer.Close(timeoutCtx); err != nil {
				slog.Error("could not close gracefully", "err", err)
			}
		}()
	}

	chDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(chDone)
	}()

	select {
	case <-chDone:
		return true
	case <-timeoutCtx.Done():
		slog.Error("timeout exceeded, forcing shutdown")
		return false
	}
}
