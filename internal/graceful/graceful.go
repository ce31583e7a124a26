package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gig-scraper/internal/utils/logger/sl"
)

// Operation is a named shutdown step executed on termination.
type Operation func(ctx context.Context) error

// GracefulShutdown waits for SIGINT/SIGTERM and then runs every registered
// operation concurrently, bounded by the given timeout. The returned channel
// is closed once all operations have finished (or the timeout forced exit).
func GracefulShutdown(ctx context.Context, timeout time.Duration, ops map[string]Operation, log *slog.Logger) <-chan struct{} {
	wait := make(chan struct{})

	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		<-s

		log.Info("shutting down")

		timeoutFunc := time.AfterFunc(timeout, func() {
			log.Error("shutdown timeout exceeded, forcing exit", slog.Duration("timeout", timeout))
			os.Exit(1)
		})
		defer timeoutFunc.Stop()

		var wg sync.WaitGroup
		for name, op := range ops {
			wg.Add(1)
			go func(name string, op Operation) {
				defer wg.Done()

				log.Info("cleaning up", slog.String("operation", name))
				if err := op(ctx); err != nil {
					log.Error("cleanup failed", slog.String("operation", name), sl.Err(err))
					return
				}
				log.Info("cleanup finished", slog.String("operation", name))
			}(name, op)
		}
		wg.Wait()

		close(wait)
	}()

	return wait
}
