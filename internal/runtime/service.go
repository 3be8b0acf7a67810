package runtime

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// WithShutdown returns a context cancelled on SIGINT or SIGTERM. The
// returned stop releases the signal handler.
func WithShutdown(ctx context.Context, service string, log *zap.Logger) (context.Context, context.CancelFunc) {
	if service == "" {
		service = "service"
	}
	ctx, cancel := context.WithCancel(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ctx.Done():
		case sig := <-sigCh:
			log.Info("shutting down", zap.String("service", service), zap.String("signal", sig.String()))
			cancel()
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
