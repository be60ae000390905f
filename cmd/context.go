package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// contextWithUserTermination returns a context cancelled on SIGINT or
// SIGTERM
func contextWithUserTermination(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	interruptChan := make(chan os.Signal, 1)
	signal.Notify(interruptChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interruptChan
		log.Debug("termination signal received")
		signal.Stop(interruptChan)
		cancel()
	}()

	return ctx
}
