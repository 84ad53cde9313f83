//go:build unix

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// watchReload calls reload on every SIGHUP until ctx ends.
func watchReload(ctx context.Context, reload func() error) {
	if reload == nil {
		return
	}
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := reload(); err != nil {
					fmt.Fprintf(os.Stderr, "Reload failed, keeping current config: %v\n", err)
				}
			}
		}
	}()
}
