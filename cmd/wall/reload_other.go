//go:build !unix

package main

import "context"

// watchReload is a no-op without SIGHUP; press R in the window instead.
func watchReload(ctx context.Context, reload func() error) {}
