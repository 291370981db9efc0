// Package system provides small lifecycle helpers shared by the services.
package system

import (
	"context"
)

// RunWithContext executes a teardown operation with context awareness.
// Teardown must release resources deterministically even when the caller's
// context is cancelled, so the operation runs under its own context and is
// signalled — not abandoned — on cancellation.
//
// Returns nil on success, the operation's error on failure, or the
// operation's eventual result after the parent context was cancelled.
func RunWithContext(ctx context.Context, operation func(context.Context) error) error {
	// Fast feedback if the caller already gave up before teardown started.
	if err := ctx.Err(); err != nil {
		return err
	}

	// The operation gets an independent context so cancellation of the
	// parent signals it without tearing the rug out mid-release.
	opCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Buffered so the goroutine can exit even if nobody reads immediately.
	done := make(chan error, 1)

	go func() {
		done <- operation(opCtx)
		close(done)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// Signal the operation to wrap up, then wait for it: resources
		// must still be released on this path.
		cancel()
		return <-done
	}
}
