// Package loop connects a terminal to a simulation runner: it drives the
// runner in the background and runs the interactive client in front of it.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/tomz197/tunnelless/internal/sim"
)

// Run steps r on its own goroutine and runs a client on in/w until the user
// quits or ctx is cancelled. The runner is stopped before Run returns.
func Run(ctx context.Context, r *sim.Runner, in *bufio.Reader, w io.Writer, opts ClientOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	err := NewClient(r, in, w, opts).Run(ctx)
	cancel()
	<-done
	return err
}
