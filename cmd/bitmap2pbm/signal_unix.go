//go:build unix

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cocosip/go-bitmap2pbm/pbm"
)

// watchSignals wires SIGUSR1 to an on-demand progress report and SIGINT
// to a graceful stop of the running encode. The returned function tears
// the wiring down.
func watchSignals(enc *pbm.Encoder) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1, os.Interrupt)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-ch:
				if sig == os.Interrupt {
					enc.Stop()
				} else {
					fmt.Fprintln(os.Stderr, enc.Progress())
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
