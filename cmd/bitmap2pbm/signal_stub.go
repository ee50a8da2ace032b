//go:build !unix

package main

import "github.com/cocosip/go-bitmap2pbm/pbm"

// watchSignals is a no-op where SIGUSR1 does not exist.
func watchSignals(enc *pbm.Encoder) func() {
	return func() {}
}
