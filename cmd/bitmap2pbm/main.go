// Command bitmap2pbm creates a P4 type PBM image from a binary file,
// treating each input bit as one pixel. It is handy for visualizing the
// allocation pattern of raw binary data such as disk block usage maps.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/cocosip/go-bitmap2pbm/pbm"
)

// Exit codes: success, sizing/config failure, I/O failure
const (
	exitOK = iota
	exitErr
	exitIOErr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bitmap2pbm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	aspect := fs.Float64("aspect", 0, "aspect ratio of image (default 4:3)")
	width := fs.Uint64("width", 0, "image width in pixels (multiple of 8)")
	height := fs.Uint64("height", 0, "image height in pixels")
	inPath := fs.String("if", "", "input file (default: stdin); a .zst file is decompressed")
	outPath := fs.String("of", "", "output file (default: stdout)")
	blockSize := fs.Int("bs", pbm.DefaultBlockSize, "block size to read/write")
	version := fs.Bool("version", false, "print version")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr,
			"Usage: bitmap2pbm [options]\n\n"+
				"Creates a P4 type PBM image from a binary file.\n\n"+
				"Options:\n")
		fs.PrintDefaults()
		fmt.Fprint(os.Stderr,
			"\nExample 1: bitmap2pbm --if usagemap.dat --of image.pbm\n"+
				"Example 2: cat usagemap.dat | bitmap2pbm --of image.pbm\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitErr
	}
	if *version {
		fmt.Printf("Version: %s\n", pbm.Version)
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Invalid option(s): %s\n", strings.Join(fs.Args(), " "))
		return exitErr
	}

	in := io.Reader(os.Stdin)
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open input file: %s\n", *inPath)
			return exitErr
		}
		defer f.Close()
		in = f

		if strings.HasSuffix(*inPath, ".zst") {
			// A decompressed stream has no known size, so this always
			// takes the streamed sizing path.
			zr, err := zstd.NewReader(f)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Cannot open zstd input: %v\n", err)
				return exitErr
			}
			defer zr.Close()
			in = zr
		}
	}

	out := io.Writer(os.Stdout)
	toStdout := true
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open output file: %s\n", *outPath)
			return exitErr
		}
		defer f.Close()
		out = f
		toStdout = false
	}

	params := pbm.NewParameters().
		WithAspect(*aspect).
		WithWidth(*width).
		WithHeight(*height).
		WithBlockSize(*blockSize)

	enc, err := pbm.NewEncoder(in, out, params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitErr
	}

	stopWatching := watchSignals(enc)
	defer stopWatching()

	if err := enc.Encode(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if pbm.IsIOError(err) {
			fmt.Fprintln(os.Stderr, "I/O error")
			fmt.Fprintln(os.Stderr, enc.Progress())
			return exitIOErr
		}
		fmt.Fprintln(os.Stderr, enc.Progress())
		return exitErr
	}

	if cut := enc.BitsCut(); cut != 0 {
		fmt.Fprintf(os.Stderr, "%d bits were cut\n", cut)
	}
	if !toStdout {
		fmt.Println(enc.Progress())
	}
	return exitOK
}
