// Command inspectpbm prints the geometry declared by a P4 file header
// and checks it against the actual raster size.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cocosip/go-bitmap2pbm/pbm"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspectpbm <file.pbm>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open file: %s\n", os.Args[1])
		os.Exit(1)
	}
	defer f.Close()

	dims, err := pbm.ParseHeader(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad header: %v\n", err)
		os.Exit(1)
	}

	rasterBytes, err := io.Copy(io.Discard, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Reading raster: %v\n", err)
		os.Exit(2)
	}

	declared := dims.Width / 8 * dims.Height
	fmt.Printf("Geometry: %dx%d\n", dims.Width, dims.Height)
	fmt.Printf("Raster: %d bytes (%d declared)\n", rasterBytes, declared)
	switch {
	case uint64(rasterBytes) < declared:
		fmt.Printf("Raster is %d bytes short of the declared size\n", declared-uint64(rasterBytes))
	case uint64(rasterBytes) > declared:
		fmt.Printf("%d trailing bytes beyond the declared size\n", uint64(rasterBytes)-declared)
	}
}
