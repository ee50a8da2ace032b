package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/cocosip/go-bitmap2pbm/pbm"
)

func writeInput(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing input file: %v", err)
	}
	return path
}

func testPattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 13)
	}
	return data
}

func TestRunEncodesFile(t *testing.T) {
	input := testPattern(10)
	inPath := writeInput(t, "in.dat", input)
	outPath := filepath.Join(t.TempDir(), "out.pbm")

	if code := run([]string{"--if", inPath, "--of", outPath, "--width", "16"}); code != exitOK {
		t.Fatalf("run exit code = %d, want %d", code, exitOK)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	dims, err := pbm.ParseHeader(f)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if want := (pbm.Dimensions{Width: 16, Height: 5}); dims != want {
		t.Errorf("dimensions = %dx%d, want 16x5", dims.Width, dims.Height)
	}
	body, _ := io.ReadAll(f)
	if !bytes.Equal(body, input) {
		t.Errorf("raster body differs from input")
	}
}

func TestRunZstdInputTakesStreamedPath(t *testing.T) {
	input := testPattern(1000)

	var compressed bytes.Buffer
	zw, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	if _, err := zw.Write(input); err != nil {
		t.Fatalf("compressing input: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zstd writer: %v", err)
	}

	inPath := writeInput(t, "in.zst", compressed.Bytes())
	outPath := filepath.Join(t.TempDir(), "out.pbm")

	if code := run([]string{"--if", inPath, "--of", outPath}); code != exitOK {
		t.Fatalf("run exit code = %d, want %d", code, exitOK)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	dims, err := pbm.ParseHeader(f)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if dims.Width%8 != 0 || dims.Height < 1 {
		t.Errorf("implausible dimensions %dx%d", dims.Width, dims.Height)
	}
	body, _ := io.ReadAll(f)
	if !bytes.Equal(body, input) {
		t.Errorf("raster body differs from decompressed input")
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
		want int
	}{
		{
			name: "version",
			args: func(t *testing.T) []string { return []string{"--version"} },
			want: exitOK,
		},
		{
			name: "unaligned width",
			args: func(t *testing.T) []string {
				return []string{"--if", writeInput(t, "in.dat", testPattern(10)), "--width", "17", "--of", filepath.Join(t.TempDir(), "o")}
			},
			want: exitErr,
		},
		{
			name: "aspect with height",
			args: func(t *testing.T) []string {
				return []string{"--if", writeInput(t, "in.dat", testPattern(10)), "--aspect", "1.5", "--height", "5", "--of", filepath.Join(t.TempDir(), "o")}
			},
			want: exitErr,
		},
		{
			name: "empty input",
			args: func(t *testing.T) []string {
				return []string{"--if", writeInput(t, "in.dat", nil), "--of", filepath.Join(t.TempDir(), "o")}
			},
			want: exitErr,
		},
		{
			name: "missing input file",
			args: func(t *testing.T) []string {
				return []string{"--if", filepath.Join(t.TempDir(), "does-not-exist")}
			},
			want: exitErr,
		},
		{
			name: "stray argument",
			args: func(t *testing.T) []string { return []string{"stray"} },
			want: exitErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := run(tt.args(t)); code != tt.want {
				t.Errorf("run exit code = %d, want %d", code, tt.want)
			}
		})
	}
}
