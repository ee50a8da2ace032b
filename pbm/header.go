package pbm

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Version of the encoder, recorded in the output comment line
const Version = "1.0.0"

// headerComment is the creator line written after the P4 magic
const headerComment = "# CREATOR: bitmap2pbm Version " + Version

// dimFieldLen is the reserved width of the dimension field in streamed
// mode: 20 digits for each of two 64-bit decimal numbers plus one
// separator. The field always ends in a single space so the raster
// offset never moves when the real numbers are patched in.
const dimFieldLen = 20 + 1 + 20

// magic for the packed-bit PBM variant
const magic = "P4"

// renderDimensions returns the exact-width dimension text used on the
// seekable path, where the final digit count is known up front.
func renderDimensions(d Dimensions) string {
	return fmt.Sprintf("%d %d ", d.Width, d.Height)
}

// renderDimensionField right-justifies the dimension text inside the
// reserved field, space-filling the vacated leading bytes. The result is
// always exactly dimFieldLen bytes and ends with a space.
func renderDimensionField(d Dimensions) string {
	text := fmt.Sprintf("%d %d", d.Width, d.Height)
	return strings.Repeat(" ", dimFieldLen-1-len(text)) + text + " "
}

// placeholderField is what the streamed path writes before the real
// dimensions are known.
func placeholderField() string {
	return strings.Repeat(" ", dimFieldLen)
}

// writePreamble writes the magic and comment lines. The dimension field
// follows separately, since its shape depends on the sizing path.
func writePreamble(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", magic, headerComment); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// ParseHeader reads a P4 header from r and returns the declared
// dimensions. It accepts any amount of whitespace between tokens and
// skips '#' comment lines, so it handles both the exact-width and the
// space-padded streamed header variants. Bytes are read one at a time;
// on return r is positioned at the first raster byte.
func ParseHeader(r io.Reader) (Dimensions, error) {
	for _, want := range []byte(magic) {
		b, err := readHeaderByte(r)
		if err != nil {
			return Dimensions{}, err
		}
		if b != want {
			return Dimensions{}, ErrInvalidHeader
		}
	}

	var d Dimensions
	for _, field := range []*uint64{&d.Width, &d.Height} {
		n, err := readHeaderNumber(r)
		if err != nil {
			return Dimensions{}, err
		}
		*field = n
	}
	if d.Width == 0 || d.Height == 0 {
		return Dimensions{}, ErrInvalidHeader
	}
	return d, nil
}

func readHeaderByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, &IOError{Op: "read", Err: err}
	}
	return buf[0], nil
}

// readHeaderNumber skips whitespace and comment lines, then reads one
// decimal number terminated by a single whitespace byte. The terminating
// byte is consumed, so after the height the reader sits on the raster.
func readHeaderNumber(r io.Reader) (uint64, error) {
	var (
		n      uint64
		digits int
	)
	for {
		b, err := readHeaderByte(r)
		if err != nil {
			if digits > 0 && errors.Is(err, io.EOF) {
				return n, nil
			}
			return 0, err
		}
		switch {
		case b >= '0' && b <= '9':
			n = n*10 + uint64(b-'0')
			digits++
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if digits > 0 {
				return n, nil
			}
		case b == '#' && digits == 0:
			for b != '\n' {
				if b, err = readHeaderByte(r); err != nil {
					return 0, err
				}
			}
		default:
			return 0, ErrInvalidHeader
		}
	}
}
