package pbm

import "math"

// Dimensions holds the resolved width and height of an image in pixels.
// Width is always a positive multiple of 8: one output byte carries 8
// horizontal pixels and the P4 raster has no partial-byte rows.
type Dimensions struct {
	Width  uint64
	Height uint64
}

// ResolveDimensions deduces image dimensions from the number of available
// input bits and optional hints. aspect == 0 means "not given" (the 4:3
// default applies); width or height == 0 means "not given". At most one of
// aspect and width/height may be given.
//
// All divisions truncate. The resolver never rounds up: rounding up would
// declare pixels the input has no bits for.
func ResolveDimensions(totalBits uint64, aspect float64, width, height uint64) (Dimensions, error) {
	if totalBits == 0 {
		return Dimensions{}, ErrEmptyInput
	}

	if aspect != 0 {
		if width != 0 || height != 0 {
			return Dimensions{}, ErrAspectConflict
		}
	} else {
		aspect = DefaultAspect
	}

	switch {
	case width != 0:
		if width%8 != 0 {
			return Dimensions{}, ErrWidthNotByteAligned
		}
		if height != 0 {
			// Both given: used as-is, bounded by the available bits.
			// Trailing bits beyond width*height are reported via Cut.
			if width*height > totalBits {
				return Dimensions{}, ErrImageExceedsInput
			}
		} else {
			height = totalBits / width
			if height == 0 {
				return Dimensions{}, ErrWidthTooLarge
			}
		}

	case height != 0:
		width = (totalBits / height) / 8 * 8
		if width == 0 {
			return Dimensions{}, ErrHeightTooLarge
		}

	default:
		width = uint64(math.Sqrt(float64(totalBits)*aspect)) / 8 * 8
		if width == 0 {
			width = 8
		}
		height = totalBits / width
	}

	return Dimensions{Width: width, Height: height}, nil
}

// Cut returns the number of trailing input bits not covered by any
// complete row of the resolved geometry. The bytes carrying them are
// still written to the raster body; they just exceed the declared size.
func (d Dimensions) Cut(totalBits uint64) uint64 {
	return totalBits - d.Width*d.Height
}
