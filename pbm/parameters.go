package pbm

// DefaultBlockSize is the transfer block size used when none is given
const DefaultBlockSize = 512

// DefaultAspect is the aspect ratio used when neither aspect nor
// dimensions are given (4:3)
const DefaultAspect = float64(4) / 3

// Parameters contains sizing and transfer parameters for an encode run
type Parameters struct {
	// Aspect is the desired width/height ratio of the image.
	// 0 means "not given"; mutually exclusive with Width and Height.
	Aspect float64

	// Width is the image width in pixels (must be a multiple of 8).
	// 0 means "not given".
	Width uint64

	// Height is the image height in pixels. 0 means "not given".
	Height uint64

	// BlockSize is the number of bytes moved per read/write call
	BlockSize int
}

// NewParameters creates Parameters with default values
func NewParameters() *Parameters {
	return &Parameters{
		BlockSize: DefaultBlockSize,
	}
}

// WithAspect sets the aspect ratio and returns the parameters for chaining
func (p *Parameters) WithAspect(aspect float64) *Parameters {
	p.Aspect = aspect
	return p
}

// WithWidth sets the width and returns the parameters for chaining
func (p *Parameters) WithWidth(width uint64) *Parameters {
	p.Width = width
	return p
}

// WithHeight sets the height and returns the parameters for chaining
func (p *Parameters) WithHeight(height uint64) *Parameters {
	p.Height = height
	return p
}

// WithBlockSize sets the transfer block size and returns the parameters for chaining
func (p *Parameters) WithBlockSize(blockSize int) *Parameters {
	p.BlockSize = blockSize
	return p
}

// Validate checks if the parameters are valid
func (p *Parameters) Validate() error {
	if p.BlockSize <= 0 {
		return ErrInvalidBlockSize
	}
	if p.Aspect != 0 && (p.Width != 0 || p.Height != 0) {
		return ErrAspectConflict
	}
	if p.Width != 0 && p.Width%8 != 0 {
		return ErrWidthNotByteAligned
	}
	return nil
}
