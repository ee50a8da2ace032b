package pbm

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// TransferCounters is a snapshot of the block transfer counters of one
// encode run. Counters only ever increase during a run; they reset when
// the next run starts.
type TransferCounters struct {
	BlocksIn  uint64
	BytesIn   uint64
	BlocksOut uint64
	BytesOut  uint64
}

// Progress combines a counter snapshot with the elapsed wall-clock time
type Progress struct {
	Counters TransferCounters
	Elapsed  time.Duration
}

// String renders the progress report: blocks and bytes in each direction,
// elapsed seconds and throughput in MB/s (bytes read / seconds / 1e6).
func (p Progress) String() string {
	s := p.Elapsed.Seconds()
	rate := 0.0
	if s > 0 {
		rate = float64(p.Counters.BytesIn) / s / 1e6
	}
	return fmt.Sprintf("%d blocks in (%d bytes)\n%d blocks out (%d bytes)\n%.0f s, %.1f MB/s",
		p.Counters.BlocksIn, p.Counters.BytesIn,
		p.Counters.BlocksOut, p.Counters.BytesOut, s, rate)
}

// Encoder copies an input bitstream verbatim into a P4 raster body,
// framing it with a header whose dimensions are deduced from the input
// size and the sizing parameters.
//
// Two sizing regimes exist. If the input supports seeking, the size is
// read up front and the header is final from the start. Otherwise the
// size is only known once the input is exhausted; the encoder reserves a
// fixed-width dimension field in the header and patches the real numbers
// in afterwards, which requires the output to support seeking.
//
// The transfer counters reset at the start of every Encode call. They
// may be read from another goroutine while Encode runs; Stop may
// likewise be called from another goroutine.
type Encoder struct {
	in     io.Reader
	out    io.Writer
	params *Parameters

	blocksIn  atomic.Uint64
	bytesIn   atomic.Uint64
	blocksOut atomic.Uint64
	bytesOut  atomic.Uint64
	stop      atomic.Bool

	start    time.Time
	dims     Dimensions
	cut      uint64
	resolved bool
}

// NewEncoder creates an encoder reading from in and writing to out.
// params may be nil, in which case defaults apply.
func NewEncoder(in io.Reader, out io.Writer, params *Parameters) (*Encoder, error) {
	if params == nil {
		params = NewParameters()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{in: in, out: out, params: params}, nil
}

// Encode runs one full encode: header, body transfer, and (in streamed
// mode) the dimension backpatch. It does not close the streams; the
// caller that opened them owns them.
func (e *Encoder) Encode() error {
	e.reset()

	streamed, dimPos, err := e.writeHeader()
	if err != nil {
		return err
	}

	if err := e.drain(); err != nil {
		return err
	}

	if streamed {
		return e.backpatch(dimPos)
	}
	return nil
}

func (e *Encoder) reset() {
	e.blocksIn.Store(0)
	e.bytesIn.Store(0)
	e.blocksOut.Store(0)
	e.bytesOut.Store(0)
	e.stop.Store(false)
	e.start = time.Now()
	e.dims = Dimensions{}
	e.cut = 0
	e.resolved = false
}

// writeHeader probes the input for seekability and emits the preamble
// plus either the final dimension text (seekable input) or a space-filled
// placeholder field (streamed input). For the streamed case it returns
// the output offset of the placeholder for the later backpatch.
func (e *Encoder) writeHeader() (streamed bool, dimPos int64, err error) {
	size, seekable, err := e.inputSize()
	if err != nil {
		return false, 0, err
	}

	if seekable {
		if err := e.resolve(uint64(size) * 8); err != nil {
			return false, 0, err
		}
		if err := writePreamble(e.out); err != nil {
			return false, 0, err
		}
		if _, err := io.WriteString(e.out, renderDimensions(e.dims)); err != nil {
			return false, 0, &IOError{Op: "write", Err: err}
		}
		return false, 0, nil
	}

	// Input size is unknown until drained, so the header has to be
	// rewritten later. Probe the output before writing anything:
	// os.Stdout satisfies io.Seeker even when it is a pipe.
	ws, ok := e.out.(io.WriteSeeker)
	if !ok {
		return false, 0, ErrOutputNotSeekable
	}
	if _, err := ws.Seek(0, io.SeekCurrent); err != nil {
		return false, 0, ErrOutputNotSeekable
	}

	if err := writePreamble(e.out); err != nil {
		return false, 0, err
	}
	dimPos, err = ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return false, 0, &IOError{Op: "seek", Err: err}
	}
	if _, err := io.WriteString(e.out, placeholderField()); err != nil {
		return false, 0, &IOError{Op: "write", Err: err}
	}
	return true, dimPos, nil
}

// inputSize measures the input by seeking to its end and back. A failed
// end-seek means the input is a pipe or similar and selects the streamed
// path; a failed rewind after a successful end-seek is a real I/O error.
func (e *Encoder) inputSize() (size int64, seekable bool, err error) {
	s, ok := e.in.(io.Seeker)
	if !ok {
		return 0, false, nil
	}
	size, err = s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, false, nil
	}
	if _, err = s.Seek(0, io.SeekStart); err != nil {
		return 0, false, &IOError{Op: "seek", Err: err}
	}
	return size, true, nil
}

// resolve runs the dimension resolver and records the result along with
// the bit cut diagnostic.
func (e *Encoder) resolve(totalBits uint64) error {
	dims, err := ResolveDimensions(totalBits, e.params.Aspect, e.params.Width, e.params.Height)
	if err != nil {
		return err
	}
	e.dims = dims
	e.cut = dims.Cut(totalBits)
	e.resolved = true
	return nil
}

// drain copies the input to the output in blocks, updating the counters
// after every block. The stop flag is checked only between blocks, so a
// requested stop never leaves a block half-counted.
func (e *Encoder) drain() error {
	block := make([]byte, e.params.BlockSize)

	for !e.stop.Load() {
		n, err := io.ReadFull(e.in, block)
		if n > 0 {
			e.blocksIn.Add(1)
			if _, werr := e.out.Write(block[:n]); werr != nil {
				return &IOError{Op: "write", Err: werr}
			}
			e.blocksOut.Add(1)
			e.bytesOut.Add(uint64(n))
		}
		e.bytesIn.Add(uint64(n))
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return &IOError{Op: "read", Err: err}
		}
	}
	return nil
}

// backpatch resolves the dimensions from the bytes actually transferred
// and overwrites the reserved field with the right-justified result. The
// rendered field is exactly the reserved length, so nothing after it in
// the output moves.
func (e *Encoder) backpatch(dimPos int64) error {
	if err := e.resolve(e.bytesIn.Load() * 8); err != nil {
		return err
	}
	ws := e.out.(io.WriteSeeker)
	if _, err := ws.Seek(dimPos, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Err: err}
	}
	if _, err := io.WriteString(ws, renderDimensionField(e.dims)); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// Stop requests a graceful early stop. Draining ends after the block in
// flight; finalization still runs, so in streamed mode the header is
// patched to cover the bytes transferred so far. A stopped run is not an
// error.
func (e *Encoder) Stop() {
	e.stop.Store(true)
}

// Stopped reports whether an early stop was requested.
func (e *Encoder) Stopped() bool {
	return e.stop.Load()
}

// Counters returns a snapshot of the transfer counters. Safe to call
// from another goroutine while Encode runs.
func (e *Encoder) Counters() TransferCounters {
	return TransferCounters{
		BlocksIn:  e.blocksIn.Load(),
		BytesIn:   e.bytesIn.Load(),
		BlocksOut: e.blocksOut.Load(),
		BytesOut:  e.bytesOut.Load(),
	}
}

// Progress returns the counter snapshot together with the elapsed time
// of the current (or finished) run.
func (e *Encoder) Progress() Progress {
	var elapsed time.Duration
	if !e.start.IsZero() {
		elapsed = time.Since(e.start)
	}
	return Progress{Counters: e.Counters(), Elapsed: elapsed}
}

// Dimensions returns the resolved image geometry. Valid once Encode has
// resolved it: immediately for seekable input, after draining otherwise.
func (e *Encoder) Dimensions() (Dimensions, bool) {
	return e.dims, e.resolved
}

// BitsCut returns the number of trailing input bits outside the declared
// raster geometry. Valid under the same conditions as Dimensions.
func (e *Encoder) BitsCut() uint64 {
	return e.cut
}
