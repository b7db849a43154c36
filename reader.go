package binarystream

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/mycophonic/primordium/fault"
)

// Reader reassembles unsigned integers of arbitrary bit widths from a byte
// source packed by a Writer. The caller must request exactly the width
// sequence the stream was written with. A Reader is not safe for concurrent
// use.
type Reader struct {
	in        io.ByteReader
	cur       byte   // byte being consumed, unconsumed bits high-order aligned
	valid     int    // number of unconsumed bits in cur, 0..8
	queue     []byte // lookahead bytes pulled from the source, not yet consumed
	exhausted bool   // source reported EOF; never resets
	closed    bool
}

// NewReader returns a Reader decoding packed values from in. If in does not
// implement io.ByteReader it is wrapped in a bufio.Reader.
func NewReader(in io.Reader) *Reader {
	if br, ok := in.(io.ByteReader); ok {
		return &Reader{in: br}
	}

	return &Reader{in: bufio.NewReader(in)}
}

// ReadBits returns the next width-bit value, most significant bit first.
// Valid widths are 1..MaxWidth.
//
// Once the source is exhausted and the buffered bits cannot cover the
// requested width, ReadBits returns io.EOF and keeps returning it on every
// subsequent call. One trailing case is served instead of the sentinel:
// whole bytes still buffered at a byte boundary are returned one per call
// as 8-bit values, regardless of the requested width. Residual bits
// narrower than a byte are the writer's zero padding and are discarded.
func (r *Reader) ReadBits(width int) (uint64, error) {
	if r.closed {
		return 0, ErrClosed
	}

	if width < 1 || width > MaxWidth {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	if err := r.fill(width); err != nil {
		return 0, err
	}

	if avail := r.valid + 8*len(r.queue); avail < width {
		if r.valid%8 != 0 || avail < 8 {
			// Terminal: whatever is left is padding, not a decodable value.
			r.cur, r.valid, r.queue = 0, 0, nil

			return 0, io.EOF
		}

		// Trailing whole byte: served as an 8-bit value even though the
		// requested width can no longer be assembled.
		width = 8
	}

	var v uint64

	for n := width; n > 0; {
		if r.valid == 0 {
			r.cur = r.queue[0]
			r.queue = r.queue[1:]
			r.valid = 8
		}

		take := min(n, r.valid)
		v = v<<take | uint64(r.cur>>(8-take))
		r.cur <<= take
		r.valid -= take
		n -= take
	}

	return v, nil
}

// Close releases the Reader. It does not close the underlying source.
// Close is idempotent; ReadBits after Close returns ErrClosed.
func (r *Reader) Close() error {
	r.closed = true
	r.queue = nil

	return nil
}

// fill pulls whole bytes from the source into the lookahead queue until the
// requested width is covered or the source reports exhaustion.
func (r *Reader) fill(width int) error {
	for !r.exhausted && r.valid+8*len(r.queue) < width {
		b, err := r.in.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.exhausted = true

				return nil
			}

			return fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}

		r.queue = append(r.queue, b)
	}

	return nil
}
