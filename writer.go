package binarystream

import (
	"bufio"
	"fmt"
	"io"
)

// Writer packs unsigned integers of arbitrary bit widths into a byte sink,
// MSB-first. Bits accumulate high-order aligned in a one-byte buffer; every
// completed byte is emitted to the sink as a side effect of WriteBits.
// A Writer is not safe for concurrent use.
type Writer struct {
	out     io.ByteWriter
	wrapper *bufio.Writer // set when the sink had to be wrapped for byte output
	cur     byte          // partial byte, valid bits high-order aligned
	filled  int           // number of valid bits in cur, 0..7
	closed  bool
}

// NewWriter returns a Writer emitting packed bytes to out. If out does not
// implement io.ByteWriter it is wrapped in a bufio.Writer, which Flush and
// Close drain.
func NewWriter(out io.Writer) *Writer {
	if bw, ok := out.(io.ByteWriter); ok {
		return &Writer{out: bw}
	}

	wrapper := bufio.NewWriter(out)

	return &Writer{out: wrapper, wrapper: wrapper}
}

// WriteBits appends the low width bits of value to the stream, most
// significant bit first. Valid widths are 1..MaxWidth; bits of value above
// width are ignored. Writing emits floor((filled+width)/8) bytes to the
// sink, where filled is the number of bits pending from earlier calls.
func (w *Writer) WriteBits(value uint64, width int) error {
	if w.closed {
		return ErrClosed
	}

	if width < 1 || width > MaxWidth {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	// Fill and emit whole bytes while more than a byte of value remains.
	for width > 8 {
		free := 8 - w.filled
		w.cur |= byte(value>>(width-free)) & ones[free]

		if err := w.emit(); err != nil {
			return err
		}

		width -= free
	}

	rem := byte(value) & ones[width]
	total := w.filled + width

	switch {
	case total < 8:
		w.cur |= rem << (8 - total)
		w.filled = total
	case total == 8:
		// rem's low bits complement cur's high bits exactly. With an empty
		// buffer this is a plain byte pass-through.
		w.cur |= rem

		return w.emit()
	default:
		// The remainder straddles the byte boundary.
		spill := total - 8
		w.cur |= rem >> spill

		if err := w.emit(); err != nil {
			return err
		}

		w.cur = (rem & ones[spill]) << (8 - spill)
		w.filled = spill
	}

	return nil
}

// Flush emits the pending partial byte, zero-padding its unfilled low-order
// bits, then drains the bufio wrapper if one is in place. Flushing
// mid-stream forces a byte boundary: the next value starts on a fresh byte
// and a paired Reader must account for the padding bits.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}

	if w.filled > 0 {
		if err := w.emit(); err != nil {
			return err
		}
	}

	if w.wrapper != nil {
		if err := w.wrapper.Flush(); err != nil {
			return fmt.Errorf("flushing sink: %w", err)
		}
	}

	return nil
}

// Close flushes pending bits and marks the Writer closed. It does not close
// the underlying sink. Close is idempotent; WriteBits and Flush after Close
// return ErrClosed.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	err := w.Flush()
	w.closed = true

	return err
}

// emit writes the completed buffer byte to the sink and resets buffer state.
// A sink failure closes the Writer: the buffer may hold a half-assembled
// byte at that point, and accepting further writes would corrupt the stream.
func (w *Writer) emit() error {
	if err := w.out.WriteByte(w.cur); err != nil {
		w.closed = true

		return fmt.Errorf("writing packed byte: %w", err)
	}

	w.cur, w.filled = 0, 0

	return nil
}
