// Package binarystream reads and writes streams of unsigned integers with
// arbitrary bit widths, packed MSB-first with no byte alignment.
//
// The wire format is a tight concatenation of bit-fields with no header and
// no per-field metadata: a value written with WriteBits(v, w) occupies
// exactly w bits, and the final byte of a stream is zero-padded in its
// low-order bits. Decoding requires driving a Reader with the same width
// sequence the Writer was driven with; the format is a paired-use contract,
// not self-describing.
package binarystream
