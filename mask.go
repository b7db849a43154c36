package binarystream

// MaxWidth is the widest bit-field either side of the codec accepts, the
// capacity of a uint64 value.
const MaxWidth = 64

// ones maps a bit width in [1, 8] to the byte whose low-order bits of that
// width are all set: ones[w] == 1<<w - 1. Index 0 is unused. Masking an
// extracted field with ones keeps higher bits from leaking into a partial
// byte.
var ones = [9]byte{0x00, 0x01, 0x03, 0x07, 0x0F, 0x1F, 0x3F, 0x7F, 0xFF}
