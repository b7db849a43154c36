package binarystream

import "testing"

func TestOnesMask(t *testing.T) {
	t.Parallel()

	for w := 1; w <= 8; w++ {
		want := byte((1 << w) - 1)
		if got := 0xFF & ones[w]; got != want {
			t.Errorf("ones[%d]: got %#02x, want %#02x", w, got, want)
		}
	}
}
