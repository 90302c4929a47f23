package sharad

import "testing"

func TestBitReaderReadUint(t *testing.T) {
	// 0b10110100, 0b11000000
	data := []byte{0xB4, 0xC0}
	r := newBitReader(data)

	if got := r.readUint(4); got != 0b1011 {
		t.Fatalf("readUint(4) = %b, want 1011", got)
	}
	if got := r.readUint(4); got != 0b0100 {
		t.Fatalf("readUint(4) = %b, want 0100", got)
	}
	if got := r.readUint(2); got != 0b11 {
		t.Fatalf("readUint(2) = %b, want 11", got)
	}
}

func TestBitReaderReadIntTwosComplement(t *testing.T) {
	cases := []struct {
		bits  []byte
		width int
		want  int64
	}{
		{[]byte{0b0111_0000}, 4, 7},
		{[]byte{0b1111_0000}, 4, -1},
		{[]byte{0b1000_0000}, 4, -8},
		{[]byte{0b0000_0000}, 4, 0},
	}

	for _, c := range cases {
		r := newBitReader(c.bits)
		if got := r.readInt(c.width); got != c.want {
			t.Errorf("readInt(%d) on %08b = %d, want %d", c.width, c.bits[0], got, c.want)
		}
	}
}

func TestBitReaderSkipAdvancesCursor(t *testing.T) {
	data := []byte{0xFF, 0x0F}
	r := newBitReader(data)
	r.skip(4)
	if got := r.readUint(8); got != 0xF0 {
		t.Fatalf("readUint(8) after skip(4) = %x, want f0", got)
	}
}

func TestExtractUint(t *testing.T) {
	data := []byte{0b0000_1111, 0b1111_0000}
	if got := extractUint(data, 4, 8); got != 0xFF {
		t.Fatalf("extractUint = %x, want ff", got)
	}
}
