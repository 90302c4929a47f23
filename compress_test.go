package sharad

import "testing"

func TestRangeCompressOutputLength(t *testing.T) {
	l := 8
	echo := make([]float64, l)
	reference := make([]complex128, l)
	for i := range reference {
		reference[i] = complex(1, 0)
	}

	y, err := RangeCompress(echo, reference, nil)
	if err != nil {
		t.Fatalf("RangeCompress: %v", err)
	}
	if len(y) != l {
		t.Fatalf("len(y) = %d, want %d", len(y), l)
	}
}

func TestRangeCompressZeroEchoProducesZeroOutput(t *testing.T) {
	l := 16
	echo := make([]float64, l)
	reference := make([]complex128, l)
	for i := range reference {
		reference[i] = complex(float64(i+1), float64(-i))
	}

	y, err := RangeCompress(echo, reference, nil)
	if err != nil {
		t.Fatalf("RangeCompress: %v", err)
	}
	for i, v := range y {
		if v != 0 {
			t.Fatalf("y[%d] = %v, want 0 for all-zero echo", i, v)
		}
	}
}

func TestRangeCompressRejectsEmptyReference(t *testing.T) {
	if _, err := RangeCompress([]float64{1, 2, 3}, nil, nil); err != ErrUnsupportedChirpMode {
		t.Fatalf("RangeCompress with empty reference = %v, want ErrUnsupportedChirpMode", err)
	}
}
