package sharad

import (
	"math"
	"testing"
)

func TestDecompressStaticScaleFactor(t *testing.T) {
	// N=8, R=8: S = ceil(log2(8)) - 8 + 8 = 3, scale = 2^3/8 = 1.0
	echo := []int32{10, -10, 0}
	out, err := Decompress(echo, false, 8, R8, 0, false)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	want := []float64{10, -10, 0}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestDecompressDynamicRequiresOptIn(t *testing.T) {
	_, err := Decompress([]int32{1}, true, 8, R8, 5, false)
	if err != ErrDynamicDecompression {
		t.Fatalf("Decompress with dynamic disabled = %v, want ErrDynamicDecompression", err)
	}
}

func TestDecompressDynamicSdiRanges(t *testing.T) {
	cases := []struct {
		sdi     uint16
		wantExp float64
	}{
		{0, 0},
		{5, 5},
		{6, 0},
		{16, 10},
		{17, 1},
	}

	for _, c := range cases {
		out, err := Decompress([]int32{1}, true, 1, R8, c.sdi, true)
		if err != nil {
			t.Fatalf("Decompress(sdi=%d): %v", c.sdi, err)
		}
		want := math.Pow(2, c.wantExp)
		if math.Abs(out[0]-want) > 1e-9 {
			t.Errorf("Decompress(sdi=%d) scale = %v, want %v", c.sdi, out[0], want)
		}
	}
}
