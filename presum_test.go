package sharad

import "testing"

func TestPresumFactor(t *testing.T) {
	cases := []struct {
		p, n int
		want int
	}{
		{32, 8, 4},
		{8, 8, 1},
		{1, 8, 1}, // P < N forces F=1
		{0, 8, 1},
		{100, 4, 25},
	}

	for _, c := range cases {
		got := presumFactor(c.p, Presum(c.n))
		if got != c.want {
			t.Errorf("presumFactor(%d, %d) = %d, want %d", c.p, c.n, got, c.want)
		}
	}
}
