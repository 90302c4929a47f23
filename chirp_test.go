package sharad

import "testing"

func TestNearestAnchorIndexTieBreaksLow(t *testing.T) {
	anchors := []float64{-20, -15, -10, -5, 0, 20, 40, 60}
	// -7.5 sits exactly between -10 and -5: ties break to the lower index.
	if got := nearestAnchorIndex(-7.5, anchors); got != 2 {
		t.Fatalf("nearestAnchorIndex(-7.5) = %d, want 2 (-10)", got)
	}
}

func TestNearestAnchorIndexPicksClosest(t *testing.T) {
	anchors := []float64{-20, 0, 20, 40, 60}
	if got := nearestAnchorIndex(18, anchors); got != 2 {
		t.Fatalf("nearestAnchorIndex(18) = %d, want 2 (20)", got)
	}
	if got := nearestAnchorIndex(-19, anchors); got != 0 {
		t.Fatalf("nearestAnchorIndex(-19) = %d, want 0 (-20)", got)
	}
}

func TestCalibrationFileName(t *testing.T) {
	got := CalibrationFileName(-7.5, 18)
	want := "reference_chirp_m10tx_p20rx.dat"
	if got != want {
		t.Fatalf("CalibrationFileName(-7.5, 18) = %q, want %q", got, want)
	}
}

func TestChirpLength(t *testing.T) {
	cases := []struct {
		mode ChirpMode
		want int
	}{
		{ChirpIdeal, SamplesPerRecord},
		{ChirpUPB, SamplesPerRecord},
		{ChirpRef, 4096},
		{ChirpVibro, 4096},
	}
	for _, c := range cases {
		got, err := ChirpLength(c.mode)
		if err != nil {
			t.Fatalf("ChirpLength(%v): %v", c.mode, err)
		}
		if got != c.want {
			t.Errorf("ChirpLength(%v) = %d, want %d", c.mode, got, c.want)
		}
	}
	if _, err := ChirpLength("bogus"); err != ErrUnsupportedChirpMode {
		t.Fatalf("ChirpLength(bogus) = %v, want ErrUnsupportedChirpMode", err)
	}
}

func TestChirpIdealLengthCorrect(t *testing.T) {
	p := NewChirpProvider(fakeBank{})
	spec, err := p.Chirp(0, 0, ChirpIdeal)
	if err != nil {
		t.Fatalf("Chirp(ideal): %v", err)
	}
	if len(spec) != SamplesPerRecord {
		t.Fatalf("len(spec) = %d, want %d", len(spec), SamplesPerRecord)
	}
}

// fakeBank is a CalibrationBank that serves no files; only exercised by
// chirp modes that never touch the bank (ideal).
type fakeBank struct{}

func (fakeBank) ReadFile(name string) ([]byte, error) {
	return nil, ErrMissingCalibrationFile
}
