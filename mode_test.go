package sharad

import "testing"

func TestLookupMode(t *testing.T) {
	cases := []struct {
		code          string
		wantPresum    Presum
		wantBits      BitsPerSample
		wantRecordLen int
	}{
		{"SS04", 8, R8, AncillaryLength + (3600*8+7)/8},
		{"SS06", 2, R4, AncillaryLength + (3600*4+7)/8},
		{"RO13", 2, R8, AncillaryLength + (3600*8+7)/8},
	}

	for _, c := range cases {
		m, err := LookupMode(c.code)
		if err != nil {
			t.Fatalf("LookupMode(%q): unexpected error %v", c.code, err)
		}
		if m.PresumN != c.wantPresum {
			t.Errorf("LookupMode(%q).PresumN = %d, want %d", c.code, m.PresumN, c.wantPresum)
		}
		if m.BitsPerSample != c.wantBits {
			t.Errorf("LookupMode(%q).BitsPerSample = %d, want %d", c.code, m.BitsPerSample, c.wantBits)
		}
		if m.RecordLengthBytes != c.wantRecordLen {
			t.Errorf("LookupMode(%q).RecordLengthBytes = %d, want %d", c.code, m.RecordLengthBytes, c.wantRecordLen)
		}
	}
}

func TestLookupModeRejectsUnknownPrefix(t *testing.T) {
	for _, code := range []string{"XX04", "SS99", "RO00", "SS4"} {
		if _, err := LookupMode(code); err != ErrUnknownMode {
			t.Errorf("LookupMode(%q) = %v, want ErrUnknownMode", code, err)
		}
	}
}
