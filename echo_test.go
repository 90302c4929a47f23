package sharad

import "testing"

func TestDecodeEchoRejectsWrongLength(t *testing.T) {
	payload := make([]byte, 10)
	if _, err := DecodeEcho(payload, R8); err != ErrMalformedEchoPayload {
		t.Fatalf("DecodeEcho with wrong length = %v, want ErrMalformedEchoPayload", err)
	}
}

func TestDecodeEchoR8(t *testing.T) {
	payload := make([]byte, SamplesPerRecord)
	payload[0] = 0x7F  // +127
	payload[1] = 0x80  // -128
	payload[2] = 0xFF  // -1

	samples, err := DecodeEcho(payload, R8)
	if err != nil {
		t.Fatalf("DecodeEcho: %v", err)
	}
	if len(samples) != SamplesPerRecord {
		t.Fatalf("len(samples) = %d, want %d", len(samples), SamplesPerRecord)
	}
	if samples[0] != 127 || samples[1] != -128 || samples[2] != -1 {
		t.Fatalf("samples[0:3] = %v, want [127 -128 -1]", samples[:3])
	}
}

func TestDecodeEchoR4(t *testing.T) {
	bits := R4
	payload := make([]byte, (SamplesPerRecord*int(bits)+7)/8)
	payload[0] = 0x7F // nibbles: 0b0111=7, 0b1111=-1

	samples, err := DecodeEcho(payload, bits)
	if err != nil {
		t.Fatalf("DecodeEcho: %v", err)
	}
	if samples[0] != 7 || samples[1] != -1 {
		t.Fatalf("samples[0:2] = %v, want [7 -1]", samples[:2])
	}
}
