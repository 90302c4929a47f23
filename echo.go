package sharad

// DecodeEcho interprets an echo byte payload as a contiguous, MSB-first
// bitstream of exactly SamplesPerRecord*bits bits, cut into SamplesPerRecord
// consecutive signed two's-complement fields of the given width (C5). R=8
// is equivalent to reinterpreting the bytes as int8, grounded on
// SHERPA.py:readEDRrecord's bitstring.BitArray(echoes) loop.
func DecodeEcho(payload []byte, bits BitsPerSample) ([]int32, error) {
	if len(payload)*8 != SamplesPerRecord*int(bits) {
		return nil, ErrMalformedEchoPayload
	}

	samples := make([]int32, SamplesPerRecord)
	r := newBitReader(payload)

	for i := 0; i < SamplesPerRecord; i++ {
		samples[i] = int32(r.readInt(int(bits)))
	}

	return samples, nil
}
