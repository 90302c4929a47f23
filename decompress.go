package sharad

import "math"

// Decompress applies the scale factor 2^S/N to a decoded echo vector,
// recovering physical sample amplitudes (C6), per spec.md Sec 4.6.
//
// Static branch (compressionSelection == false): S = ceil(log2(N)) - R + 8.
//
// Dynamic branch (compressionSelection == true): S is derived from sdi.
// The source (SHERPA.py:decompressSciData) marks this branch as
// non-working and unreachable in practice (its boolean flag is clobbered
// before the comparison against True). It is implemented here per
// spec.md Sec 4.6's formula but gated behind allowDynamic; when
// compressionSelection is true and allowDynamic is false, decompression
// fails with ErrDynamicDecompression rather than emitting
// scientifically-unvalidated output.
func Decompress(echo []int32, compressionSelection bool, presum Presum, bits BitsPerSample, sdi uint16, allowDynamic bool) ([]float64, error) {
	n := float64(presum)

	var scale float64
	if !compressionSelection {
		l := math.Ceil(math.Log2(n))
		s := l - float64(bits) + 8
		scale = math.Pow(2, s) / n
	} else {
		if !allowDynamic {
			return nil, ErrDynamicDecompression
		}

		var s float64
		switch {
		case sdi <= 5:
			s = float64(sdi)
		case sdi <= 16:
			s = float64(sdi) - 6
		default:
			s = float64(sdi) - 16
		}
		scale = math.Pow(2, s) / n
	}

	out := make([]float64, len(echo))
	for i, v := range echo {
		out[i] = float64(v) * scale
	}

	return out, nil
}
