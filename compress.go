package sharad

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// RangeCompress applies the matched filter to a decompressed echo, per
// spec.md Sec 4.9:
//
//	E  = DFT(e) / L
//	R' = conj(reference)
//	Y  = IDFT(R' * E) * L
//
// reference is the length-L complex sequence produced by ChirpProvider.
// Crucially, for ChirpRef the reference slice holds the calibration
// chirp's raw *time-domain* samples (zero-padded to L) rather than its
// spectrum -- C9 does not know or care which domain it received, it always
// conjugates and multiplies elementwise against E. This reproduces the
// source's domain-mixing behavior for ref/vibro modes exactly (see
// spec.md Sec 9); ideal/upb/vibro reference values are already
// frequency-domain, so for those modes the multiplication is the ordinary
// matched filter.
//
// window, if non-nil, must have length L, but is accepted purely for
// interface parity with the source -- the source plumbs a window through
// to this stage and never applies it, so this implementation preserves
// that by ignoring it (see spec.md Sec 4.8, Sec 9). Use ApplyWindow
// explicitly before calling RangeCompress to opt into windowing.
func RangeCompress(echo []float64, reference []complex128, window []float64) ([]complex128, error) {
	l := len(reference)
	if l == 0 {
		return nil, ErrUnsupportedChirpMode
	}

	e := make([]float64, l)
	copy(e, echo)

	cfft := fourier.NewCmplxFFT(l)

	ec := make([]complex128, l)
	for i, v := range e {
		ec[i] = complex(v, 0)
	}

	spectrum := cfft.Coefficients(nil, ec)
	ln := complex(float64(l), 0)
	for i := range spectrum {
		spectrum[i] /= ln
	}

	product := make([]complex128, l)
	for i := range product {
		product[i] = cmplx.Conj(reference[i]) * spectrum[i]
	}

	y := cfft.Sequence(nil, product)

	return y, nil
}
