package sharad

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ChirpMode selects the calibrated-chirp reconstruction strategy (C7).
type ChirpMode string

const (
	ChirpIdeal ChirpMode = "ideal"
	ChirpUPB   ChirpMode = "upb"
	ChirpRef   ChirpMode = "ref"
	ChirpVibro ChirpMode = "vibro"
)

// ChirpLength returns the reference spectrum length L for a given chirp
// mode: 3600 for ideal/upb, 4096 for ref/vibro.
func ChirpLength(mode ChirpMode) (int, error) {
	switch mode {
	case ChirpIdeal, ChirpUPB:
		return SamplesPerRecord, nil
	case ChirpRef, ChirpVibro:
		return 4096, nil
	default:
		return 0, ErrUnsupportedChirpMode
	}
}

// Ideal chirp synthesis constants, grounded on SHERPA.py:detChirpFiles's
// ideal/UPB branch.
const (
	idealFLo       = 15.00e6
	idealFHi       = 25.00e6
	idealPulseLen  = 85.05e-6
	idealDelayRes  = 135.00e-6 / 3600.0
)

var (
	txAnchors = []float64{-20, -15, -10, -5, 0, 20, 40, 60}
	txNames   = []string{"m20tx", "m15tx", "m10tx", "m05tx", "p00tx", "p20tx", "p40tx", "p60tx"}
	rxAnchors = []float64{-20, 0, 20, 40, 60}
	rxNames   = []string{"m20rx", "p00rx", "p20rx", "p40rx", "p60rx"}
)

// nearestAnchorIndex returns the index of the anchor in anchors closest to
// value, ties broken toward the lower index (earlier in the list), per
// spec.md Sec 4.7 and Sec 8 scenario 5.
func nearestAnchorIndex(value float64, anchors []float64) int {
	best := 0
	bestDiff := math.Abs(anchors[0] - value)
	for i := 1; i < len(anchors); i++ {
		diff := math.Abs(anchors[i] - value)
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// CalibrationFileName constructs the reference_chirp_<tx>_<rx>.dat name for
// the anchors nearest txTemp/rxTemp, per spec.md Sec 6.
func CalibrationFileName(txTemp, rxTemp float64) string {
	tx := txNames[nearestAnchorIndex(txTemp, txAnchors)]
	rx := rxNames[nearestAnchorIndex(rxTemp, rxAnchors)]
	return fmt.Sprintf("reference_chirp_%s_%s.dat", tx, rx)
}

// CalibrationBank abstracts the on-disk (or object-store) bank of
// calibration files so the Chirp Provider can be tested without a
// filesystem. ReadFile returns the raw bytes of the named file.
type CalibrationBank interface {
	ReadFile(name string) ([]byte, error)
}

func readFloat32LE(data []byte) []float32 {
	n := len(data) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// ChirpProvider maps (TX, RX, chirp mode) to a length-L complex reference
// spectrum (C7), caching decoded chirps per anchor pair to avoid re-reading
// calibration files once per record.
type ChirpProvider struct {
	bank  CalibrationBank
	cache map[string][]complex128
}

// NewChirpProvider constructs a ChirpProvider backed by bank.
func NewChirpProvider(bank CalibrationBank) *ChirpProvider {
	return &ChirpProvider{bank: bank, cache: make(map[string][]complex128)}
}

// Chirp returns the length-L reference spectrum for the given temperatures
// and mode.
func (c *ChirpProvider) Chirp(txTemp, rxTemp float64, mode ChirpMode) ([]complex128, error) {
	switch mode {
	case ChirpIdeal:
		return idealChirpSpectrum(), nil
	case ChirpUPB:
		idealSpec := idealChirpSpectrum()
		filt, err := c.calFilterSpectrum()
		if err != nil {
			return nil, err
		}
		out := make([]complex128, SamplesPerRecord)
		for i := range out {
			out[i] = idealSpec[i] * filt[i]
		}
		return out, nil
	case ChirpRef, ChirpVibro:
		key := fmt.Sprintf("%s|%s", CalibrationFileName(txTemp, rxTemp), mode)
		if cached, ok := c.cache[key]; ok {
			return cached, nil
		}
		spec, err := c.referenceChirp(txTemp, rxTemp, mode)
		if err != nil {
			return nil, err
		}
		c.cache[key] = spec
		return spec, nil
	default:
		return nil, ErrUnsupportedChirpMode
	}
}

// idealChirpSpectrum synthesizes the linear-FM ideal chirp and returns its
// DFT, per spec.md Sec 4.7.
func idealChirpSpectrum() []complex128 {
	nsamp := int(idealPulseLen / idealDelayRes)
	fslope := (idealFLo - idealFHi) / idealPulseLen

	td := make([]float64, SamplesPerRecord)
	for k := 0; k < nsamp; k++ {
		t := float64(k) * idealDelayRes
		arg := 2.0 * math.Pi * t * (idealFHi + fslope*t/2.0)
		td[k] = math.Sin(arg)
	}

	fft := fourier.NewFFT(SamplesPerRecord)
	return realDFT(fft, td)
}

// calFilterSpectrum loads cal_filter.dat (1800 float32 reals followed by
// 1800 float32 imags), circularly rotates it right by 900 samples, and
// embeds it into the upper half [1800:3600) of a zero-initialised
// length-3600 complex buffer, per SHERPA.py:detChirpFiles's UPB branch.
func (c *ChirpProvider) calFilterSpectrum() ([]complex128, error) {
	raw, err := c.bank.ReadFile("cal_filter.dat")
	if err != nil {
		return nil, ErrMissingCalibrationFile
	}

	vals := readFloat32LE(raw)
	if len(vals) != 3600 {
		return nil, ErrMissingCalibrationFile
	}

	filt := make([]complex128, 1800)
	for i := 0; i < 1800; i++ {
		filt[i] = complex(float64(vals[i]), float64(vals[i+1800]))
	}

	rolled := make([]complex128, 1800)
	for i, v := range filt {
		rolled[(i+900)%1800] = v
	}

	out := make([]complex128, SamplesPerRecord)
	copy(out[1800:3600], rolled)

	return out, nil
}

// referenceChirp loads a measured instrument response file and constructs
// the length-4096 complex reference used by the ref/vibro chirp modes, per
// spec.md Sec 4.7.
func (c *ChirpProvider) referenceChirp(txTemp, rxTemp float64, mode ChirpMode) ([]complex128, error) {
	name := CalibrationFileName(txTemp, rxTemp)
	raw, err := c.bank.ReadFile(name)
	if err != nil {
		return nil, ErrMissingCalibrationFile
	}

	vals := readFloat32LE(raw)
	if len(vals) != 4096 {
		return nil, ErrMissingCalibrationFile
	}

	out := make([]complex128, 4096)
	for i := 0; i < 2048; i++ {
		out[i] = complex(float64(vals[i]), float64(vals[i+2048]))
	}

	if mode == ChirpVibro {
		for k := 1; k <= 2047; k++ {
			v := out[k]
			out[4096-k] = complex(real(v), -imag(v))
		}
	}

	return out, nil
}

// realDFT computes the unnormalised forward DFT of a real-valued vector.
func realDFT(fft *fourier.FFT, td []float64) []complex128 {
	freq := fft.Coefficients(nil, td)
	n := len(td)
	out := make([]complex128, n)

	// fourier.FFT.Coefficients returns only the non-redundant half (n/2+1
	// bins) for a real sequence; reconstruct the full-length, conjugate
	// symmetric spectrum so downstream code can treat it as an ordinary
	// complex DFT output.
	for i, c := range freq {
		out[i] = c
	}
	for i := len(freq); i < n; i++ {
		out[i] = cmplx.Conj(out[n-i])
	}

	return out
}
