package sharad

import "fmt"

// Presum is the on-board coherent presumming count, N, applied by the
// instrument before a record is telemetered to the ground.
type Presum uint8

// BitsPerSample is the bit resolution, R, of a single compressed echo
// sample within a science record.
type BitsPerSample uint8

const (
	R4 BitsPerSample = 4
	R6 BitsPerSample = 6
	R8 BitsPerSample = 8
)

// SamplesPerRecord is the fixed number of range samples decoded per science
// record, regardless of mode.
const SamplesPerRecord = 3600

// AncillaryLength is the fixed size, in bytes, of the ancillary header that
// prefixes every science record.
const AncillaryLength = 186

// Mode is the immutable descriptor for a single instrument operating mode,
// keyed by its 4 character mode code (e.g. "SS04", "RO13").
type Mode struct {
	Code            string
	PresumN         Presum
	BitsPerSample   BitsPerSample
	RecordLengthBytes int
}

// recordLength derives the record length from the bit resolution:
// 186 (ancillary) + ceil(3600*R/8) (echo).
func recordLength(r BitsPerSample) int {
	bits := SamplesPerRecord * int(r)
	echoBytes := (bits + 7) / 8
	return AncillaryLength + echoBytes
}

// modeTable is the process-global, read-only table of the 21 subsurface
// sounding (SS) and 21 receive-only (RO) instrument modes, grounded on
// SHERPA.py:parseFileName's SSInstrMode/ROInstrMode dictionaries. Presum and
// bit-resolution values cycle through {32,28,16,8,4,2,1} x {8,6,4,8,6,4,...}
// in the source; they are reproduced verbatim rather than re-derived, since
// the cycling pattern is an instrument design choice, not a formula.
var modeTable = buildModeTable()

type modeSpec struct {
	presum Presum
	bits   BitsPerSample
}

func buildModeTable() map[string]Mode {
	specs := []modeSpec{
		{32, R8}, {28, R6}, {16, R4}, {8, R8}, {4, R6}, {2, R4}, {1, R8},
		{32, R6}, {28, R4}, {16, R8}, {8, R6}, {4, R4}, {2, R8}, {1, R6},
		{32, R4}, {28, R8}, {16, R6}, {8, R4}, {4, R8}, {2, R6}, {1, R4},
	}

	table := make(map[string]Mode, 2*len(specs))
	for i, s := range specs {
		n := i + 1
		for _, prefix := range []string{"SS", "RO"} {
			code := fmt.Sprintf("%s%02d", prefix, n)
			table[code] = Mode{
				Code:              code,
				PresumN:           s.presum,
				BitsPerSample:     s.bits,
				RecordLengthBytes: recordLength(s.bits),
			}
		}
	}

	return table
}

// LookupMode resolves a 4-character mode code to its Mode descriptor. Codes
// whose first two characters are neither "SS" nor "RO" are rejected before
// the table lookup, matching the invariant in spec.md Sec 4.1.
func LookupMode(code string) (Mode, error) {
	if len(code) != 4 {
		return Mode{}, ErrUnknownMode
	}

	prefix := code[:2]
	if prefix != "SS" && prefix != "RO" {
		return Mode{}, ErrUnknownMode
	}

	m, ok := modeTable[code]
	if !ok {
		return Mode{}, ErrUnknownMode
	}

	return m, nil
}
