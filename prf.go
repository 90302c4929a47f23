package sharad

import "log"

// prfTable is the closed code->Hz mapping for the instrument's six
// commandable pulse repetition frequencies, per spec.md Sec 5 ("PRF
// field").
var prfTable = map[uint16]float64{
	335: 335.12,
	350: 350.14,
	387: 387.60,
	670: 670.24,
	700: 700.28,
	775: 775.19,
}

var prfWarned = make(map[uint16]bool)

// PRFHz resolves a PRF code to its physical pulse repetition frequency in
// Hz. Unrecognised codes pass the raw code value through as a float,
// logging a one-time warning per code (A8), since the instrument's closed
// code set is authoritative and an unknown code most likely indicates a
// corrupted ancillary record rather than a new, legitimate mode.
func PRFHz(code uint16) float64 {
	if hz, ok := prfTable[code]; ok {
		return hz
	}

	if !prfWarned[code] {
		log.Printf("sharad: unrecognised PRF code %d, passing through raw value", code)
		prfWarned[code] = true
	}

	return float64(code)
}
