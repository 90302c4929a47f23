package sharad

import "errors"

// Error kinds surfaced by the C1-C10 processing chain. Every error arising
// from a malformed observation is one of these; there are no retries, per
// the single-pass processing model.
var (
	ErrUnknownMode             = errors.New("unknown mode code")
	ErrCorruptAuxiliary        = errors.New("corrupt auxiliary table or ancillary header")
	ErrTruncatedScienceStream  = errors.New("science stream ended mid-record")
	ErrMalformedEchoPayload    = errors.New("echo payload bit length does not match 3600 samples at the mode's bit resolution")
	ErrMissingCalibrationFile  = errors.New("calibration chirp file not found")
	ErrUnsupportedChirpMode    = errors.New("chirp mode not understood")
	ErrUnsupportedFilterType   = errors.New("inverse filter is not implemented")
	ErrIOFailure               = errors.New("I/O failure")
	ErrDynamicDecompression    = errors.New("dynamic decompression requested but not enabled")
	ErrNaNEphemerisTime        = errors.New("auxiliary record has NaN ephemeris time")

	// Ambient-layer (storage/label) errors, mirroring the teacher's
	// ErrCreate*/ErrWrite* sentinel convention.
	ErrCreateEDRArray       = errors.New("error creating EDR TileDB array")
	ErrWriteEDRArray        = errors.New("error writing EDR TileDB array")
	ErrCreateAuxiliaryArray = errors.New("error creating auxiliary TileDB array")
	ErrWriteAuxiliaryArray  = errors.New("error writing auxiliary TileDB array")
	ErrCreateAttributeTdb   = errors.New("error creating attribute for TileDB array")
	ErrCreateSchemaTdb      = errors.New("error creating TileDB schema")
	ErrCreateDimTdb         = errors.New("error creating TileDB dimension")
	ErrNewAttr              = errors.New("error creating TileDB attribute")
	ErrNewFilt              = errors.New("error creating TileDB filter")
	ErrFiltList             = errors.New("error creating TileDB filter list")
	ErrAddFilters           = errors.New("error adding filter to filter list")
	ErrLabelMissingTables   = errors.New("PDS label is missing the science or auxiliary table pointer")
)
