package sharad

import "log"

// PresumConfig bundles C10's per-observation processing parameters.
type PresumConfig struct {
	Mode                      Mode
	ChirpModeValue            ChirpMode
	ProcessingPresum          int // P, the requested on-ground presum total
	AllowDynamicDecompression bool
	ApplyWindow               bool
	WindowBeta                float64
}

// ColumnSink receives one complex range-compressed, presummed column at a
// time, indexed by its zero-based group number g. Implementations may
// stream straight to disk (e.g. a TileDB dense array) to avoid holding the
// full output matrix resident, per spec.md Sec 5.
type ColumnSink interface {
	WriteColumn(g int, column []complex128) error
}

// PresumDriver ties C3 through C9 together, coherently accumulating groups
// of records into output columns (C10).
type PresumDriver struct {
	records *RecordSplitter
	aux     []AuxiliaryRecord
	chirps  *ChirpProvider
	cfg     PresumConfig
}

// NewPresumDriver constructs a driver over an already-opened record stream
// and a fully-decoded auxiliary table, one entry per science record.
func NewPresumDriver(records *RecordSplitter, aux []AuxiliaryRecord, chirps *ChirpProvider, cfg PresumConfig) *PresumDriver {
	return &PresumDriver{records: records, aux: aux, chirps: chirps, cfg: cfg}
}

// presumFactor derives F = max(1, floor(P/N)), warning and forcing F=1 when
// the requested processing presum P is smaller than the on-board presum N,
// per spec.md Sec 4.10.
func presumFactor(p int, n Presum) int {
	f := p / int(n)
	if f < 1 {
		log.Printf("sharad: processing presum %d is smaller than on-board presum %d, forcing F=1", p, n)
		return 1
	}
	return f
}

// Run iterates nrec records grouped by F = presumFactor(P, N), coherently
// summing each group's range-compressed profile and emitting one column
// per group to sink. Group index g matches int(i/F) for every record i in
// the group, per spec.md Sec 4.10 and Sec 9 -- since this loop advances i
// as g*F+k, g already equals i/F by construction.
func (d *PresumDriver) Run(nrec int, sink ColumnSink) error {
	l, err := ChirpLength(d.cfg.ChirpModeValue)
	if err != nil {
		return err
	}

	f := presumFactor(d.cfg.ProcessingPresum, d.cfg.Mode.PresumN)

	if d.cfg.AllowDynamicDecompression {
		log.Printf("sharad: dynamic (SDI-based) decompression is enabled; its output is not physically validated")
	}

	var window []float64
	if d.cfg.ApplyWindow {
		window = KaiserWindow(l, d.cfg.WindowBeta)
	}

	ngroups := (nrec + f - 1) / f

	for g := 0; g < ngroups; g++ {
		acc := make([]complex128, l)

		for k := 0; k < f; k++ {
			i := g*f + k
			if i >= nrec {
				break
			}

			rec, eof, err := d.records.Next()
			if err != nil {
				return err
			}
			if eof {
				return ErrTruncatedScienceStream
			}

			anc, err := DecodeAncillary(rec.Ancillary)
			if err != nil {
				return err
			}

			ints, err := DecodeEcho(rec.Echo, d.cfg.Mode.BitsPerSample)
			if err != nil {
				return err
			}

			real, err := Decompress(ints, anc.OstLine.CompressionSelection, d.cfg.Mode.PresumN, d.cfg.Mode.BitsPerSample, anc.SdiBitField, d.cfg.AllowDynamicDecompression)
			if err != nil {
				return err
			}

			if i >= len(d.aux) {
				return ErrCorruptAuxiliary
			}
			a := d.aux[i]

			chirp, err := d.chirps.Chirp(float64(a.TxTemp), float64(a.RxTemp), d.cfg.ChirpModeValue)
			if err != nil {
				return err
			}
			if d.cfg.ApplyWindow {
				chirp = ApplyWindow(chirp, d.cfg.WindowBeta)
			}

			y, err := RangeCompress(real, chirp, window)
			if err != nil {
				return err
			}

			for idx, v := range y {
				acc[idx] += v
			}
		}

		if err := sink.WriteColumn(g, acc); err != nil {
			return err
		}
	}

	return nil
}
