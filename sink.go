package sharad

import (
	"errors"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/samber/lo"
)

// TileDBColumnSink is a ColumnSink (C10) that writes each presummed range
// profile directly into a dense TileDB array column, avoiding the need to
// hold the full L x ncols output matrix resident, per spec.md Sec 5's
// streaming requirement.
type TileDBColumnSink struct {
	ctx   *tiledb.Context
	array *tiledb.Array
	l     uint64
}

// NewTileDBColumnSink creates the EDR array at arrayURI and opens it for
// writing. Creation fails if an array already exists at arrayURI.
func NewTileDBColumnSink(ctx *tiledb.Context, arrayURI string, l, ncols uint64) (*TileDBColumnSink, error) {
	schema, err := EDRArraySchema(ctx, l, ncols)
	if err != nil {
		return nil, err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, arrayURI)
	if err != nil {
		return nil, errors.Join(ErrCreateEDRArray, err)
	}

	if err := array.Create(schema); err != nil {
		array.Free()
		return nil, errors.Join(ErrCreateEDRArray, err)
	}

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		array.Free()
		return nil, errors.Join(ErrWriteEDRArray, err)
	}

	return &TileDBColumnSink{ctx: ctx, array: array, l: l}, nil
}

// WriteColumn writes column g (length l complex doubles, split into REAL
// and IMAG buffers) to the EDR array.
func (s *TileDBColumnSink) WriteColumn(g int, column []complex128) error {
	real := lo.Map(column, func(v complex128, _ int) float64 { return realPart(v) })
	imag := lo.Map(column, func(v complex128, _ int) float64 { return imagPart(v) })

	query, err := tiledb.NewQuery(s.ctx, s.array)
	if err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_COL_MAJOR); err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}

	subarray, err := s.array.NewSubarray()
	if err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}
	defer subarray.Free()

	if err := subarray.AddRangeByName("RANGE_BIN", uint64(0), s.l-1); err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}
	if err := subarray.AddRangeByName("COLUMN", uint64(g), uint64(g)); err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}
	if err := query.SetSubarray(subarray); err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}

	if _, err := query.SetDataBuffer("REAL", real); err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}
	if _, err := query.SetDataBuffer("IMAG", imag); err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}

	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteEDRArray, err)
	}

	return nil
}

// Close flushes and releases the EDR array.
func (s *TileDBColumnSink) Close() error {
	if err := s.array.Close(); err != nil {
		return err
	}
	s.array.Free()
	return nil
}

func realPart(c complex128) float64 { return real(c) }
func imagPart(c complex128) float64 { return imag(c) }

// WriteAuxiliaryArray persists a decoded auxiliary table to a dense TileDB
// array, one row per record, via the struct-tagged AuxiliaryTileDB schema.
func WriteAuxiliaryArray(ctx *tiledb.Context, arrayURI string, records []AuxiliaryRecord) error {
	n := uint64(len(records))

	schema, err := AuxiliaryArraySchema(ctx, n)
	if err != nil {
		return err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, arrayURI)
	if err != nil {
		return errors.Join(ErrCreateAuxiliaryArray, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrCreateAuxiliaryArray, err)
	}

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWriteAuxiliaryArray, err)
	}
	defer array.Close()

	cols := auxiliaryColumns(records)

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return errors.Join(ErrWriteAuxiliaryArray, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteAuxiliaryArray, err)
	}

	if err := setStructFieldBuffers(query, &cols); err != nil {
		return errors.Join(ErrWriteAuxiliaryArray, err)
	}

	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteAuxiliaryArray, err)
	}

	return nil
}

// auxiliaryColumnsSchema is the struct-of-slices counterpart to
// AuxiliaryTileDB, one parallel slice per non-dimension attribute, shaped
// for setStructFieldBuffers.
type auxiliaryColumnsSchema struct {
	EphemerisTime               []float64
	ElapsedTime                 []float64
	SolarLongitude              []float64
	OrbitNumber                 []int32
	SpacecraftAltitude          []float64
	SubSCEastLongitude          []float64
	SubSCPlanetocentricLatitude []float64
	TxTemp                      []float32
	RxTemp                      []float32
}

func auxiliaryColumns(records []AuxiliaryRecord) auxiliaryColumnsSchema {
	n := len(records)
	cols := auxiliaryColumnsSchema{
		EphemerisTime:               make([]float64, n),
		ElapsedTime:                 make([]float64, n),
		SolarLongitude:              make([]float64, n),
		OrbitNumber:                 make([]int32, n),
		SpacecraftAltitude:          make([]float64, n),
		SubSCEastLongitude:          make([]float64, n),
		SubSCPlanetocentricLatitude: make([]float64, n),
		TxTemp:                      make([]float32, n),
		RxTemp:                      make([]float32, n),
	}

	for i, r := range records {
		cols.EphemerisTime[i] = r.EphemerisTime
		cols.ElapsedTime[i] = r.ElapsedTime
		cols.SolarLongitude[i] = r.SolarLongitude
		cols.OrbitNumber[i] = r.OrbitNumber
		cols.SpacecraftAltitude[i] = r.SpacecraftAltitude
		cols.SubSCEastLongitude[i] = r.SubSCEastLongitude
		cols.SubSCPlanetocentricLatitude[i] = r.SubSCPlanetocentricLatitude
		cols.TxTemp[i] = r.TxTemp
		cols.RxTemp[i] = r.RxTemp
	}

	return cols
}
