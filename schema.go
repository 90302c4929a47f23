package sharad

import (
	"errors"
	"math"
	"reflect"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

// AuxiliaryTileDB mirrors AuxiliaryRecord's scalar fields with `tiledb` and
// `filters` tags, driving schemaAttrs/CreateAttr the way the teacher's
// PingHeaders/EM4 structs drive its dense ping schema (schema.go). Kept
// separate from AuxiliaryRecord so auxiliary.go's domain fields stay
// free of storage-layer tags.
type AuxiliaryTileDB struct {
	RecordIndex    uint64  `tiledb:"dtype=uint64,ftype=dim"`
	EphemerisTime  float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	ElapsedTime    float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	SolarLongitude float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	OrbitNumber    int32   `tiledb:"dtype=int32,ftype=attr" filters:"zstd(level=16)"`
	SpacecraftAltitude float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	SubSCEastLongitude float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	SubSCPlanetocentricLatitude float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	TxTemp         float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
	RxTemp         float32 `tiledb:"dtype=float32,ftype=attr" filters:"zstd(level=16)"`
}

// fieldNames returns the exported field names of a struct, in declaration
// order.
func fieldNames(t any) []string {
	btype := reflect.TypeOf(t)
	names := make([]string, 0, btype.NumField())
	for i := 0; i < btype.NumField(); i++ {
		if btype.Field(i).IsExported() {
			names = append(names, btype.Field(i).Name)
		}
	}
	return names
}

// schemaAttrs walks t's exported fields and adds one TileDB attribute per
// field tagged ftype=attr, skipping ftype=dim fields (the caller handles
// dimensions separately), grounded on the teacher's schema.go schemaAttrs.
func schemaAttrs(t any, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	values := reflect.ValueOf(t).Elem()
	types := values.Type()

	filtDefs, _ := stgpsr.ParseStruct(t, "filters")
	tdbDefs, _ := stgpsr.ParseStruct(t, "tiledb")

	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name

		fieldTdbDefs := make(map[string]stgpsr.Definition)
		for _, v := range tdbDefs[name] {
			fieldTdbDefs[v.Name()] = v
		}

		def, ok := fieldTdbDefs["ftype"]
		if !ok {
			return errors.Join(ErrCreateAttributeTdb, errors.New("ftype tag not found for "+name))
		}
		ftype, _ := def.Attribute("ftype")
		if ftype == "dim" {
			continue
		}

		if err := CreateAttr(name, filtDefs[name], fieldTdbDefs, schema, ctx); err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
	}

	return nil
}

// attachPositiveDeltaFilter attaches the positive-delta filter to a
// dimension whose values are monotonically increasing by construction
// (RECORD_INDEX, COLUMN), per tiledb.go's PositiveDeltaFilter.
func attachPositiveDeltaFilter(ctx *tiledb.Context, dim *tiledb.Dimension) error {
	filterList, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return errors.Join(ErrFiltList, err)
	}
	defer filterList.Free()

	delta, err := PositiveDeltaFilter(ctx)
	if err != nil {
		return err
	}
	defer delta.Free()

	if err := AddFilters(filterList, delta); err != nil {
		return err
	}

	if err := dim.SetFilterList(filterList); err != nil {
		return errors.Join(ErrCreateDimTdb, err)
	}

	return nil
}

// AuxiliaryArraySchema builds the dense, 1D (RECORD_INDEX) schema for the
// auxiliary table sidecar array, one row per science record.
func AuxiliaryArraySchema(ctx *tiledb.Context, nrec uint64) (*tiledb.ArraySchema, error) {
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	defer domain.Free()

	tileSize := uint64(math.Min(50000, float64(nrec)))

	dim, err := tiledb.NewDimension(ctx, "RECORD_INDEX", tiledb.TILEDB_UINT64, []uint64{0, nrec - 1}, tileSize)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer dim.Free()

	if err := attachPositiveDeltaFilter(ctx, dim); err != nil {
		return nil, err
	}

	if err := domain.AddDimensions(dim); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schemaAttrs(&AuxiliaryTileDB{}, schema, ctx); err != nil {
		return nil, err
	}

	if err := schema.Check(); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	return schema, nil
}

// EDRArraySchema builds the dense, 2D (RANGE_BIN x COLUMN) schema for the
// range-compressed, presummed observation output (C10's EDR matrix).
// Complex values are split into REAL and IMAG float64 attributes since
// TileDB has no native complex datatype.
func EDRArraySchema(ctx *tiledb.Context, l, ncols uint64) (*tiledb.ArraySchema, error) {
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	defer domain.Free()

	rangeDim, err := tiledb.NewDimension(ctx, "RANGE_BIN", tiledb.TILEDB_UINT64, []uint64{0, l - 1}, l)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer rangeDim.Free()

	colTile := uint64(math.Min(4096, float64(ncols)))
	colDim, err := tiledb.NewDimension(ctx, "COLUMN", tiledb.TILEDB_UINT64, []uint64{0, ncols - 1}, colTile)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer colDim.Free()

	// COLUMN walks monotonically with g; positive-delta encoding shrinks it
	// far below a raw uint64 footprint.
	if err := attachPositiveDeltaFilter(ctx, colDim); err != nil {
		return nil, err
	}

	if err := domain.AddDimensions(rangeDim, colDim); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	// column-major here matches the source's column-cursor write pattern:
	// one full range profile is written per g before moving to g+1.
	if err := schema.SetCellOrder(tiledb.TILEDB_COL_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_COL_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	filterList, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return nil, errors.Join(ErrFiltList, err)
	}
	defer filterList.Free()

	zstd, err := ZstdFilter(ctx, 16)
	if err != nil {
		return nil, err
	}
	defer zstd.Free()

	if err := AddFilters(filterList, zstd); err != nil {
		return nil, err
	}

	real, err := tiledb.NewAttribute(ctx, "REAL", tiledb.TILEDB_FLOAT64)
	if err != nil {
		return nil, errors.Join(ErrNewAttr, err)
	}
	defer real.Free()

	imag, err := tiledb.NewAttribute(ctx, "IMAG", tiledb.TILEDB_FLOAT64)
	if err != nil {
		return nil, errors.Join(ErrNewAttr, err)
	}
	defer imag.Free()

	if err := AttachFilters(filterList, real, imag); err != nil {
		return nil, err
	}

	if err := schema.AddAttributes(real, imag); err != nil {
		return nil, errors.Join(ErrCreateAttributeTdb, err)
	}

	if err := schema.Check(); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	return schema, nil
}
