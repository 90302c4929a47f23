package sharad

import (
	"errors"
	"reflect"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

// ArrayOpen is a helper for opening a TileDB array in the given query mode.
func ArrayOpen(ctx *tiledb.Context, uri string, mode tiledb.QueryType) (*tiledb.Array, error) {
	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return nil, err
	}

	if err := array.Open(mode); err != nil {
		array.Free()
		return nil, err
	}

	return array, nil
}

// AddFilters sequentially appends compression filters to a filter pipeline.
func AddFilters(filterList *tiledb.FilterList, filters ...*tiledb.Filter) error {
	for _, filt := range filters {
		if err := filterList.AddFilter(filt); err != nil {
			return errors.Join(ErrAddFilters, err)
		}
	}
	return nil
}

// ZstdFilter initialises the Zstandard compression filter at the given level.
func ZstdFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
	if err != nil {
		return nil, errors.Join(ErrNewFilt, err)
	}

	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, errors.Join(ErrNewFilt, err)
	}

	return filt, nil
}

// PositiveDeltaFilter initialises the positive-delta filter, used on the
// monotonically increasing RECORD_INDEX/COLUMN dimensions.
func PositiveDeltaFilter(ctx *tiledb.Context) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_POSITIVE_DELTA)
	if err != nil {
		return nil, errors.Join(ErrNewFilt, err)
	}
	return filt, nil
}

// AttachFilters is a helper for applying the same filter pipeline to
// multiple attributes at once.
func AttachFilters(filterList *tiledb.FilterList, attrs ...*tiledb.Attribute) error {
	for _, attr := range attrs {
		if err := attr.SetFilterList(filterList); err != nil {
			return errors.Join(ErrAddFilters, err)
		}
	}
	return nil
}

// CreateAttr creates a TileDB attribute, along with its compression filter
// pipeline, from a struct's `tiledb` and `filters` tags (adapted from the
// teacher's tiledb.go CreateAttr). Tags for tiledb include dtype and ftype
// (attr/dim -- dim fields are the caller's responsibility to skip). Tags
// for filters include zstd(level=N). An example: `tiledb:"dtype=float64,
// ftype=attr" filters:"zstd(level=16)"`.
func CreateAttr(
	fieldName string,
	filterDefs []stgpsr.Definition,
	tiledbDefs map[string]stgpsr.Definition,
	schema *tiledb.ArraySchema,
	ctx *tiledb.Context,
) error {
	def, ok := tiledbDefs["dtype"]
	if !ok {
		return errors.Join(ErrCreateAttributeTdb, errors.New("dtype tag not found for "+fieldName))
	}
	dtype, _ := def.Attribute("dtype")

	var tdbType tiledb.Datatype
	switch dtype {
	case "int8":
		tdbType = tiledb.TILEDB_INT8
	case "uint8":
		tdbType = tiledb.TILEDB_UINT8
	case "int16":
		tdbType = tiledb.TILEDB_INT16
	case "uint16":
		tdbType = tiledb.TILEDB_UINT16
	case "int32":
		tdbType = tiledb.TILEDB_INT32
	case "uint32":
		tdbType = tiledb.TILEDB_UINT32
	case "int64":
		tdbType = tiledb.TILEDB_INT64
	case "uint64":
		tdbType = tiledb.TILEDB_UINT64
	case "float32":
		tdbType = tiledb.TILEDB_FLOAT32
	case "float64":
		tdbType = tiledb.TILEDB_FLOAT64
	case "datetime_ns":
		tdbType = tiledb.TILEDB_DATETIME_NS
	case "string":
		tdbType = tiledb.TILEDB_STRING_UTF8
	}

	attrFilts, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}
	defer attrFilts.Free()

	for _, filter := range filterDefs {
		if filter.Name() != "zstd" {
			continue
		}
		level, ok := filter.Attribute("level")
		if !ok {
			return errors.Join(ErrCreateAttributeTdb, errors.New("zstd level not defined for "+fieldName))
		}
		filt, err := ZstdFilter(ctx, int32(level.(int64)))
		if err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
		defer filt.Free()
		if err := attrFilts.AddFilter(filt); err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
	}

	attr, err := tiledb.NewAttribute(ctx, fieldName, tdbType)
	if err != nil {
		return errors.Join(ErrNewAttr, err)
	}
	defer attr.Free()

	if err := AttachFilters(attrFilts, attr); err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}

	if err := schema.AddAttributes(attr); err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}

	return nil
}

// setStructFieldBuffers binds each exported, flat (non-nested) field of a
// struct-of-parallel-slices to a TileDB query's data buffer by name and
// Go kind. Adapted from the teacher's tiledb.go, trimmed to the 1D case:
// the EDR and auxiliary outputs are fixed-shape dense arrays of scalar
// columns, never the teacher's variable-length per-ping beam arrays, so
// the offset-buffer / flattened-2D-slice branch has no analogue here and
// was dropped (see DESIGN.md).
func setStructFieldBuffers(query *tiledb.Query, t any) error {
	values := reflect.ValueOf(t).Elem()
	types := reflect.TypeOf(t).Elem()

	for i := 0; i < values.NumField(); i++ {
		if !types.Field(i).IsExported() {
			continue
		}

		name := types.Field(i).Name
		field := values.Field(i)

		switch slc := field.Interface().(type) {
		case []int8:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []uint8:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []int16:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []uint16:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []int32:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []uint32:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []int64:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []uint64:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []float32:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []float64:
			if _, err := query.SetDataBuffer(name, slc); err != nil {
				return errors.Join(err, errors.New(name))
			}
		case []time.Time:
			timestamps := make([]int64, len(slc))
			for t := range slc {
				timestamps[t] = slc[t].UnixNano()
			}
			if _, err := query.SetDataBuffer(name, timestamps); err != nil {
				return errors.Join(err, errors.New(name))
			}
		default:
			return errors.Join(ErrDtype, errors.New(name))
		}
	}

	return nil
}

var ErrDtype = errors.New("unexpected or unsupported struct field datatype for a TileDB buffer")

// WriteArrayMetadata attaches a JSON-serialised value as TileDB array
// metadata under key.
func WriteArrayMetadata(ctx *tiledb.Context, arrayURI, key string, md any) error {
	array, err := ArrayOpen(ctx, arrayURI, tiledb.TILEDB_WRITE)
	if err != nil {
		return errors.Join(err, errors.New("error opening array for metadata write: "+arrayURI))
	}
	defer array.Free()
	defer array.Close()

	jsn, err := JsonDumps(md)
	if err != nil {
		return err
	}

	if err := array.PutMetadata(key, jsn); err != nil {
		return errors.Join(err, errors.New("error writing metadata to array: "+arrayURI))
	}

	return nil
}
