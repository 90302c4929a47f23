package sharad

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestDecodeAuxiliaryTableRejectsPartialRecords(t *testing.T) {
	if _, err := DecodeAuxiliaryTable(make([]byte, AuxiliaryRecordLength+1)); err != ErrCorruptAuxiliary {
		t.Fatalf("DecodeAuxiliaryTable(partial) = %v, want ErrCorruptAuxiliary", err)
	}
}

func TestDecodeAuxiliaryTableRejectsNaN(t *testing.T) {
	data := make([]byte, AuxiliaryRecordLength)
	binary.BigEndian.PutUint64(data[6:14], math.Float64bits(math.NaN()))

	if _, err := DecodeAuxiliaryTable(data); err != ErrNaNEphemerisTime {
		t.Fatalf("DecodeAuxiliaryTable(NaN) = %v, want ErrNaNEphemerisTime", err)
	}
}

func TestDecodeAuxiliaryTableComputesElapsedTime(t *testing.T) {
	rec := func(et float64) []byte {
		data := make([]byte, AuxiliaryRecordLength)
		binary.BigEndian.PutUint64(data[6:14], math.Float64bits(et))
		return data
	}

	data := append(rec(100), rec(103)...)

	records, err := DecodeAuxiliaryTable(data)
	if err != nil {
		t.Fatalf("DecodeAuxiliaryTable: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].ElapsedTime != 0 {
		t.Errorf("records[0].ElapsedTime = %v, want 0", records[0].ElapsedTime)
	}
	if records[1].ElapsedTime != 3 {
		t.Errorf("records[1].ElapsedTime = %v, want 3", records[1].ElapsedTime)
	}
}

func TestParseGeometryEpoch(t *testing.T) {
	tm, err := ParseGeometryEpoch("2012/045 12:30:15")
	if err != nil {
		t.Fatalf("ParseGeometryEpoch: %v", err)
	}
	if tm.Year() != 2012 || tm.Hour() != 12 || tm.Minute() != 30 || tm.Second() != 15 {
		t.Fatalf("ParseGeometryEpoch result = %v, unexpected fields", tm)
	}
}

func TestParseGeometryEpochRejectsMalformed(t *testing.T) {
	if _, err := ParseGeometryEpoch("not a valid epoch"); err == nil {
		t.Fatalf("ParseGeometryEpoch(malformed) = nil error, want error")
	}
}
