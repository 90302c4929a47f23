package sharad

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// AuxiliaryRecordLength is the fixed size, in bytes, of a single auxiliary
// record, per spec.md Sec 3.
const AuxiliaryRecordLength = 267

// AuxiliaryRecord is a single decoded 267-byte auxiliary record: per-record
// spacecraft geometry and housekeeping telemetry. Field order and byte
// offsets are grounded on SHERPA.py:parseAuxFile.
type AuxiliaryRecord struct {
	ScetBlockWhole    uint32
	ScetBlockFrac     uint16
	EphemerisTime     float64
	ElapsedTime       float64 // EphemerisTime[i] - EphemerisTime[0]
	GeometryEpoch     string
	SolarLongitude    float64
	OrbitNumber       int32
	XMarsSCPosition   float64
	YMarsSCPosition   float64
	ZMarsSCPosition   float64
	SpacecraftAltitude float64
	SubSCEastLongitude float64
	SubSCPlanetocentricLatitude float64
	SubSCPlanetographicLatitude float64
	XMarsSCVelocity   float64
	YMarsSCVelocity   float64
	ZMarsSCVelocity   float64
	MarsSCRadialVelocity     float64
	MarsSCTangentialVelocity float64
	LocalTrueSolarTime       float64
	SolarZenithAngle         float64
	SCPitchAngle             float64
	SCYawAngle               float64
	SCRollAngle              float64
	MroSamxInnerGimbalAngle  float64
	MroSamxOuterGimbalAngle  float64
	MroSapxInnerGimbalAngle  float64
	MroSapxOuterGimbalAngle  float64
	MroHgaInnerGimbalAngle   float64
	MroHgaOuterGimbalAngle   float64
	DesTemp   float32
	Des5V     float32
	Des12V    float32
	Des2V5    float32
	RxTemp    float32
	TxTemp    float32
	TxLev     float32
	TxCurr    float32
	CorruptedDataFlag int16
}

// decodeAuxiliaryRecord decodes a single 267-byte auxiliary record. Offsets
// are absolute, matching spec.md Sec 6 / SHERPA.py:parseAuxFile.
func decodeAuxiliaryRecord(data []byte) (AuxiliaryRecord, error) {
	if len(data) != AuxiliaryRecordLength {
		return AuxiliaryRecord{}, ErrCorruptAuxiliary
	}

	var a AuxiliaryRecord

	at := func(offset int, v any) {
		r := bytes.NewReader(data[offset:])
		_ = binary.Read(r, binary.BigEndian, v)
	}

	at(0, &a.ScetBlockWhole)
	at(4, &a.ScetBlockFrac)
	at(6, &a.EphemerisTime)
	a.GeometryEpoch = strings.TrimRight(string(data[14:37]), "\x00")
	at(37, &a.SolarLongitude)
	at(45, &a.OrbitNumber)
	at(49, &a.XMarsSCPosition)
	at(57, &a.YMarsSCPosition)
	at(65, &a.ZMarsSCPosition)
	at(73, &a.SpacecraftAltitude)
	at(81, &a.SubSCEastLongitude)
	at(89, &a.SubSCPlanetocentricLatitude)
	at(97, &a.SubSCPlanetographicLatitude)
	at(105, &a.XMarsSCVelocity)
	at(113, &a.YMarsSCVelocity)
	at(121, &a.ZMarsSCVelocity)
	at(129, &a.MarsSCRadialVelocity)
	at(137, &a.MarsSCTangentialVelocity)
	at(145, &a.LocalTrueSolarTime)
	at(153, &a.SolarZenithAngle)
	at(161, &a.SCPitchAngle)
	at(169, &a.SCYawAngle)
	at(177, &a.SCRollAngle)
	at(185, &a.MroSamxInnerGimbalAngle)
	at(193, &a.MroSamxOuterGimbalAngle)
	at(201, &a.MroSapxInnerGimbalAngle)
	at(209, &a.MroSapxOuterGimbalAngle)
	at(217, &a.MroHgaInnerGimbalAngle)
	at(225, &a.MroHgaOuterGimbalAngle)
	at(233, &a.DesTemp)
	at(237, &a.Des5V)
	at(241, &a.Des12V)
	at(245, &a.Des2V5)
	at(249, &a.RxTemp)
	at(253, &a.TxTemp)
	at(257, &a.TxLev)
	at(261, &a.TxCurr)
	at(265, &a.CorruptedDataFlag)

	return a, nil
}

// DecodeAuxiliaryTable decodes every record in a 267-byte-record auxiliary
// byte stream, per the Auxiliary Reader (C2). The file size must be an exact
// multiple of AuxiliaryRecordLength, and NaN ephemeris times are rejected,
// per spec.md Sec 4.2.
func DecodeAuxiliaryTable(data []byte) ([]AuxiliaryRecord, error) {
	if len(data)%AuxiliaryRecordLength != 0 {
		return nil, ErrCorruptAuxiliary
	}

	n := len(data) / AuxiliaryRecordLength
	records := make([]AuxiliaryRecord, n)

	for i := 0; i < n; i++ {
		rec, err := decodeAuxiliaryRecord(data[i*AuxiliaryRecordLength : (i+1)*AuxiliaryRecordLength])
		if err != nil {
			return nil, err
		}
		if math.IsNaN(rec.EphemerisTime) {
			return nil, ErrNaNEphemerisTime
		}
		records[i] = rec
	}

	if n > 0 {
		base := records[0].EphemerisTime
		for i := range records {
			records[i].ElapsedTime = records[i].EphemerisTime - base
		}
	}

	return records, nil
}

// ParseGeometryEpoch converts an auxiliary record's GEOMETRY_EPOCH string
// ("yyyy/ddd hh:mm:ss") into a time.Time, using the same
// day-of-year-to-calendar conversion the teacher's processing-parameters
// reference time parser uses (decode/params.go:parse_reftime).
func ParseGeometryEpoch(epoch string) (time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(epoch), " ", 2)
	if len(parts) != 2 {
		return time.Time{}, ErrCorruptAuxiliary
	}

	dateParts := strings.SplitN(parts[0], "/", 2)
	if len(dateParts) != 2 {
		return time.Time{}, ErrCorruptAuxiliary
	}

	year, err := strconv.Atoi(dateParts[0])
	if err != nil {
		return time.Time{}, err
	}
	doy, err := strconv.Atoi(dateParts[1])
	if err != nil {
		return time.Time{}, err
	}

	month, day := julian.DayOfYearToCalendar(doy, julian.LeapYearGregorian(year))

	hms := strings.Split(parts[1], ":")
	if len(hms) != 3 {
		return time.Time{}, ErrCorruptAuxiliary
	}

	var hour, min, sec int
	if hour, err = strconv.Atoi(hms[0]); err != nil {
		return time.Time{}, err
	}
	if min, err = strconv.Atoi(hms[1]); err != nil {
		return time.Time{}, err
	}
	if sec, err = strconv.Atoi(hms[2]); err != nil {
		return time.Time{}, err
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), nil
}
