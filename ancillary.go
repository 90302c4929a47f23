package sharad

import (
	"bytes"
	"encoding/binary"
)

// OSTLine decodes the 17-byte (136-bit) OST_LINE control word embedded in
// every ancillary header, bit offsets and widths per spec.md Sec 6.
// SPARE fields are parsed (to keep the cursor aligned) but not retained.
type OSTLine struct {
	PulseRepetitionInterval uint8
	PhaseCompensationType   uint8
	DataLengthTaken         uint32
	OperativeMode           uint8
	ManualGainControl       uint8
	CompressionSelection    bool
	ClosedLoopTracking      bool
	TrackingDataStorage     bool
	TrackingPreSumming      uint8
	TrackingLogicSelection  uint8
	ThresholdLogicSelection uint8
	SampleNumber            uint8
	AlphaBeta               uint8
	ReferenceBit            uint8
	Threshold               uint8
	ThresholdIncrement      uint8
	InitialEchoValue        uint8
	ExpectedEchoShift       uint8
	WindowLeftShift         uint8
	WindowRightShift        uint8
}

func decodeOSTLine(data []byte) OSTLine {
	r := newBitReader(data)

	var o OSTLine
	o.PulseRepetitionInterval = uint8(r.readUint(4))
	o.PhaseCompensationType = uint8(r.readUint(4))
	r.skip(2) // SPARE[8:10]
	o.DataLengthTaken = uint32(r.readUint(22))
	o.OperativeMode = uint8(r.readUint(8))
	o.ManualGainControl = uint8(r.readUint(8))
	o.CompressionSelection = r.readBool()
	o.ClosedLoopTracking = r.readBool()
	o.TrackingDataStorage = r.readBool()
	o.TrackingPreSumming = uint8(r.readUint(3))
	o.TrackingLogicSelection = uint8(r.readUint(1))
	o.ThresholdLogicSelection = uint8(r.readUint(1))
	o.SampleNumber = uint8(r.readUint(4))
	r.skip(1) // SPARE[60:61]
	o.AlphaBeta = uint8(r.readUint(2))
	o.ReferenceBit = uint8(r.readUint(1))
	o.Threshold = uint8(r.readUint(8))
	o.ThresholdIncrement = uint8(r.readUint(8))
	r.skip(4) // SPARE[80:84]
	o.InitialEchoValue = uint8(r.readUint(3))
	o.ExpectedEchoShift = uint8(r.readUint(3))
	o.WindowLeftShift = uint8(r.readUint(3))
	o.WindowRightShift = uint8(r.readUint(3))
	r.skip(32) // SPARE[96:128]

	return o
}

// PSAFS decodes the 2-byte Packet Segmentation and FPGA Status word.
type PSAFS struct {
	ScientificDataType uint8
	SegmentationFlag   uint8
	DMAError           bool
	TCOverrun          bool
	FIFOFull           bool
	Test               bool
}

func decodePSAFS(data []byte) PSAFS {
	r := newBitReader(data)

	var p PSAFS
	p.ScientificDataType = uint8(r.readUint(1))
	p.SegmentationFlag = uint8(r.readUint(2))
	r.skip(5) // SPARE1[3:8]
	r.skip(4) // SPARE2[8:12]
	p.DMAError = r.readBool()
	p.TCOverrun = r.readBool()
	p.FIFOFull = r.readBool()
	p.Test = r.readBool()

	return p
}

// Ancillary is the decoded 186-byte ancillary header prefixing every
// science record, field order and offsets per spec.md Sec 6.
type Ancillary struct {
	ScetBlockWhole     uint32
	ScetBlockFrac      uint16
	TlmCounter         uint32
	FmtLength          uint16
	ScetOstWhole       uint32
	ScetOstFrac        uint16
	OstLineNumber      uint8
	OstLine            OSTLine
	DataBlockID        uint32
	ScienceDataSourceCtr uint16
	Psafs              PSAFS
	DataBlockFirstPRI  uint32
	TimeDataBlockWhole uint32
	TimeDataBlockFrac  uint16
	SdiBitField        uint16
	TimeN              float32
	RadiusN            float32
	TangentialVelocityN float32
	RadialVelocityN    float32
	Tlp                float32
	TimeWpf            float32
	DeltaTime          float32
	TlpInterpolate     float32
	RadiusInterpolate  float32
	TangentialVelocityInterpolate float32
	RadialVelocityInterpolate     float32
	EndTlp             float32
	SCoeffs            [8]float32
	CCoeffs            [7]float32
	Slope              float32
	Topography         float32
	PhaseCompensationStep        float32
	ReceiveWindowOpeningTime     float32
	ReceiveWindowPosition        float32
}

func u24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// DecodeAncillary decodes the 186-byte ancillary header. SPARE* byte fields
// are skipped positionally (they must be traversed for alignment but are
// not surfaced) per spec.md Sec 4.4.
func DecodeAncillary(data []byte) (Ancillary, error) {
	if len(data) != AncillaryLength {
		return Ancillary{}, ErrCorruptAuxiliary
	}

	var a Ancillary

	// Every field is decoded from its known absolute byte offset (spec.md
	// Sec 6) rather than accumulated via sequential reads, since OST_LINE's
	// nested bit-field parsing and the trailing SPARE3 byte deliberately
	// overlap at offset 38 (a quirk inherited from SHERPA.py, where
	// OST_LINE = BitArray(data[22:39]) and SPARE3 = data[38:39] both read
	// the 17th OST_LINE byte).
	at := func(offset int, v any) {
		r := bytes.NewReader(data[offset:])
		_ = binary.Read(r, binary.BigEndian, v)
	}

	at(0, &a.ScetBlockWhole)
	at(4, &a.ScetBlockFrac)
	at(6, &a.TlmCounter)
	at(10, &a.FmtLength)
	// 12..14 SPARE1
	at(14, &a.ScetOstWhole)
	at(18, &a.ScetOstFrac)
	// 20 SPARE2
	at(21, &a.OstLineNumber)

	a.OstLine = decodeOSTLine(data[22:39])
	// 38 SPARE3 (overlaps OST_LINE's final byte, see comment above)

	a.DataBlockID = u24(data[39:42])
	at(42, &a.ScienceDataSourceCtr)

	a.Psafs = decodePSAFS(data[44:46])
	// 46 SPARE4

	a.DataBlockFirstPRI = u24(data[47:50])

	at(50, &a.TimeDataBlockWhole)
	at(54, &a.TimeDataBlockFrac)
	at(56, &a.SdiBitField)
	at(58, &a.TimeN)
	at(62, &a.RadiusN)
	at(66, &a.TangentialVelocityN)
	at(70, &a.RadialVelocityN)
	at(74, &a.Tlp)
	at(78, &a.TimeWpf)
	at(82, &a.DeltaTime)
	at(86, &a.TlpInterpolate)
	at(90, &a.RadiusInterpolate)
	at(94, &a.TangentialVelocityInterpolate)
	at(98, &a.RadialVelocityInterpolate)
	at(102, &a.EndTlp)
	at(106, &a.SCoeffs)
	at(138, &a.CCoeffs)
	at(166, &a.Slope)
	at(170, &a.Topography)
	at(174, &a.PhaseCompensationStep)
	at(178, &a.ReceiveWindowOpeningTime)
	at(182, &a.ReceiveWindowPosition)

	return a, nil
}
