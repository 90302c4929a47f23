package sharad

import (
	"io"
)

// RawRecord is a single (ancillary, echo) byte pair split out of the
// science telemetry stream by the Record Splitter (C3), together with its
// zero-based, contiguous index.
type RawRecord struct {
	Index     int
	Ancillary []byte // length AncillaryLength (186)
	Echo      []byte // length Mode.RecordLengthBytes - AncillaryLength
}

// RecordSplitter lazily yields RawRecord pairs from a science telemetry
// Stream, given the record length derived from the observation's Mode (C1).
// A short final record (fewer than RecordLength bytes remaining) is fatal,
// per spec.md Sec 4.3.
type RecordSplitter struct {
	stream      Stream
	recordLen   int
	echoLen     int
	next        int
}

// NewRecordSplitter constructs a RecordSplitter for the given science stream
// and mode.
func NewRecordSplitter(stream Stream, mode Mode) *RecordSplitter {
	return &RecordSplitter{
		stream:    stream,
		recordLen: mode.RecordLengthBytes,
		echoLen:   mode.RecordLengthBytes - AncillaryLength,
	}
}

// Next reads the next record. It returns (record, false, nil) on success,
// (zero, true, nil) on clean EOF (no bytes read before the stream ended),
// and a non-nil error -- ErrTruncatedScienceStream or the underlying I/O
// error -- if a record started but could not be read in full.
func (s *RecordSplitter) Next() (RawRecord, bool, error) {
	buf := make([]byte, s.recordLen)

	n, err := io.ReadFull(s.stream, buf)
	if err == io.EOF && n == 0 {
		return RawRecord{}, true, nil
	}
	if err == io.ErrUnexpectedEOF || (err == io.EOF && n > 0) {
		return RawRecord{}, false, ErrTruncatedScienceStream
	}
	if err != nil {
		return RawRecord{}, false, err
	}

	rec := RawRecord{
		Index:     s.next,
		Ancillary: buf[:AncillaryLength],
		Echo:      buf[AncillaryLength:],
	}
	s.next++

	return rec, false, nil
}
