// Package header decodes SEG-Y file and trace headers. It provides the
// fixed-size header constants, a byte-offset field schema for extracting
// integer fields from raw header buffers, and decoding of the textual
// (card image) header with EBCDIC/ASCII detection.
package header

import (
	"encoding/binary"
	"fmt"
)

// Sizes of the fixed SEG-Y header regions in bytes.
const (
	TextualSize = 3200
	BinarySize  = 400
	TraceSize   = 240
)

// SampleFormat is the data sample format code carried in the binary file
// header.
type SampleFormat int16

// Format codes from the SEG-Y rev 1 standard.
const (
	IBMFloat       SampleFormat = 1
	Int32          SampleFormat = 2
	Int16          SampleFormat = 3
	FixedPointGain SampleFormat = 4
	IEEEFloat      SampleFormat = 5
	Int8           SampleFormat = 8
)

// BytesPerSample returns the width of one sample, or 0 for format codes
// this library cannot decode.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case IBMFloat, Int32, IEEEFloat:
		return 4
	case Int16:
		return 2
	case Int8:
		return 1
	default:
		return 0
	}
}

func (f SampleFormat) String() string {
	switch f {
	case IBMFloat:
		return "ibm-float32"
	case Int32:
		return "int32"
	case Int16:
		return "int16"
	case FixedPointGain:
		return "fixed-point-with-gain"
	case IEEEFloat:
		return "ieee-float32"
	case Int8:
		return "int8"
	default:
		return fmt.Sprintf("unknown(%d)", int16(f))
	}
}

// Field locates an integer within a fixed-size header buffer.
type Field struct {
	Offset int  // zero-based byte offset
	Size   int  // 2 or 4 bytes
	Signed bool // two's complement when true
}

// Read extracts the field from buf using the given byte order.
func (f Field) Read(buf []byte, order binary.ByteOrder) (int64, error) {
	if f.Offset+f.Size > len(buf) {
		return 0, fmt.Errorf("header: field at offset %d width %d exceeds %d byte buffer", f.Offset, f.Size, len(buf))
	}
	b := buf[f.Offset : f.Offset+f.Size]
	switch f.Size {
	case 2:
		v := order.Uint16(b)
		if f.Signed {
			return int64(int16(v)), nil
		}
		return int64(v), nil
	case 4:
		v := order.Uint32(b)
		if f.Signed {
			return int64(int32(v)), nil
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("header: unsupported field width %d", f.Size)
	}
}

// Trace header fields used by the catalog scanner. Offsets follow the SEG-Y
// rev 1 trace header layout.
var (
	TraceSequenceNum = Field{Offset: 0, Size: 4, Signed: true}
	EnsembleNum      = Field{Offset: 20, Size: 4, Signed: true}
	NumSamples       = Field{Offset: 114, Size: 2, Signed: false}
	InlineNum        = Field{Offset: 188, Size: 4, Signed: true}
	CrosslineNum     = Field{Offset: 192, Size: 4, Signed: true}
)

// TraceFields is the reduced set of trace header fields the scanner needs.
type TraceFields struct {
	SequenceNum int64
	EnsembleNum int64
	NumSamples  int64
	Inline      int64
	Crossline   int64
}

// DecodeTraceFields extracts the reduced field set from a trace header
// buffer of at least TraceSize bytes.
func DecodeTraceFields(buf []byte, order binary.ByteOrder) (TraceFields, error) {
	if len(buf) < TraceSize {
		return TraceFields{}, fmt.Errorf("header: trace header needs %d bytes, have %d", TraceSize, len(buf))
	}
	var (
		tf  TraceFields
		err error
	)
	if tf.SequenceNum, err = TraceSequenceNum.Read(buf, order); err != nil {
		return TraceFields{}, err
	}
	if tf.EnsembleNum, err = EnsembleNum.Read(buf, order); err != nil {
		return TraceFields{}, err
	}
	if tf.NumSamples, err = NumSamples.Read(buf, order); err != nil {
		return TraceFields{}, err
	}
	if tf.Inline, err = InlineNum.Read(buf, order); err != nil {
		return TraceFields{}, err
	}
	if tf.Crossline, err = CrosslineNum.Read(buf, order); err != nil {
		return TraceFields{}, err
	}
	return tf, nil
}

// BinaryHeader holds the fields of the 400-byte binary file header that the
// reader layer consumes.
type BinaryHeader struct {
	JobID                int32
	LineNumber           int32
	ReelNumber           int32
	TracesPerEnsemble    int16
	AuxTracesPerEnsemble int16
	SampleInterval       int16
	SamplesPerTrace      int16
	Format               SampleFormat
	EnsembleFold         int16
	MeasurementSystem    int16
}

// Binary file header field schema (offsets within the 400-byte region).
var (
	binJobID             = Field{Offset: 0, Size: 4, Signed: true}
	binLineNumber        = Field{Offset: 4, Size: 4, Signed: true}
	binReelNumber        = Field{Offset: 8, Size: 4, Signed: true}
	binTracesPerEnsemble = Field{Offset: 12, Size: 2, Signed: true}
	binAuxTraces         = Field{Offset: 14, Size: 2, Signed: true}
	binSampleInterval    = Field{Offset: 16, Size: 2, Signed: true}
	binSamplesPerTrace   = Field{Offset: 20, Size: 2, Signed: true}
	binFormat            = Field{Offset: 24, Size: 2, Signed: true}
	binEnsembleFold      = Field{Offset: 26, Size: 2, Signed: true}
	binMeasurementSystem = Field{Offset: 54, Size: 2, Signed: true}
)

// DecodeBinaryHeader extracts the binary file header from a buffer of at
// least BinarySize bytes.
func DecodeBinaryHeader(buf []byte, order binary.ByteOrder) (BinaryHeader, error) {
	if len(buf) < BinarySize {
		return BinaryHeader{}, fmt.Errorf("header: binary header needs %d bytes, have %d", BinarySize, len(buf))
	}

	var bh BinaryHeader
	read := func(f Field) int64 {
		v, _ := f.Read(buf, order) // length validated above
		return v
	}
	bh.JobID = int32(read(binJobID))
	bh.LineNumber = int32(read(binLineNumber))
	bh.ReelNumber = int32(read(binReelNumber))
	bh.TracesPerEnsemble = int16(read(binTracesPerEnsemble))
	bh.AuxTracesPerEnsemble = int16(read(binAuxTraces))
	bh.SampleInterval = int16(read(binSampleInterval))
	bh.SamplesPerTrace = int16(read(binSamplesPerTrace))
	bh.Format = SampleFormat(read(binFormat))
	bh.EnsembleFold = int16(read(binEnsembleFold))
	bh.MeasurementSystem = int16(read(binMeasurementSystem))
	return bh, nil
}
