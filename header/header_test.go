package header_test

import (
	"encoding/binary"
	"testing"

	"github.com/sixty-north/segio/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRead(t *testing.T) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint16(buf[0:], 0xFFFE) // -2 signed, 65534 unsigned
	binary.BigEndian.PutUint32(buf[2:], 0xFFFFFFF0)

	v, err := header.Field{Offset: 0, Size: 2, Signed: true}.Read(buf, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), v)

	v, err = header.Field{Offset: 0, Size: 2}.Read(buf, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(65534), v)

	v, err = header.Field{Offset: 2, Size: 4, Signed: true}.Read(buf, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(-16), v)

	_, err = header.Field{Offset: 6, Size: 4}.Read(buf, binary.BigEndian)
	assert.Error(t, err, "read past the end of the buffer")

	_, err = header.Field{Offset: 0, Size: 3}.Read(buf, binary.BigEndian)
	assert.Error(t, err, "unsupported width")
}

func TestDecodeTraceFields(t *testing.T) {
	buf := make([]byte, header.TraceSize)
	binary.BigEndian.PutUint32(buf[0:], 12)    // sequence number
	binary.BigEndian.PutUint32(buf[20:], 405)  // ensemble number
	binary.BigEndian.PutUint16(buf[114:], 101) // samples
	binary.BigEndian.PutUint32(buf[188:], 7)   // inline
	binary.BigEndian.PutUint32(buf[192:], 93)  // crossline

	tf, err := header.DecodeTraceFields(buf, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(12), tf.SequenceNum)
	assert.Equal(t, int64(405), tf.EnsembleNum)
	assert.Equal(t, int64(101), tf.NumSamples)
	assert.Equal(t, int64(7), tf.Inline)
	assert.Equal(t, int64(93), tf.Crossline)

	_, err = header.DecodeTraceFields(buf[:100], binary.BigEndian)
	assert.Error(t, err)
}

func TestDecodeBinaryHeader(t *testing.T) {
	buf := make([]byte, header.BinarySize)
	binary.BigEndian.PutUint32(buf[0:], 99)    // job id
	binary.BigEndian.PutUint32(buf[4:], 3)     // line number
	binary.BigEndian.PutUint16(buf[16:], 4000) // sample interval, microseconds
	binary.BigEndian.PutUint16(buf[20:], 1501) // samples per trace
	binary.BigEndian.PutUint16(buf[24:], 5)    // ieee float

	bh, err := header.DecodeBinaryHeader(buf, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, int32(99), bh.JobID)
	assert.Equal(t, int32(3), bh.LineNumber)
	assert.Equal(t, int16(4000), bh.SampleInterval)
	assert.Equal(t, int16(1501), bh.SamplesPerTrace)
	assert.Equal(t, header.IEEEFloat, bh.Format)

	_, err = header.DecodeBinaryHeader(buf[:10], binary.BigEndian)
	assert.Error(t, err)
}

func TestSampleFormat(t *testing.T) {
	assert.Equal(t, 4, header.IBMFloat.BytesPerSample())
	assert.Equal(t, 4, header.Int32.BytesPerSample())
	assert.Equal(t, 2, header.Int16.BytesPerSample())
	assert.Equal(t, 4, header.IEEEFloat.BytesPerSample())
	assert.Equal(t, 1, header.Int8.BytesPerSample())
	assert.Equal(t, 0, header.FixedPointGain.BytesPerSample())
	assert.Equal(t, 0, header.SampleFormat(42).BytesPerSample())

	assert.Equal(t, "ibm-float32", header.IBMFloat.String())
	assert.Equal(t, "unknown(42)", header.SampleFormat(42).String())
}

func TestLittleEndianTraceFields(t *testing.T) {
	buf := make([]byte, header.TraceSize)
	binary.LittleEndian.PutUint16(buf[114:], 250)

	tf, err := header.DecodeTraceFields(buf, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(250), tf.NumSamples)
}
