// Package segio reads SEG-Y seismic trace files. Opening a file decodes the
// textual and binary file headers, then scans the trace region once to build
// catalogs giving O(1)-storage random access to traces by index, by ensemble
// (CDP) number, and by (inline, crossline) survey grid position wherever the
// file's numbering is regular enough to allow it.
//
// The byte source is borrowed for the lifetime of the Reader and is never
// closed by it. A Reader serializes its own seeks, so concurrent trace reads
// are safe; the catalogs themselves are immutable.
package segio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/sixty-north/segio/catalog"
	"github.com/sixty-north/segio/header"
	"github.com/sixty-north/segio/ibm"
	"github.com/sixty-north/segio/scanner"
)

// Common errors returned by Reader operations.
var (
	ErrUnsupportedFormat = errors.New("segio: unsupported sample format")
	ErrTraceOutOfRange   = errors.New("segio: trace index out of range")
	ErrNoEnsembleLookup  = errors.New("segio: ensemble numbers are not unique in this file")
	ErrNoGridLookup      = errors.New("segio: grid positions are not unique in this file")
)

// Dimensionality classifies a survey by which trace lookups its numbering
// supports.
type Dimensionality int

const (
	// Survey1D: traces are addressable by index only.
	Survey1D Dimensionality = iota + 1
	// Survey2D: ensemble numbers are unique, so CDP lookup works.
	Survey2D
	// Survey3D: (inline, crossline) positions are unique.
	Survey3D
)

func (d Dimensionality) String() string {
	switch d {
	case Survey1D:
		return "1D"
	case Survey2D:
		return "2D"
	case Survey3D:
		return "3D"
	default:
		return fmt.Sprintf("Dimensionality(%d)", int(d))
	}
}

// Reader provides random access to the traces of a SEG-Y file.
type Reader struct {
	mu  sync.Mutex // serializes seek+read pairs on src
	src io.ReadSeeker

	id       uuid.UUID
	logger   log.Logger
	order    binary.ByteOrder
	textual  string
	bin      header.BinaryHeader
	catalogs *scanner.Result
}

// Open reads the file headers from src and scans the trace region exactly
// once to build the trace catalogs. src must be positioned at the start of
// the file. The context bounds the scan; the Reader itself performs no
// further long-running work.
func Open(ctx context.Context, src io.ReadSeeker, opts ...Option) (*Reader, error) {
	if src == nil {
		return nil, errors.New("segio: byte source cannot be nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	textBuf := make([]byte, header.TextualSize)
	if _, err := io.ReadFull(src, textBuf); err != nil {
		return nil, fmt.Errorf("segio: read textual header: %w", err)
	}
	textual, err := header.DecodeTextual(textBuf)
	if err != nil {
		return nil, fmt.Errorf("segio: decode textual header: %w", err)
	}

	binBuf := make([]byte, header.BinarySize)
	if _, err := io.ReadFull(src, binBuf); err != nil {
		return nil, fmt.Errorf("segio: read binary header: %w", err)
	}
	bh, err := header.DecodeBinaryHeader(binBuf, o.order)
	if err != nil {
		return nil, fmt.Errorf("segio: decode binary header: %w", err)
	}

	bytesPerSample := bh.Format.BytesPerSample()
	if bytesPerSample == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, bh.Format)
	}

	sc, err := scanner.New(src, scanner.Options{
		BytesPerSample: bytesPerSample,
		ByteOrder:      o.order,
		Progress:       o.progress,
		Logger:         o.logger,
		Metrics:        o.metrics,
	})
	if err != nil {
		return nil, err
	}
	res, err := sc.Scan(ctx)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		src:      src,
		id:       uuid.New(),
		logger:   o.logger,
		order:    o.order,
		textual:  textual,
		bin:      bh,
		catalogs: res,
	}

	level.Debug(r.logger).Log(
		"msg", "file opened",
		"reader", r.id,
		"traces", res.NumTraces(),
		"format", bh.Format,
		"dimensionality", r.Dimensionality(),
	)

	return r, nil
}

// NumTraces returns the number of traces in the file.
func (r *Reader) NumTraces() int {
	return r.catalogs.NumTraces()
}

// TextualHeader returns the card-image header as 40 lines of text.
func (r *Reader) TextualHeader() string {
	return r.textual
}

// BinaryHeader returns the decoded binary file header.
func (r *Reader) BinaryHeader() header.BinaryHeader {
	return r.bin
}

// Format returns the file's sample format.
func (r *Reader) Format() header.SampleFormat {
	return r.bin.Format
}

// SampleInterval returns the nominal time between samples.
func (r *Reader) SampleInterval() time.Duration {
	return time.Duration(r.bin.SampleInterval) * time.Microsecond
}

// Catalogs exposes the scan result, for callers that persist or inspect the
// catalogs directly.
func (r *Reader) Catalogs() *scanner.Result {
	return r.catalogs
}

// Dimensionality classifies the survey by which lookups its numbering
// supports: 3D when grid positions are unique, 2D when only ensemble
// numbers are, 1D otherwise. A file with no traces is 1D: its catalogs
// exist but are empty, and an empty key set supports no lookup.
func (r *Reader) Dimensionality() Dimensionality {
	switch {
	case r.catalogs.NumTraces() == 0:
		return Survey1D
	case r.catalogs.Grid != nil:
		return Survey3D
	case r.catalogs.Ensembles != nil:
		return Survey2D
	default:
		return Survey1D
	}
}

// TraceFields returns the reduced header fields of the trace at index.
func (r *Reader) TraceFields(index int) (header.TraceFields, error) {
	offset, err := r.traceOffset(index)
	if err != nil {
		return header.TraceFields{}, err
	}

	buf := make([]byte, header.TraceSize)
	if err := r.readAt(offset, buf); err != nil {
		return header.TraceFields{}, fmt.Errorf("segio: read trace %d header: %w", index, err)
	}
	return header.DecodeTraceFields(buf, r.order)
}

// Samples reads and decodes the sample data of the trace at index.
func (r *Reader) Samples(index int) ([]float32, error) {
	offset, err := r.traceOffset(index)
	if err != nil {
		return nil, err
	}
	n, err := r.catalogs.Lengths.Get(int64(index))
	if err != nil {
		return nil, fmt.Errorf("segio: trace %d length: %w", index, err)
	}

	width := r.bin.Format.BytesPerSample()
	raw := make([]byte, n*int64(width))
	if err := r.readAt(offset+header.TraceSize, raw); err != nil {
		return nil, fmt.Errorf("segio: read trace %d samples: %w", index, err)
	}
	return r.decodeSamples(raw, int(n))
}

// TraceLength returns the declared sample count of the trace at index.
func (r *Reader) TraceLength(index int) (int, error) {
	n, err := r.catalogs.Lengths.Get(int64(index))
	if errors.Is(err, catalog.ErrNotFound) {
		return 0, fmt.Errorf("%w: %d", ErrTraceOutOfRange, index)
	}
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// TraceByEnsemble returns the index of the trace with the given ensemble
// (CDP) number. ErrNoEnsembleLookup reports that the file's ensemble
// numbering is ambiguous; catalog.ErrNotFound reports a number the file
// simply does not contain. Callers can tell the two apart.
func (r *Reader) TraceByEnsemble(ensemble int64) (int, error) {
	if r.catalogs.Ensembles == nil {
		return 0, ErrNoEnsembleLookup
	}
	index, err := r.catalogs.Ensembles.Get(ensemble)
	if err != nil {
		return 0, err
	}
	return int(index), nil
}

// TraceByGridPosition returns the index of the trace at the given survey
// grid position. ErrNoGridLookup reports ambiguous grid numbering;
// catalog.ErrNotFound reports a position outside the survey.
func (r *Reader) TraceByGridPosition(inline, crossline int64) (int, error) {
	if r.catalogs.Grid == nil {
		return 0, ErrNoGridLookup
	}
	index, err := r.catalogs.Grid.Get(catalog.GridKey{Inline: inline, Crossline: crossline})
	if err != nil {
		return 0, err
	}
	return int(index), nil
}

// EnsembleNumbers iterates the unique ensemble numbers in ascending order.
// The sequence is empty when ensemble lookup is unavailable.
func (r *Reader) EnsembleNumbers() iter.Seq[int64] {
	if r.catalogs.Ensembles == nil {
		return func(func(int64) bool) {}
	}
	return r.catalogs.Ensembles.Keys()
}

// GridPositions iterates the survey grid positions in ascending order. The
// sequence is empty when grid lookup is unavailable.
func (r *Reader) GridPositions() iter.Seq[catalog.GridKey] {
	if r.catalogs.Grid == nil {
		return func(func(catalog.GridKey) bool) {}
	}
	return r.catalogs.Grid.Keys()
}

func (r *Reader) traceOffset(index int) (int64, error) {
	offset, err := r.catalogs.Offsets.Get(int64(index))
	if errors.Is(err, catalog.ErrNotFound) {
		return 0, fmt.Errorf("%w: %d", ErrTraceOutOfRange, index)
	}
	return offset, err
}

func (r *Reader) readAt(offset int64, buf []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.src.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	_, err := io.ReadFull(r.src, buf)
	return err
}

func (r *Reader) decodeSamples(raw []byte, n int) ([]float32, error) {
	out := make([]float32, n)
	switch r.bin.Format {
	case header.IBMFloat:
		for i := 0; i < n; i++ {
			out[i] = ibm.ToFloat32(r.order.Uint32(raw[i*4:]))
		}
	case header.IEEEFloat:
		for i := 0; i < n; i++ {
			out[i] = math.Float32frombits(r.order.Uint32(raw[i*4:]))
		}
	case header.Int32:
		for i := 0; i < n; i++ {
			out[i] = float32(int32(r.order.Uint32(raw[i*4:])))
		}
	case header.Int16:
		for i := 0; i < n; i++ {
			out[i] = float32(int16(r.order.Uint16(raw[i*2:])))
		}
	case header.Int8:
		for i := 0; i < n; i++ {
			out[i] = float32(int8(raw[i]))
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, r.bin.Format)
	}
	return out, nil
}
