// Package scanner walks the trace region of a SEG-Y byte source exactly
// once, collecting per-trace observations into catalog builders. The scan is
// inherently sequential: each trace's start offset depends on the previous
// trace's declared sample count, so trace boundaries are only known by
// walking them.
package scanner

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/sixty-north/segio/catalog"
	"github.com/sixty-north/segio/header"
)

// scanFraction is the share of total progress assigned to the file walk;
// the remainder is split evenly across the four catalog builds.
const scanFraction = 0.8

var (
	ErrNilSource             = errors.New("scanner: byte source cannot be nil")
	ErrInvalidBytesPerSample = errors.New("scanner: bytes per sample must be positive")
)

// Options configures a Scanner. Zero values select big-endian byte order,
// no progress reporting, no logging and no metrics.
type Options struct {
	// BytesPerSample is the width of one data sample, derived from the
	// binary file header's format code. Required.
	BytesPerSample int

	// ByteOrder of the trace headers. Defaults to big endian, the SEG-Y
	// standard.
	ByteOrder binary.ByteOrder

	// Progress, when non-nil, receives a non-decreasing sequence of values
	// in [0, 1], ending at exactly 1 once all four catalogs are built.
	Progress func(float64)

	// Logger for scan diagnostics.
	Logger log.Logger

	// Metrics, when non-nil, are updated as the scan proceeds.
	Metrics *Metrics
}

// Result carries the four catalogs produced by a scan. Offsets and Lengths
// are always present. Ensembles and Grid are nil when the corresponding
// keys were not unique in the file; that absence is how callers classify
// the survey, not an error.
type Result struct {
	// Offsets maps trace index to the byte offset of the trace's header.
	Offsets catalog.Catalog[int64]

	// Lengths maps trace index to the trace's declared sample count.
	Lengths catalog.Catalog[int64]

	// Ensembles maps ensemble (CDP) number to trace index.
	Ensembles catalog.Catalog[int64]

	// Grid maps (inline, crossline) to trace index.
	Grid catalog.Catalog[catalog.GridKey]
}

// NumTraces returns the number of traces the scan observed.
func (r *Result) NumTraces() int {
	return r.Offsets.Len()
}

// Scanner reads trace headers sequentially from a byte source positioned at
// the first trace record. The scanner borrows the source; it never closes
// it.
type Scanner struct {
	src  io.ReadSeeker
	opts Options
}

// New validates the options and returns a Scanner.
func New(src io.ReadSeeker, opts Options) (*Scanner, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if opts.BytesPerSample <= 0 {
		return nil, ErrInvalidBytesPerSample
	}
	if opts.ByteOrder == nil {
		opts.ByteOrder = binary.BigEndian
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	return &Scanner{src: src, opts: opts}, nil
}

// Scan walks every trace record from the source's current position to the
// end of the data. A short read of the final header, including zero bytes,
// ends the scan cleanly; it is the only loop termination condition. The
// context is checked once per trace.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	start, err := s.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("scanner: locate scan start: %w", err)
	}
	end, err := s.src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("scanner: locate end of data: %w", err)
	}
	if _, err := s.src.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("scanner: rewind to scan start: %w", err)
	}
	total := end - start

	var (
		offsets   = catalog.NewBuilder()
		lengths   = catalog.NewBuilder()
		ensembles = catalog.NewBuilder()
		grid      = catalog.NewGridBuilder()
	)

	began := time.Now()
	buf := make([]byte, header.TraceSize)
	pos := start
	index := int64(0)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, err := io.ReadFull(s.src, buf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// Fewer than header.TraceSize bytes remain: clean end of scan.
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scanner: read trace header %d: %w", index, err)
		}

		fields, err := header.DecodeTraceFields(buf, s.opts.ByteOrder)
		if err != nil {
			return nil, fmt.Errorf("scanner: decode trace header %d: %w", index, err)
		}

		offsets.Add(index, pos)
		lengths.Add(index, fields.NumSamples)
		ensembles.Add(fields.EnsembleNum, index)
		grid.Add(fields.Inline, fields.Crossline, index)

		// Advance past the declared sample data. Trace lengths may vary,
		// which is exactly why a length catalog exists.
		next := pos + header.TraceSize + fields.NumSamples*int64(s.opts.BytesPerSample)
		if _, err := s.src.Seek(next, io.SeekStart); err != nil {
			return nil, fmt.Errorf("scanner: seek past trace %d data: %w", index, err)
		}
		pos = next
		index++

		if s.opts.Metrics != nil {
			s.opts.Metrics.TracesScanned.Inc()
		}
		if total > 0 {
			s.report(scanFraction * min(1, float64(pos-start)/float64(total)))
		}
	}

	if s.opts.Metrics != nil {
		s.opts.Metrics.BytesScanned.Add(float64(min(pos, end) - start))
	}
	s.report(scanFraction)

	res := &Result{}
	buildShare := (1 - scanFraction) / 4

	if res.Offsets, err = offsets.Create(); err != nil {
		return nil, fmt.Errorf("scanner: build offset catalog: %w", err)
	}
	s.report(scanFraction + 1*buildShare)

	if res.Lengths, err = lengths.Create(); err != nil {
		return nil, fmt.Errorf("scanner: build length catalog: %w", err)
	}
	s.report(scanFraction + 2*buildShare)

	res.Ensembles, err = createOptional(s, "ensemble", ensembles.Create)
	if err != nil {
		return nil, err
	}
	s.report(scanFraction + 3*buildShare)

	res.Grid, err = createOptional(s, "grid", grid.Create)
	if err != nil {
		return nil, err
	}
	s.report(1.0)

	if s.opts.Metrics != nil {
		s.opts.Metrics.ScanSeconds.Observe(time.Since(began).Seconds())
	}
	level.Debug(s.opts.Logger).Log(
		"msg", "trace scan complete",
		"traces", index,
		"bytes", min(pos, end)-start,
		"ensemble_catalog", res.Ensembles != nil,
		"grid_catalog", res.Grid != nil,
		"duration", time.Since(began),
	)

	return res, nil
}

// createOptional builds a catalog that is allowed to be absent: duplicate
// keys are an expected structural property of some surveys, so ErrAmbiguous
// becomes a nil catalog rather than a failure.
func createOptional[K comparable](s *Scanner, name string, create func() (catalog.Catalog[K], error)) (catalog.Catalog[K], error) {
	c, err := create()
	if errors.Is(err, catalog.ErrAmbiguous) {
		level.Info(s.opts.Logger).Log("msg", "keys not unique, catalog unavailable", "catalog", name)
		if s.opts.Metrics != nil {
			s.opts.Metrics.AmbiguousCatalogs.WithLabelValues(name).Inc()
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanner: build %s catalog: %w", name, err)
	}
	return c, nil
}

func (s *Scanner) report(p float64) {
	if s.opts.Progress != nil {
		s.opts.Progress(p)
	}
}
