package segio

import (
	"encoding/binary"

	"github.com/go-kit/log"

	"github.com/sixty-north/segio/scanner"
)

// options defines all configuration options for a Reader.
type options struct {
	order    binary.ByteOrder
	progress func(float64)
	logger   log.Logger
	metrics  *scanner.Metrics
}

// Option is a function that configures the reader options.
type Option func(*options)

// WithByteOrder overrides the byte order used to decode headers and
// samples. The SEG-Y standard is big endian; this exists for files written
// by nonconforming tools.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithProgress registers a sink receiving scan progress as a non-decreasing
// sequence of values in [0, 1], ending at exactly 1 once the open-time scan
// has built its catalogs.
func WithProgress(fn func(float64)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithLogger sets the logger used by the reader and its scanner.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics updated during the open-time scan.
func WithMetrics(m *scanner.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		order:  binary.BigEndian,
		logger: log.NewNopLogger(),
	}
}
