package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/sixty-north/segio"
)

type fileSummary struct {
	File            string `json:"file"`
	SizeBytes       int64  `json:"size_bytes"`
	Format          string `json:"format"`
	Traces          int    `json:"traces"`
	Dimensionality  string `json:"dimensionality"`
	SampleInterval  string `json:"sample_interval"`
	SamplesPerTrace int16  `json:"samples_per_trace"`
	JobID           int32  `json:"job_id,omitempty"`
	LineNumber      int32  `json:"line_number,omitempty"`
	ReelNumber      int32  `json:"reel_number,omitempty"`
	EnsembleFold    int16  `json:"ensemble_fold,omitempty"`
	Ensembles       *span  `json:"ensembles,omitempty"`
	Inlines         *span  `json:"inlines,omitempty"`
	Crosslines      *span  `json:"crosslines,omitempty"`
}

type span struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

func infoCmd() *cli.Command {
	var (
		filePath     string
		asJSON       bool
		showText     bool
		traceCount   int
		littleEndian bool
		verbose      bool
	)

	return &cli.Command{
		Name:  "info",
		Usage: "Summarize the headers and trace layout of a SEG-Y file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to SEG-Y file",
				Destination: &filePath,
				Required:    true,
			},
			&cli.BoolFlag{Name: "json", Usage: "emit the summary as JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "text", Usage: "print the textual header", Destination: &showText},
			&cli.IntFlag{Name: "traces", Usage: "print the first N trace headers", Destination: &traceCount},
			&cli.BoolFlag{Name: "little-endian", Usage: "decode headers as little-endian", Destination: &littleEndian},
			&cli.BoolFlag{Name: "verbose", Usage: "log scan details to stderr", Destination: &verbose},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			r, stat, err := openFile(ctx, filePath, littleEndian, verbose)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if showText {
				fmt.Println(r.TextualHeader())
				fmt.Println()
			}

			summary := summarize(r, filePath, stat.Size())
			if asJSON {
				out, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode summary: %v", err), 1)
				}
				fmt.Println(string(out))
			} else {
				printSummary(summary)
			}

			if traceCount > 0 {
				fmt.Println()
				if err := printTraces(r, traceCount); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}
			return nil
		},
	}
}

func openFile(ctx context.Context, path string, littleEndian, verbose bool, extra ...segio.Option) (*segio.Reader, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	opts := []segio.Option{}
	if littleEndian {
		opts = append(opts, segio.WithByteOrder(binary.LittleEndian))
	}
	if verbose {
		logger := level.NewFilter(log.NewLogfmtLogger(os.Stderr), level.AllowDebug())
		opts = append(opts, segio.WithLogger(logger))
	}
	opts = append(opts, extra...)

	r, err := segio.Open(ctx, f, opts...)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	// The file handle stays open for the life of the process.
	return r, stat, nil
}

func summarize(r *segio.Reader, path string, size int64) fileSummary {
	bh := r.BinaryHeader()
	s := fileSummary{
		File:            path,
		SizeBytes:       size,
		Format:          r.Format().String(),
		Traces:          r.NumTraces(),
		Dimensionality:  r.Dimensionality().String(),
		SampleInterval:  r.SampleInterval().String(),
		SamplesPerTrace: bh.SamplesPerTrace,
		JobID:           bh.JobID,
		LineNumber:      bh.LineNumber,
		ReelNumber:      bh.ReelNumber,
		EnsembleFold:    bh.EnsembleFold,
	}

	catalogs := r.Catalogs()
	if catalogs.Ensembles != nil && catalogs.Ensembles.Len() > 0 {
		min, max := catalogs.Ensembles.KeyRange()
		s.Ensembles = &span{Min: min, Max: max}
	}
	if catalogs.Grid != nil && catalogs.Grid.Len() > 0 {
		min, max := catalogs.Grid.KeyRange()
		s.Inlines = &span{Min: min.Inline, Max: max.Inline}
		s.Crosslines = &span{Min: min.Crossline, Max: max.Crossline}
	}
	return s
}

func printSummary(s fileSummary) {
	row := func(label, value string) {
		fmt.Printf("%-18s %s\n", label+":", value)
	}
	row("file", s.File)
	row("size", fmt.Sprintf("%d bytes", s.SizeBytes))
	row("format", s.Format)
	row("traces", fmt.Sprintf("%d", s.Traces))
	row("dimensionality", s.Dimensionality)
	row("sample_interval", s.SampleInterval)
	row("samples_per_trace", fmt.Sprintf("%d", s.SamplesPerTrace))
	if s.Ensembles != nil {
		row("ensembles", fmt.Sprintf("%d..%d", s.Ensembles.Min, s.Ensembles.Max))
	}
	if s.Inlines != nil {
		row("inlines", fmt.Sprintf("%d..%d", s.Inlines.Min, s.Inlines.Max))
		row("crosslines", fmt.Sprintf("%d..%d", s.Crosslines.Min, s.Crosslines.Max))
	}
}

func printTraces(r *segio.Reader, limit int) error {
	n := r.NumTraces()
	if limit < n {
		n = limit
	}
	for i := 0; i < n; i++ {
		tf, err := r.TraceFields(i)
		if err != nil {
			return err
		}
		length, err := r.TraceLength(i)
		if err != nil {
			return err
		}
		fmt.Printf("trace %-6d seq=%-8d ensemble=%-8d inline=%-6d crossline=%-6d samples=%d\n",
			i, tf.SequenceNum, tf.EnsembleNum, tf.Inline, tf.Crossline, length)
	}
	if n < r.NumTraces() {
		fmt.Printf("... (%d shown of %d)\n", n, r.NumTraces())
	}
	return nil
}
