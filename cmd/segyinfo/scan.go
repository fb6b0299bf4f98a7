package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sixty-north/segio"
	"github.com/sixty-north/segio/cache"
)

func scanCmd() *cli.Command {
	var (
		filePath     string
		cachePath    string
		littleEndian bool
		verbose      bool
		force        bool
	)

	return &cli.Command{
		Name:  "scan",
		Usage: "Scan a SEG-Y file and persist its trace catalogs in a cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to SEG-Y file",
				Destination: &filePath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "cache",
				Usage:       "path to catalog cache database",
				Value:       "segio-catalogs.db",
				Destination: &cachePath,
			},
			&cli.BoolFlag{Name: "force", Usage: "re-scan even when a cached entry exists", Destination: &force},
			&cli.BoolFlag{Name: "little-endian", Usage: "decode headers as little-endian", Destination: &littleEndian},
			&cli.BoolFlag{Name: "verbose", Usage: "log scan details to stderr", Destination: &verbose},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			fingerprint, err := cache.Fingerprint(filePath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			db, err := cache.Open(cachePath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer db.Close()

			if !force {
				res, ok, err := db.Get(fingerprint)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				if ok {
					fmt.Printf("cached: %s (%d traces)\n", filePath, res.NumTraces())
					return nil
				}
			}

			r, _, err := openFile(ctx, filePath, littleEndian, verbose, segio.WithProgress(progressBar()))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if err := db.Put(fingerprint, r.Catalogs()); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fmt.Printf("scanned: %s (%d traces, %s)\n", filePath, r.NumTraces(), r.Dimensionality())
			return nil
		},
	}
}

// progressBar writes a textual progress indicator to stderr.
func progressBar() func(float64) {
	last := -1
	return func(p float64) {
		pct := int(p * 100)
		if pct == last {
			return
		}
		last = pct
		fmt.Fprintf(os.Stderr, "\rscanning %3d%%", pct)
		if pct == 100 {
			fmt.Fprintln(os.Stderr)
		}
	}
}
