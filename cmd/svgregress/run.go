// seehuhn.de/go/svgregress - visual regression tests for SVG-to-PDF converters
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seehuhn.de/go/svgregress/fixture"
	"seehuhn.de/go/svgregress/harness"
	"seehuhn.de/go/svgregress/workspace"
)

// errFailures is returned by the run command if any fixture failed.
// The failures have already been reported at this point.
var errFailures = errors.New("some fixtures failed")

func newRunCmd(g *globals) *cobra.Command {
	var (
		workers    int
		timeout    time.Duration
		clean      bool
		reportFile string
	)
	cmd := &cobra.Command{
		Use:   "run [fixture...]",
		Short: "Convert and compare fixtures",
		Long: `Converts each fixture to PDF, rasterizes the PDF and compares the
result with the reference image.  For every mismatch, the rendered image,
the reference and a diff image are written to the diff directory.

Fixtures are given relative to the SVG root, for example
resvg/shapes/rect/simple.svg.  Without arguments, all fixtures are run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			layout := cfg.Layout()
			if clean {
				if err := (workspace.Cleaner{Layout: layout}).ClearAll(); err != nil {
					return err
				}
			}

			var ids []fixture.ID
			if len(args) > 0 {
				for _, arg := range args {
					ids = append(ids, fixture.ID(arg))
				}
			} else {
				var err error
				ids, err = layout.Discover()
				if err != nil {
					return err
				}
			}

			skip, err := cfg.SkipList()
			if err != nil {
				return err
			}

			g.logger.Info("starting run",
				zap.Int("fixtures", len(ids)),
				zap.Int("skipList", skip.Len()),
				zap.String("converter", cfg.Converter.Binary))
			r := &harness.Runner{
				Layout:   layout,
				Skip:     skip,
				Pipeline: cfg.Pipeline(),
				Compare:  cfg.CompareOptions(),
				Logger:   g.logger,
				Workers:  cfg.Workers,
				Timeout:  cfg.Timeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			report, runErr := r.Run(ctx, ids)

			if reportFile != "" {
				if err := writeReport(report, reportFile); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}

			printSummary(cmd, report)
			if !report.OK() {
				return errFailures
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of fixtures to process in parallel (0 = one per CPU)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "time limit per fixture (0 = none)")
	cmd.Flags().BoolVar(&clean, "clean", false, "remove generated PDFs and diffs before running")
	cmd.Flags().StringVar(&reportFile, "report", "", "write a JSON report to this file")
	return cmd
}

func writeReport(report *harness.Report, fname string) error {
	if err := workspace.EnsureParent(fname); err != nil {
		return err
	}
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fname, err)
	}
	return f.Close()
}

func printSummary(cmd *cobra.Command, report *harness.Report) {
	out := cmd.OutOrStdout()
	for _, res := range report.Failed() {
		switch res.Status {
		case harness.StatusMismatch:
			fmt.Fprintf(out, "MISMATCH %s (%d of %d pixels differ)\n", res.ID, res.DiffPixels, res.TotalPixels)
		case harness.StatusError:
			fmt.Fprintf(out, "ERROR    %s: %v\n", res.ID, res.Err)
		}
	}
	counts := report.Counts()
	fmt.Fprintf(out, "%d passed, %d mismatched, %d errors, %d skipped\n",
		counts[harness.StatusPass], counts[harness.StatusMismatch],
		counts[harness.StatusError], counts[harness.StatusSkipped])
}
