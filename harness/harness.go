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

// Package harness runs the regression tests for a list of fixtures.
//
// Each fixture is converted to PDF, rasterized, and compared against its
// reference image.  A fixture whose pipeline fails is reported with
// [StatusError]; a fixture which renders but does not match its reference
// is reported with [StatusMismatch], and its diagnostic images are written
// to the diff tree.
package harness

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/svgregress"
	"seehuhn.de/go/svgregress/artifact"
	"seehuhn.de/go/svgregress/compare"
	"seehuhn.de/go/svgregress/fixture"
	"seehuhn.de/go/svgregress/pipeline"
	"seehuhn.de/go/svgregress/skiplist"
)

// Status is the outcome for one fixture.
type Status int

const (
	StatusPass Status = iota
	StatusMismatch
	StatusError
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusMismatch:
		return "mismatch"
	case StatusError:
		return "error"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome for one fixture.
type Result struct {
	ID     fixture.ID
	Status Status

	// DiffPixels and TotalPixels are set once the images have been
	// compared.
	DiffPixels  int
	TotalPixels int

	// Diffs lists the diagnostic images, for fixtures with StatusMismatch.
	Diffs *artifact.Set

	// Err is the reason for StatusError.  For StatusMismatch, Err is set
	// if some of the diagnostic images could not be written.
	Err error

	Elapsed time.Duration
}

// Runner processes fixtures.  The zero value is not usable; at least
// Pipeline must be set.
type Runner struct {
	Layout   fixture.Layout
	Skip     *skiplist.Set
	Pipeline *pipeline.Pipeline
	Compare  compare.Options
	Logger   *zap.Logger

	// Workers is the maximum number of fixtures processed concurrently.
	// Zero means GOMAXPROCS.
	Workers int

	// Timeout bounds the time spent in the pipeline for one fixture.
	// Zero means no limit.
	Timeout time.Duration
}

// Run processes the given fixtures and returns a report.  Fixture
// failures are recorded in the report; the returned error is non-nil only
// if ctx was cancelled before all fixtures were processed.
func (r *Runner) Run(ctx context.Context, ids []fixture.ID) (*Report, error) {
	log := r.logger()
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, id := range ids {
		eg.Go(func() error {
			results[i] = r.Check(egCtx, id)
			return nil
		})
	}
	_ = eg.Wait()

	slices.SortStableFunc(results, func(a, b Result) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	report := &Report{Results: results}

	counts := report.Counts()
	log.Info("run finished",
		zap.Int("fixtures", len(ids)),
		zap.Int("pass", counts[StatusPass]),
		zap.Int("mismatch", counts[StatusMismatch]),
		zap.Int("error", counts[StatusError]),
		zap.Int("skipped", counts[StatusSkipped]))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// Check processes a single fixture.
func (r *Runner) Check(ctx context.Context, id fixture.ID) Result {
	start := time.Now()
	res := r.check(ctx, id)
	res.Elapsed = time.Since(start)

	log := r.logger().With(zap.String("fixture", string(id)), zap.Duration("elapsed", res.Elapsed))
	switch res.Status {
	case StatusPass:
		log.Debug("pass")
	case StatusSkipped:
		log.Debug("skipped")
	case StatusMismatch:
		log.Warn("image mismatch",
			zap.Int("diffPixels", res.DiffPixels),
			zap.Int("totalPixels", res.TotalPixels),
			zap.String("diff", res.Diffs.Diff))
		if res.Err != nil {
			log.Error("writing diff images", zap.Error(res.Err))
		}
	case StatusError:
		log.Error("pipeline failed", zap.Error(res.Err))
	}
	return res
}

func (r *Runner) check(ctx context.Context, id fixture.ID) Result {
	res := Result{ID: id}
	fail := func(err error) Result {
		res.Status = StatusError
		res.Err = err
		return res
	}

	if r.Skip.Contains(string(id)) {
		res.Status = StatusSkipped
		return res
	}
	if err := id.Validate(); err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	paths := r.Layout.Paths(id)

	pipeCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		pipeCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	actual, err := r.Pipeline.Render(pipeCtx, paths)
	if err != nil {
		return fail(err)
	}

	reference, err := os.ReadFile(paths.Reference)
	if err != nil {
		return fail(&svgregress.Error{Kind: svgregress.ErrIO, Op: "read", Path: paths.Reference, Err: err})
	}

	outcome, err := compare.Images(actual, reference, r.Compare)
	if err != nil {
		return fail(err)
	}
	res.DiffPixels = outcome.DiffPixels
	res.TotalPixels = outcome.Total
	if outcome.Match {
		res.Status = StatusPass
		return res
	}

	res.Status = StatusMismatch
	set, err := artifact.WriteDiffSet(outcome.Diff, actual, reference, paths.Diff)
	res.Diffs = &set
	res.Err = err
	return res
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
