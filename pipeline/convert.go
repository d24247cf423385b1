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

// Package pipeline turns SVG fixtures into raster images.
//
// The conversion happens in two stages.  First, an external converter
// program turns the SVG file into a PDF file.  Second, a [Rasterizer]
// turns the PDF into a PNG image.  Both stages report failures as
// [svgregress.Error] values; no step is ever retried.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/svgregress"
	"seehuhn.de/go/svgregress/workspace"
)

// Converter turns an SVG file into a PDF file.
type Converter interface {
	ConvertToPDF(ctx context.Context, svgPath, pdfPath string) error
}

// Command runs an external converter program as
//
//	Binary Args... svgPath pdfPath
//
// The arguments are passed to the program directly, without a shell.
type Command struct {
	Binary string
	Args   []string

	// SkipVerify disables the check that the program wrote a PDF file
	// with at least one page.
	SkipVerify bool
}

// waitDelay bounds how long we wait for the output pipes of a converter
// which was killed because its context expired.
const waitDelay = 2 * time.Second

// ConvertToPDF creates the parent directory of pdfPath and runs the
// converter.  The call fails with [svgregress.ErrConversion] if the program
// cannot be started, exits with a non-zero status, or does not leave a
// readable PDF at pdfPath.  On failure, pdfPath may be missing or
// incomplete.
//
// There is no built-in time limit; use ctx to bound the run time.
func (c *Command) ConvertToPDF(ctx context.Context, svgPath, pdfPath string) error {
	if err := workspace.EnsureParent(pdfPath); err != nil {
		return err
	}

	args := append(slices.Clone(c.Args), svgPath, pdfPath)
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%w)", err, ctxErr)
		}
		return &svgregress.Error{
			Kind: svgregress.ErrConversion,
			Op:   "convert",
			Path: svgPath,
			Err:  err,
		}
	}

	if !c.SkipVerify {
		if err := verifyPDF(pdfPath); err != nil {
			return &svgregress.Error{
				Kind: svgregress.ErrConversion,
				Op:   "verify",
				Path: pdfPath,
				Err:  err,
			}
		}
	}
	return nil
}

var errNoPages = errors.New("PDF file has no pages")

// verifyPDF checks that fname can be parsed as a PDF file and that the
// document has at least one page.
func verifyPDF(fname string) error {
	f, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := pdf.NewReader(f, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	n, err := pagetree.NumPages(r)
	if err != nil {
		return err
	}
	if n < 1 {
		return errNoPages
	}
	return nil
}
