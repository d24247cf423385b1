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

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Rasterizer renders the first page of a PDF document into an encoded
// image.  The input is a complete PDF file, the output a complete PNG file.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfData []byte) ([]byte, error)
}

// RasterizerFunc adapts an ordinary function to the Rasterizer interface.
type RasterizerFunc func(ctx context.Context, pdfData []byte) ([]byte, error)

// Rasterize calls f(ctx, pdfData).
func (f RasterizerFunc) Rasterize(ctx context.Context, pdfData []byte) ([]byte, error) {
	return f(ctx, pdfData)
}

// Ghostscript rasterizes PDF files using the gs program.  The PDF is
// passed on stdin and the PNG image is read from stdout, so no temporary
// files are needed.
type Ghostscript struct {
	// Binary is the Ghostscript executable.  The default is "gs".
	Binary string

	// Device is the Ghostscript output device.  The default is "png16m".
	// Use "pnggray" for 8-bit grayscale output.
	Device string

	// DPI is the output resolution.  The default is 72, so that one PDF
	// unit corresponds to one pixel.
	DPI float64
}

// Args returns the command line arguments used to invoke Ghostscript.
func (g *Ghostscript) Args() []string {
	device := g.Device
	if device == "" {
		device = "png16m"
	}
	dpi := g.DPI
	if dpi <= 0 {
		dpi = 72
	}
	return []string{
		"-q",
		"-dSAFER",
		"-dBATCH",
		"-dNOPAUSE",
		"-sDEVICE=" + device,
		"-r" + strconv.FormatFloat(dpi, 'f', -1, 64),
		"-dGraphicsAlphaBits=4",
		"-dTextAlphaBits=4",
		"-dFirstPage=1",
		"-dLastPage=1",
		"-sOutputFile=-",
		"-",
	}
}

var errNoImage = errors.New("no image data produced")

// Rasterize implements the [Rasterizer] interface.
func (g *Ghostscript) Rasterize(ctx context.Context, pdfData []byte) ([]byte, error) {
	binary := g.Binary
	if binary == "" {
		binary = "gs"
	}

	cmd := exec.CommandContext(ctx, binary, g.Args()...)
	cmd.Stdin = bytes.NewReader(pdfData)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", binary, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", binary, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", binary, errNoImage)
	}
	return stdout.Bytes(), nil
}
