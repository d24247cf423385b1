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
	"context"
	"os"

	"seehuhn.de/go/svgregress"
	"seehuhn.de/go/svgregress/fixture"
	"seehuhn.de/go/svgregress/workspace"
)

// Pipeline combines a converter and a rasterizer.
// A Pipeline holds no per-fixture state and can be used concurrently,
// provided the Converter and Rasterizer can.
type Pipeline struct {
	Converter  Converter
	Rasterizer Rasterizer
}

// ConvertToPDF runs the first stage, SVG to PDF.
func (p *Pipeline) ConvertToPDF(ctx context.Context, svgPath, pdfPath string) error {
	return p.Converter.ConvertToPDF(ctx, svgPath, pdfPath)
}

// Rasterize runs the second stage, PDF to PNG, on data held in memory.
// Errors from the rasterizer are reported with kind
// [svgregress.ErrRasterization] and are available unchanged via
// [errors.Unwrap].
func (p *Pipeline) Rasterize(ctx context.Context, pdfData []byte) ([]byte, error) {
	return p.rasterize(ctx, pdfData, "")
}

func (p *Pipeline) rasterize(ctx context.Context, pdfData []byte, pdfPath string) ([]byte, error) {
	img, err := p.Rasterizer.Rasterize(ctx, pdfData)
	if err != nil {
		return nil, &svgregress.Error{
			Kind: svgregress.ErrRasterization,
			Op:   "rasterize",
			Path: pdfPath,
			Err:  err,
		}
	}
	return img, nil
}

// RasterizeFile reads the PDF file at pdfPath and rasterizes it.
func (p *Pipeline) RasterizeFile(ctx context.Context, pdfPath string) ([]byte, error) {
	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &svgregress.Error{Kind: svgregress.ErrIO, Op: "read", Path: pdfPath, Err: err}
	}
	return p.rasterize(ctx, pdfData, pdfPath)
}

// ConvertAndWritePNG rasterizes the PDF file at pdfPath and stores the
// image at outputPath, creating the parent directory if needed.
func (p *Pipeline) ConvertAndWritePNG(ctx context.Context, pdfPath, outputPath string) error {
	img, err := p.RasterizeFile(ctx, pdfPath)
	if err != nil {
		return err
	}
	if err := workspace.EnsureParent(outputPath); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, img, 0o644); err != nil {
		return &svgregress.Error{Kind: svgregress.ErrIO, Op: "write", Path: outputPath, Err: err}
	}
	return nil
}

// Render runs the whole pipeline for one fixture: the SVG file at
// paths.SVG is converted to paths.PDF, which is then rasterized.
// The resulting PNG image is returned; nothing is written apart from
// the PDF file.
func (p *Pipeline) Render(ctx context.Context, paths fixture.Paths) ([]byte, error) {
	if err := p.ConvertToPDF(ctx, paths.SVG, paths.PDF); err != nil {
		return nil, err
	}
	return p.RasterizeFile(ctx, paths.PDF)
}
