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

// Package testfiles creates small PDF and PNG files for use in tests.
package testfiles

import (
	"bytes"
	"image"
	"image/png"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"
)

// WritePDF writes a single-page PDF file of width×height points.
// The page is black, with a white square of side length size in the
// top-left corner.
func WritePDF(fname string, width, height, size int) error {
	paper := &pdf.Rectangle{
		URx: float64(width),
		URy: float64(height),
	}

	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, float64(width), float64(height))
	page.Fill()

	// PDF origin is bottom-left; use top-left like the PNG images.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(height)})

	page.SetFillColor(color.DeviceGray(1))
	page.Rectangle(0, 0, float64(size), float64(size))
	page.Fill()

	return page.Close()
}

// GrayPNG returns a PNG-encoded grayscale image of size w×h, with pixel
// values given by f.
func GrayPNG(w, h int, f func(x, y int) uint8) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Pix[y*img.Stride+x] = f(x, y)
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Square returns a pixel function for a black w×h image with a white
// square of side length size in the top-left corner.
func Square(size int) func(x, y int) uint8 {
	return func(x, y int) uint8 {
		if x < size && y < size {
			return 255
		}
		return 0
	}
}
