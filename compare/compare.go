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

// Package compare compares rendered images against reference images.
//
// Images are compared pixel by pixel.  Small differences, as caused by
// different anti-aliasing, are ignored up to a tolerance, and a limited
// share of pixels may exceed the tolerance before two images are considered
// different.
package compare

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// Options controls the comparison.
type Options struct {
	// Tolerance is the largest per-channel difference, on a scale from 0
	// to 255, which is ignored.
	Tolerance uint8

	// MaxDiffPercent is the percentage of pixels which may differ by more
	// than Tolerance.
	MaxDiffPercent float64
}

// DefaultOptions returns options which allow for rounding differences
// but require every pixel to be close to the reference.
func DefaultOptions() Options {
	return Options{Tolerance: 2}
}

// Result describes the outcome of a comparison.
type Result struct {
	Match bool

	// DiffPixels is the number of pixels which differ by more than the
	// tolerance.  Total is the number of pixels in the reference image.
	DiffPixels int
	Total      int

	// SizeMismatch is set if the two images have different dimensions.
	// In this case all pixels count as different.
	SizeMismatch bool

	// Diff is a PNG image visualising the differences.  It is only set if
	// the images do not match.  The reference is shown in the red channel,
	// the actual image in the green channel, and pixels which exceed the
	// tolerance are marked in the blue channel.
	Diff []byte
}

// Images compares two PNG-encoded images.  An error is returned only if
// one of the images cannot be decoded; differing images are reported via
// the Result.
func Images(actual, reference []byte, opt Options) (*Result, error) {
	act, err := decode(actual)
	if err != nil {
		return nil, fmt.Errorf("decoding actual image: %w", err)
	}
	ref, err := decode(reference)
	if err != nil {
		return nil, fmt.Errorf("decoding reference image: %w", err)
	}
	return compare(act, ref, opt)
}

func compare(act, ref *image.RGBA, opt Options) (*Result, error) {
	bounds := ref.Bounds()
	res := &Result{Total: bounds.Dx() * bounds.Dy()}

	if act.Bounds().Size() != bounds.Size() {
		// Scale the actual image to the reference size, so that the
		// diff image still shows something useful.
		scaled := image.NewRGBA(bounds)
		draw.NearestNeighbor.Scale(scaled, bounds, act, act.Bounds(), draw.Src, nil)
		act = scaled
		res.SizeMismatch = true
	}

	w, h := bounds.Dx(), bounds.Dy()
	exceeds := make([]bool, w*h)
	for y := range h {
		for x := range w {
			i := y*w + x
			if pixelDiff(act, ref, x, y) > opt.Tolerance {
				exceeds[i] = true
				res.DiffPixels++
			}
		}
	}

	maxAllowed := int(float64(res.Total) * opt.MaxDiffPercent / 100)
	if res.SizeMismatch {
		res.DiffPixels = res.Total
	}
	res.Match = !res.SizeMismatch && res.DiffPixels <= maxAllowed
	if res.Match {
		return res, nil
	}

	diff, err := diffImage(act, ref, exceeds)
	if err != nil {
		return nil, err
	}
	res.Diff = diff
	return res, nil
}

// decode reads a PNG image and converts it to RGBA with the origin at
// (0, 0).
func decode(data []byte) (*image.RGBA, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// pixelDiff returns the largest channel difference between the pixels
// at (x, y).
func pixelDiff(a, b *image.RGBA, x, y int) uint8 {
	i := a.PixOffset(x, y)
	j := b.PixOffset(x, y)
	var d uint8
	for k := range 4 {
		p, q := a.Pix[i+k], b.Pix[j+k]
		if p > q {
			d = max(d, p-q)
		} else {
			d = max(d, q-p)
		}
	}
	return d
}

func diffImage(act, ref *image.RGBA, exceeds []bool) ([]byte, error) {
	bounds := ref.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	img := image.NewRGBA(bounds)
	for y := range h {
		for x := range w {
			var mark uint8
			if exceeds[y*w+x] {
				mark = 255
			}
			img.SetRGBA(x, y, color.RGBA{
				R: gray(ref, x, y), // expected in red
				G: gray(act, x, y), // actual in green
				B: mark,
				A: 255,
			})
		}
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("encoding diff image: %w", err)
	}
	return buf.Bytes(), nil
}

func gray(img *image.RGBA, x, y int) uint8 {
	return color.GrayModel.Convert(img.RGBAAt(x, y)).(color.Gray).Y
}
