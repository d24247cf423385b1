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

// Package svgregress checks an SVG-to-PDF converter against a corpus of
// SVG fixtures and reference images.
//
// The subpackages divide the work: [fixture] derives file locations,
// [skiplist] excludes known-bad fixtures, [pipeline] runs the converter and
// the rasterizer, [compare] compares images, [artifact] stores diagnostic
// images, [workspace] manages the generated directory trees, and [harness]
// ties everything together.
//
// [fixture]: seehuhn.de/go/svgregress/fixture
// [skiplist]: seehuhn.de/go/svgregress/skiplist
// [pipeline]: seehuhn.de/go/svgregress/pipeline
// [compare]: seehuhn.de/go/svgregress/compare
// [artifact]: seehuhn.de/go/svgregress/artifact
// [workspace]: seehuhn.de/go/svgregress/workspace
// [harness]: seehuhn.de/go/svgregress/harness
package svgregress

import "errors"

// These errors classify the failures of the conversion pipeline.
// Use [errors.Is] to test for them.
var (
	// ErrConversion indicates that the converter could not be started,
	// exited with a non-zero status, or did not produce a readable PDF.
	ErrConversion = errors.New("conversion failed")

	// ErrRasterization indicates that the rasterizer rejected a PDF.
	ErrRasterization = errors.New("rasterization failed")

	// ErrIO indicates that a file could not be read or written, or that
	// a directory could not be created.
	ErrIO = errors.New("I/O error")
)

// Error describes a failed pipeline step.
// The underlying cause is available via [errors.Unwrap].
type Error struct {
	Kind error  // one of ErrConversion, ErrRasterization, ErrIO
	Op   string // the step which failed, e.g. "convert" or "write"
	Path string // the file the step was working on, if any
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// KindOf returns the kind of the first [Error] in the chain of err,
// or nil if there is none.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
