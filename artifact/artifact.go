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

// Package artifact stores diagnostic images for failed comparisons.
package artifact

import (
	"errors"
	"os"

	"seehuhn.de/go/svgregress"
	"seehuhn.de/go/svgregress/fixture"
	"seehuhn.de/go/svgregress/workspace"
)

// Suffixes used for the three images of a diff set.
const (
	SuffixDiff      = "diff"
	SuffixActual    = "actual"
	SuffixReference = "reference"
)

// Set lists the files of one diff set.
type Set struct {
	Diff      string
	Actual    string
	Reference string
}

// SetFor returns the file names of the diff set for the base path base.
// All three files lie in the directory of base.
func SetFor(base string) Set {
	return Set{
		Diff:      fixture.WithSuffix(base, SuffixDiff),
		Actual:    fixture.WithSuffix(base, SuffixActual),
		Reference: fixture.WithSuffix(base, SuffixReference),
	}
}

// WriteDiffSet stores the diff image, the actual image and the reference
// image next to base, using the suffixes "-diff", "-actual" and
// "-reference".  Existing files are overwritten.
//
// A failure to write one file does not prevent the other files from being
// written.  All failures are returned, combined with [errors.Join].
func WriteDiffSet(diff, actual, reference []byte, base string) (Set, error) {
	set := SetFor(base)
	if err := workspace.EnsureParent(base); err != nil {
		return set, err
	}
	return set, errors.Join(
		writeFile(set.Diff, diff),
		writeFile(set.Actual, actual),
		writeFile(set.Reference, reference),
	)
}

func writeFile(fname string, data []byte) error {
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		return &svgregress.Error{Kind: svgregress.ErrIO, Op: "write", Path: fname, Err: err}
	}
	return nil
}
