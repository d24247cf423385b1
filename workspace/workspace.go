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

// Package workspace manages the directory trees which hold generated files.
package workspace

import (
	"errors"
	"os"
	"path/filepath"

	"seehuhn.de/go/svgregress"
	"seehuhn.de/go/svgregress/fixture"
)

// EnsureDir creates dir and any missing parents.  It succeeds if the
// directory exists afterwards, including when another goroutine or process
// created it concurrently.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	err := os.MkdirAll(dir, 0o755)
	if err == nil {
		return nil
	}
	if fi, statErr := os.Stat(dir); statErr == nil && fi.IsDir() {
		return nil
	}
	return &svgregress.Error{Kind: svgregress.ErrIO, Op: "mkdir", Path: dir, Err: err}
}

// EnsureParent creates the directory which will contain the file at p.
func EnsureParent(p string) error {
	return EnsureDir(filepath.Dir(p))
}

// Cleaner removes the generated trees of a layout.
type Cleaner struct {
	Layout fixture.Layout
}

// ClearGeneratedPDFs deletes the PDF tree.  A missing tree is not an error.
func (c Cleaner) ClearGeneratedPDFs() error {
	return removeTree(c.Layout.PDFRoot)
}

// ClearDiffOutputs deletes the diff tree.  A missing tree is not an error.
func (c Cleaner) ClearDiffOutputs() error {
	return removeTree(c.Layout.DiffRoot)
}

// ClearAll deletes both generated trees.  Both are attempted even if the
// first one fails.
func (c Cleaner) ClearAll() error {
	return errors.Join(c.ClearGeneratedPDFs(), c.ClearDiffOutputs())
}

var errUnsafeRoot = errors.New("refusing to remove the working or root directory")

func removeTree(root string) error {
	clean := filepath.Clean(root)
	if root == "" || clean == "." || clean == string(filepath.Separator) || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return &svgregress.Error{Kind: svgregress.ErrIO, Op: "remove", Path: root, Err: errUnsafeRoot}
	}
	if err := os.RemoveAll(clean); err != nil {
		return &svgregress.Error{Kind: svgregress.ErrIO, Op: "remove", Path: root, Err: err}
	}
	return nil
}
