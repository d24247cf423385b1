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

// Package fixture maps fixture identifiers to locations in the four
// directory trees used by the regression tests.
//
// A fixture is identified by its path relative to the SVG root, for example
// "resvg/shapes/rect/simple.svg".  The same relative path, with the
// extension replaced, locates the reference image, the generated PDF and
// the diff output for that fixture.
package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// ID identifies a fixture by its slash-separated path relative to the
// SVG root.
type ID string

// Validate checks that id can be mapped to a path.  The ID must be
// relative, must not leave the root via "..", and must have a non-empty
// file name.
func (id ID) Validate() error {
	s := string(id)
	switch {
	case s == "":
		return errors.New("empty fixture ID")
	case path.IsAbs(s) || filepath.IsAbs(s):
		return fmt.Errorf("fixture ID %q: absolute path", s)
	case strings.HasSuffix(s, "/"):
		return fmt.Errorf("fixture ID %q: empty file name", s)
	}
	clean := path.Clean(s)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("fixture ID %q: outside of the fixture tree", s)
	}
	return nil
}

// Role selects one of the four directory trees.
type Role int

const (
	SVGInput Role = iota
	Reference
	GeneratedPDF
	DiffOutput
)

func (r Role) String() string {
	switch r {
	case SVGInput:
		return "svg-input"
	case Reference:
		return "reference-image"
	case GeneratedPDF:
		return "generated-pdf"
	case DiffOutput:
		return "diff-output"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Ext returns the canonical file extension for the role, without the
// leading dot.
func (r Role) Ext() string {
	switch r {
	case SVGInput:
		return "svg"
	case GeneratedPDF:
		return "pdf"
	default:
		return "png"
	}
}

// Layout gives the root directory of each tree.  A Layout is a plain value;
// it is constructed once and passed to everything that needs paths.
type Layout struct {
	SVGRoot       string
	ReferenceRoot string
	PDFRoot       string
	DiffRoot      string
}

// DefaultLayout returns the layout used by the resvg-based test suite,
// relative to the working directory.
func DefaultLayout() Layout {
	return Layout{
		SVGRoot:       "svgs",
		ReferenceRoot: "references",
		PDFRoot:       "pdfs",
		DiffRoot:      "diffs",
	}
}

// Root returns the root directory for the given role.
func (l Layout) Root(r Role) string {
	switch r {
	case SVGInput:
		return l.SVGRoot
	case Reference:
		return l.ReferenceRoot
	case GeneratedPDF:
		return l.PDFRoot
	case DiffOutput:
		return l.DiffRoot
	default:
		panic("fixture: invalid role " + r.String())
	}
}

// Path returns the location of fixture id in the tree for role r.
// The extension of id is replaced by the canonical extension of the role.
// No file system access takes place.
//
// For example, with the default layout the fixture
// "resvg/shapes/rect/simple.svg" maps to "pdfs/resvg/shapes/rect/simple.pdf"
// for the role GeneratedPDF.
func (l Layout) Path(r Role, id ID) string {
	dir, file := path.Split(string(id))
	return filepath.Join(l.Root(r), filepath.FromSlash(dir), stem(file)+"."+r.Ext())
}

// Paths holds the four locations associated with one fixture.
type Paths struct {
	SVG       string
	Reference string
	PDF       string
	Diff      string
}

// Paths returns all four locations for fixture id.
func (l Layout) Paths(id ID) Paths {
	return Paths{
		SVG:       l.Path(SVGInput, id),
		Reference: l.Path(Reference, id),
		PDF:       l.Path(GeneratedPDF, id),
		Diff:      l.Path(DiffOutput, id),
	}
}

// WithSuffix inserts "-suffix" in front of the final extension of p.
// The result lies in the same directory as p.
//
// WithSuffix("diffs/a/b/case.png", "diff") is "diffs/a/b/case-diff.png".
func WithSuffix(p, suffix string) string {
	dir, file := filepath.Split(p)
	ext := extOf(file)
	return filepath.Join(dir, file[:len(file)-len(ext)]+"-"+suffix+ext)
}

// Discover lists the fixtures found below the SVG root, in sorted order.
// Only regular files with extension ".svg" are included.
func (l Layout) Discover() ([]ID, error) {
	var ids []ID
	err := filepath.WalkDir(l.SVGRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || filepath.Ext(p) != ".svg" {
			return nil
		}
		rel, err := filepath.Rel(l.SVGRoot, p)
		if err != nil {
			return err
		}
		ids = append(ids, ID(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering fixtures in %s: %w", l.SVGRoot, err)
	}
	slices.Sort(ids)
	return ids, nil
}

// extOf returns the extension of a file name.  A leading dot does not start
// an extension, so ".hidden" has none.
func extOf(file string) string {
	ext := path.Ext(file)
	if ext == file {
		return ""
	}
	return ext
}

func stem(file string) string {
	return file[:len(file)-len(extOf(file))]
}
