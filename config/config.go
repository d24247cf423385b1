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

// Package config reads the settings for a regression test run.
//
// Settings are read once, from an optional YAML file, and are not changed
// afterwards.  Every field has a default which matches the directory layout
// of the resvg-based test suite.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/svgregress/compare"
	"seehuhn.de/go/svgregress/fixture"
	"seehuhn.de/go/svgregress/pipeline"
	"seehuhn.de/go/svgregress/skiplist"
)

// Config holds the settings for a test run.
type Config struct {
	SVGRoot       string `yaml:"svg_root"`
	ReferenceRoot string `yaml:"reference_root"`
	PDFRoot       string `yaml:"pdf_root"`
	DiffRoot      string `yaml:"diff_root"`

	Converter  Converter  `yaml:"converter"`
	Rasterizer Rasterizer `yaml:"rasterizer"`
	Compare    Compare    `yaml:"compare"`

	// Workers is the number of fixtures processed concurrently.
	// Zero means one per CPU.
	Workers int `yaml:"workers"`

	// Timeout bounds the time spent on a single fixture.
	// Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`

	// SkipFile optionally names a file with additional fixtures to skip,
	// one per line.
	SkipFile string `yaml:"skip_file"`
}

// Converter describes the SVG-to-PDF converter program.
type Converter struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`
}

// Rasterizer describes the Ghostscript invocation used to render PDF files.
type Rasterizer struct {
	Binary string  `yaml:"binary"`
	Device string  `yaml:"device"`
	DPI    float64 `yaml:"dpi"`
}

// Compare holds the image comparison thresholds.
type Compare struct {
	Tolerance      uint8   `yaml:"tolerance"`
	MaxDiffPercent float64 `yaml:"max_diff_percent"`
}

// Default returns the default settings.
func Default() Config {
	l := fixture.DefaultLayout()
	opt := compare.DefaultOptions()
	return Config{
		SVGRoot:       l.SVGRoot,
		ReferenceRoot: l.ReferenceRoot,
		PDFRoot:       l.PDFRoot,
		DiffRoot:      l.DiffRoot,
		Converter: Converter{
			Binary: filepath.Join("..", "target", "release", "svg2pdf"),
		},
		Rasterizer: Rasterizer{
			Binary: "gs",
			Device: "png16m",
			DPI:    72,
		},
		Compare: Compare{
			Tolerance:      opt.Tolerance,
			MaxDiffPercent: opt.MaxDiffPercent,
		},
	}
}

// Load reads the settings from the YAML file fname.  Fields missing from
// the file keep their default values.  If fname is empty, the defaults are
// returned.
func Load(fname string) (Config, error) {
	if fname == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", fname, err)
	}
	return cfg, nil
}

// Parse reads settings in YAML format from r.  Unknown keys are an error.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	var errs []error
	roots := map[string]string{
		"svg_root":       c.SVGRoot,
		"reference_root": c.ReferenceRoot,
		"pdf_root":       c.PDFRoot,
		"diff_root":      c.DiffRoot,
	}
	seen := make(map[string]string)
	for _, key := range []string{"svg_root", "reference_root", "pdf_root", "diff_root"} {
		dir := roots[key]
		if dir == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", key))
			continue
		}
		clean := filepath.Clean(dir)
		if other, ok := seen[clean]; ok {
			errs = append(errs, fmt.Errorf("%s and %s are the same directory", other, key))
		}
		seen[clean] = key
	}
	if c.Converter.Binary == "" {
		errs = append(errs, errors.New("converter.binary must not be empty"))
	}
	if c.Rasterizer.DPI <= 0 {
		errs = append(errs, fmt.Errorf("rasterizer.dpi must be positive, not %g", c.Rasterizer.DPI))
	}
	if p := c.Compare.MaxDiffPercent; p < 0 || p > 100 {
		errs = append(errs, fmt.Errorf("compare.max_diff_percent must be between 0 and 100, not %g", p))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, not %d", c.Workers))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, not %s", c.Timeout))
	}
	return errors.Join(errs...)
}

// Layout returns the directory layout.
func (c Config) Layout() fixture.Layout {
	return fixture.Layout{
		SVGRoot:       c.SVGRoot,
		ReferenceRoot: c.ReferenceRoot,
		PDFRoot:       c.PDFRoot,
		DiffRoot:      c.DiffRoot,
	}
}

// Pipeline returns a conversion pipeline using the configured converter
// and Ghostscript for rasterization.
func (c Config) Pipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Converter: &pipeline.Command{
			Binary: c.Converter.Binary,
			Args:   append([]string(nil), c.Converter.Args...),
		},
		Rasterizer: &pipeline.Ghostscript{
			Binary: c.Rasterizer.Binary,
			Device: c.Rasterizer.Device,
			DPI:    c.Rasterizer.DPI,
		},
	}
}

// CompareOptions returns the image comparison thresholds.
func (c Config) CompareOptions() compare.Options {
	return compare.Options{
		Tolerance:      c.Compare.Tolerance,
		MaxDiffPercent: c.Compare.MaxDiffPercent,
	}
}

// SkipList returns the built-in skip list, extended by the entries of
// SkipFile if one is configured.
func (c Config) SkipList() (*skiplist.Set, error) {
	if c.SkipFile == "" {
		return skiplist.Default, nil
	}
	f, err := os.Open(c.SkipFile)
	if err != nil {
		return nil, fmt.Errorf("reading skip list: %w", err)
	}
	defer f.Close()
	extra, err := skiplist.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.SkipFile, err)
	}
	return skiplist.Union(skiplist.Default, extra), nil
}
