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

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// setup creates a workspace with a config file and returns the path of
// the config file and the workspace root.
func setup(t *testing.T, converter string) (string, string) {
	t.Helper()
	root := t.TempDir()
	cfg := fmt.Sprintf(`svg_root: %q
reference_root: %q
pdf_root: %q
diff_root: %q
converter:
  binary: %q
`,
		filepath.Join(root, "svgs"),
		filepath.Join(root, "references"),
		filepath.Join(root, "pdfs"),
		filepath.Join(root, "diffs"),
		converter)
	fname := filepath.Join(root, "svgregress.yaml")
	if err := os.WriteFile(fname, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return fname, root
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSkipped(t *testing.T) {
	out, err := execute("skipped")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "crash        resvg/structure/svg/zero-size.svg\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestClean(t *testing.T) {
	cfg, root := setup(t, "svg2pdf")
	for _, p := range []string{"pdfs/a/b.pdf", "diffs/a/b-diff.png", "svgs/a/b.svg"} {
		fname := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fname, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	for i := range 2 {
		if _, err := execute("clean", "--config", cfg); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	for _, dir := range []string{"pdfs", "diffs"} {
		if _, err := os.Stat(filepath.Join(root, dir)); !os.IsNotExist(err) {
			t.Errorf("%s still exists", dir)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "svgs", "a", "b.svg")); err != nil {
		t.Error("fixture removed")
	}
}

func TestRunReportsConverterFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	script := filepath.Join(t.TempDir(), "svg2pdf")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'Failed to load SVG file' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, root := setup(t, script)

	svg := filepath.Join(root, "svgs", "a", "case.svg")
	if err := os.MkdirAll(filepath.Dir(svg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(svg, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	reportFile := filepath.Join(root, "out", "report.json")
	out, err := execute("run", "--config", cfg, "--report", reportFile, "-j", "1")
	if !errors.Is(err, errFailures) {
		t.Fatalf("got %v, want errFailures", err)
	}
	if !strings.Contains(out, "ERROR    a/case.svg") || !strings.Contains(out, "0 passed, 0 mismatched, 1 errors") {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(reportFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"status": "error"`) {
		t.Errorf("report does not record the error:\n%s", data)
	}
}

func TestRunBadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(fname, []byte("workers: many\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute("run", "--config", fname); err == nil {
		t.Error("invalid config accepted")
	}
}
