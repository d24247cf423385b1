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
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/svgregress"
	"seehuhn.de/go/svgregress/fixture"
	"seehuhn.de/go/svgregress/internal/testfiles"
)

// writeScript creates an executable shell script in a temporary directory
// and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	fname := filepath.Join(t.TempDir(), "convert.sh")
	if err := os.WriteFile(fname, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return fname
}

// samplePDF writes a valid PDF file and returns its path.
func samplePDF(t *testing.T) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "sample.pdf")
	if err := testfiles.WritePDF(fname, 64, 48, 16); err != nil {
		t.Fatalf("generating PDF: %v", err)
	}
	return fname
}

// copyScript returns a converter script which copies src to its last
// argument.
func copyScript(t *testing.T, src string) string {
	return writeScript(t, `for last; do :; done
cp '`+src+`' "$last"
`)
}

func testLayout(t *testing.T) fixture.Layout {
	root := t.TempDir()
	return fixture.Layout{
		SVGRoot:       filepath.Join(root, "svgs"),
		ReferenceRoot: filepath.Join(root, "references"),
		PDFRoot:       filepath.Join(root, "pdfs"),
		DiffRoot:      filepath.Join(root, "diffs"),
	}
}

func TestConvertToPDF(t *testing.T) {
	l := testLayout(t)
	c := &Command{Binary: copyScript(t, samplePDF(t))}

	paths := l.Paths("resvg/shapes/rect/simple.svg")
	for i := range 2 {
		if err := c.ConvertToPDF(context.Background(), paths.SVG, paths.PDF); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	if _, err := os.Stat(paths.PDF); err != nil {
		t.Error(err)
	}
}

func TestConvertArguments(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	script := writeScript(t, `printf '%s\n' "$@" > '`+argsFile+`'
for last; do :; done
cp '`+samplePDF(t)+`' "$last"
`)

	c := &Command{Binary: script, Args: []string{"--dpi", "72"}}
	svgPath := filepath.Join(dir, "in dir", "a b;echo $HOME.svg")
	pdfPath := filepath.Join(dir, "out dir", "a b;echo $HOME.pdf")
	if err := c.ConvertToPDF(context.Background(), svgPath, pdfPath); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	want := []string{"--dpi", "72", svgPath, pdfPath}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("arguments (-want +got):\n%s", d)
	}
	if len(c.Args) != 2 {
		t.Errorf("Args was modified: %q", c.Args)
	}
}

func TestConvertExitStatus(t *testing.T) {
	l := testLayout(t)
	script := writeScript(t, "echo 'Failed to load SVG file' >&2\nexit 1\n")
	p := &Pipeline{
		Converter: &Command{Binary: script},
		Rasterizer: RasterizerFunc(func(context.Context, []byte) ([]byte, error) {
			t.Error("rasterizer called after failed conversion")
			return nil, nil
		}),
	}

	paths := l.Paths("a/b/case.svg")
	img, err := p.Render(context.Background(), paths)
	if img != nil {
		t.Error("got an image")
	}
	if !errors.Is(err, svgregress.ErrConversion) {
		t.Fatalf("got %v, want a conversion error", err)
	}
	for _, want := range []string{"exit status 1", "Failed to load SVG file", paths.SVG} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Errorf("exit status not available: %v", err)
	}
}

func TestConvertLaunchFailure(t *testing.T) {
	l := testLayout(t)
	c := &Command{Binary: filepath.Join(t.TempDir(), "no-such-converter")}
	paths := l.Paths("a.svg")
	err := c.ConvertToPDF(context.Background(), paths.SVG, paths.PDF)
	if !errors.Is(err, svgregress.ErrConversion) {
		t.Fatalf("got %v, want a conversion error", err)
	}
}

func TestConvertInvalidOutput(t *testing.T) {
	l := testLayout(t)
	script := writeScript(t, `for last; do :; done
echo "this is not a PDF file" > "$last"
`)
	paths := l.Paths("a.svg")

	c := &Command{Binary: script}
	err := c.ConvertToPDF(context.Background(), paths.SVG, paths.PDF)
	if !errors.Is(err, svgregress.ErrConversion) {
		t.Fatalf("got %v, want a conversion error", err)
	}

	c.SkipVerify = true
	if err := c.ConvertToPDF(context.Background(), paths.SVG, paths.PDF); err != nil {
		t.Errorf("SkipVerify: %v", err)
	}
}

func TestConvertTimeout(t *testing.T) {
	l := testLayout(t)
	c := &Command{Binary: writeScript(t, "exec sleep 10\n")}
	paths := l.Paths("a.svg")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := c.ConvertToPDF(ctx, paths.SVG, paths.PDF)
	if !errors.Is(err, svgregress.ErrConversion) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v", err)
	}
	if d := time.Since(start); d > 5*time.Second {
		t.Errorf("converter ran for %s", d)
	}
}

func TestRasterizeError(t *testing.T) {
	cause := errors.New("broken xref table")
	p := &Pipeline{
		Rasterizer: RasterizerFunc(func(context.Context, []byte) ([]byte, error) {
			return nil, cause
		}),
	}
	_, err := p.Rasterize(context.Background(), []byte("%PDF-1.7"))
	if !errors.Is(err, svgregress.ErrRasterization) {
		t.Errorf("got %v, want a rasterization error", err)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestConvertAndWritePNG(t *testing.T) {
	l := testLayout(t)
	pdfPath := samplePDF(t)
	want := testfiles.GrayPNG(4, 4, testfiles.Square(2))

	var seen []byte
	p := &Pipeline{
		Rasterizer: RasterizerFunc(func(_ context.Context, pdfData []byte) ([]byte, error) {
			seen = pdfData
			return want, nil
		}),
	}

	out := filepath.Join(l.DiffRoot, "a", "b", "case.png")
	for i := range 2 {
		if err := p.ConvertAndWritePNG(context.Background(), pdfPath, out); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("written image differs from rasterizer output")
	}
	pdfData, _ := os.ReadFile(pdfPath)
	if !bytes.Equal(seen, pdfData) {
		t.Error("rasterizer did not receive the PDF file contents")
	}
}

func TestConvertAndWritePNGMissingPDF(t *testing.T) {
	p := &Pipeline{Rasterizer: RasterizerFunc(func(context.Context, []byte) ([]byte, error) {
		return []byte("png"), nil
	})}
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	err := p.ConvertAndWritePNG(context.Background(), filepath.Join(dir, "missing.pdf"), out)
	if !errors.Is(err, svgregress.ErrIO) {
		t.Errorf("got %v, want an I/O error", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output file was created")
	}
}

func TestRender(t *testing.T) {
	l := testLayout(t)
	want := testfiles.GrayPNG(8, 8, testfiles.Square(3))
	p := &Pipeline{
		Converter: &Command{Binary: copyScript(t, samplePDF(t))},
		Rasterizer: RasterizerFunc(func(context.Context, []byte) ([]byte, error) {
			return want, nil
		}),
	}

	paths := l.Paths("resvg/shapes/rect/simple.svg")
	got, err := p.Render(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("wrong image returned")
	}
	if _, err := os.Stat(paths.Diff); !os.IsNotExist(err) {
		t.Error("Render wrote into the diff tree")
	}
}

func TestGhostscriptArgs(t *testing.T) {
	g := &Ghostscript{Device: "pnggray", DPI: 144}
	args := g.Args()
	for _, want := range []string{"-sDEVICE=pnggray", "-r144", "-sOutputFile=-", "-"} {
		found := false
		for _, a := range args {
			if a == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing argument %q in %q", want, args)
		}
	}
	if args[len(args)-1] != "-" {
		t.Error("input is not read from stdin")
	}

	def := (&Ghostscript{}).Args()
	if !strings.Contains(strings.Join(def, " "), "-sDEVICE=png16m -r72 ") {
		t.Errorf("unexpected defaults %q", def)
	}
}

func TestGhostscript(t *testing.T) {
	if _, err := exec.LookPath("gs"); err != nil {
		t.Skip("ghostscript not installed")
	}

	pdfData, err := os.ReadFile(samplePDF(t))
	if err != nil {
		t.Fatal(err)
	}
	g := &Ghostscript{Device: "pnggray"}
	data, err := g.Rasterize(context.Background(), pdfData)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("image size %dx%d, want 64x48", b.Dx(), b.Dy())
	}
}
