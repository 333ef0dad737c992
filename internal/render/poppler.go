// Package render rasterizes PDF page regions through the poppler
// pdftoppm tool.
package render

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"pdfrebrand/internal/rebrand"
)

// DefaultDPI renders at three times the PDF point resolution, enough for
// print-quality replacements of the covered regions.
const DefaultDPI = 216

// Runner executes an external command. It exists so tests can intercept
// the pdftoppm invocation.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s: %s", name, firstLine(out))
	}
	return nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "no output"
	}
	return s
}

// Config for the poppler renderer.
type Config struct {
	// Binary is the pdftoppm executable. Defaults to pdftoppm on PATH.
	Binary string
	// DPI is the render resolution. Defaults to DefaultDPI.
	DPI int
}

// Poppler renders page regions by shelling out to pdftoppm.
type Poppler struct {
	bin string
	dpi int
	run Runner
}

// NewPoppler builds a renderer and verifies the binary is reachable.
func NewPoppler(cfg Config) (*Poppler, error) {
	bin := cfg.Binary
	if bin == "" {
		bin = "pdftoppm"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, errors.Wrapf(err, "%s not found, install poppler-utils or disable flattening", bin)
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Poppler{bin: bin, dpi: dpi, run: execRunner{}}, nil
}

// RenderRegion writes the document to a scratch file, renders the crop
// covering the region at the configured resolution and returns the PNG
// bytes. The region's bottom-up page coordinates are converted to the
// top-down pixel window pdftoppm expects.
func (p *Poppler) RenderRegion(ctx context.Context, pdf []byte, pageNr int, r rebrand.Region, pageHeight float64) ([]byte, error) {
	dir, err := os.MkdirTemp("", "pdfrebrand-render-")
	if err != nil {
		return nil, errors.Wrap(err, "scratch dir")
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return nil, errors.Wrap(err, "write scratch document")
	}
	prefix := filepath.Join(dir, "region")

	px := p.pixelWindow(r, pageHeight)
	args := []string{
		"-png",
		"-r", strconv.Itoa(p.dpi),
		"-f", strconv.Itoa(pageNr),
		"-l", strconv.Itoa(pageNr),
		"-x", strconv.Itoa(px.x),
		"-y", strconv.Itoa(px.y),
		"-W", strconv.Itoa(px.w),
		"-H", strconv.Itoa(px.h),
		"-singlefile",
		in,
		prefix,
	}
	if err := p.run.Run(ctx, p.bin, args...); err != nil {
		return nil, err
	}

	img, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, errors.Wrap(err, "read rendering")
	}
	return img, nil
}

type window struct {
	x, y, w, h int
}

// pixelWindow converts a bottom-up region in points to a top-down pixel
// crop. The window is floored on position and ceiled on extent so the
// rendering never undershoots the region.
func (p *Poppler) pixelWindow(r rebrand.Region, pageHeight float64) window {
	scale := float64(p.dpi) / 72
	top := pageHeight - (r.Y + r.H)
	w := window{
		x: int(math.Floor(r.X * scale)),
		y: int(math.Floor(top * scale)),
		w: int(math.Ceil(r.W * scale)),
		h: int(math.Ceil(r.H * scale)),
	}
	if w.x < 0 {
		w.x = 0
	}
	if w.y < 0 {
		w.y = 0
	}
	return w
}
