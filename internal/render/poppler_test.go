package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfrebrand/internal/rebrand"
)

type stubRunner struct {
	name     string
	args     []string
	err      error
	writeOut bool
	out      []byte
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) error {
	s.name = name
	s.args = args
	if s.err != nil {
		return s.err
	}
	if s.writeOut {
		prefix := args[len(args)-1]
		return os.WriteFile(prefix+".png", s.out, 0o600)
	}
	return nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 3))
	for x := 0; x < 6; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i, a := range args {
		if a == flag {
			require.Less(t, i+1, len(args), "no value after %s", flag)
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}

func TestRenderRegionInvocation(t *testing.T) {
	want := testPNG(t)
	runner := &stubRunner{writeOut: true, out: want}
	p := &Poppler{bin: "pdftoppm", dpi: 216, run: runner}

	region := rebrand.Region{X: 40, Y: 28, W: 515, H: 30}
	got, err := p.RenderRegion(context.Background(), []byte("%PDF-stub"), 2, region, 841.89)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Equal(t, "pdftoppm", runner.name)
	assert.Equal(t, "-png", runner.args[0])
	assert.Contains(t, runner.args, "-singlefile")
	assert.Equal(t, "216", argAfter(t, runner.args, "-r"))
	assert.Equal(t, "2", argAfter(t, runner.args, "-f"))
	assert.Equal(t, "2", argAfter(t, runner.args, "-l"))

	// 216 dpi triples the point coordinates; the top-down y window starts
	// at pageHeight minus the region's upper edge.
	assert.Equal(t, "120", argAfter(t, runner.args, "-x"))
	assert.Equal(t, "2351", argAfter(t, runner.args, "-y"))
	assert.Equal(t, "1545", argAfter(t, runner.args, "-W"))
	assert.Equal(t, "90", argAfter(t, runner.args, "-H"))
}

func TestRenderRegionRunnerFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 99")}
	p := &Poppler{bin: "pdftoppm", dpi: 216, run: runner}

	_, err := p.RenderRegion(context.Background(), []byte("%PDF-stub"), 1, rebrand.Region{X: 0, Y: 0, W: 10, H: 10}, 841.89)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 99")
}

func TestRenderRegionMissingOutput(t *testing.T) {
	runner := &stubRunner{}
	p := &Poppler{bin: "pdftoppm", dpi: 216, run: runner}

	_, err := p.RenderRegion(context.Background(), []byte("%PDF-stub"), 1, rebrand.Region{X: 0, Y: 0, W: 10, H: 10}, 841.89)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read rendering")
}

func TestPixelWindowClampsNegativeOrigins(t *testing.T) {
	p := &Poppler{dpi: 216}

	w := p.pixelWindow(rebrand.Region{X: -5, Y: 830, W: 20, H: 20}, 841.89)
	assert.Equal(t, 0, w.x)
	assert.Equal(t, 0, w.y)
	assert.Equal(t, 60, w.w)
	assert.Equal(t, 60, w.h)
}

func TestNewPopplerMissingBinary(t *testing.T) {
	_, err := NewPoppler(Config{Binary: "definitely-not-installed-anywhere"})
	require.Error(t, err)
}
