package rebrand

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
)

// RegionRenderer rasterizes one region of a PDF page. Implementations
// return an image covering exactly the region, rendered at a resolution
// high enough for print.
type RegionRenderer interface {
	RenderRegion(ctx context.Context, pdf []byte, pageNr int, r Region, pageHeight float64) ([]byte, error)
}

// flatten replaces the covered regions of a finished document with
// rendered raster images, so the covered originals are gone from view
// even for content-stream tools that ignore paint order. Best effort per
// region: a render or embed failure logs a warning and keeps the vector
// cover for that region. The returned document is always usable.
func (p *Processor) flatten(goCtx context.Context, finished []byte) []byte {
	ctx, err := readContext(finished, p.conf)
	if err != nil {
		p.log.Warn("flatten: reread failed, keeping vector covers", slog.Any("error", err))
		return finished
	}
	dims, err := ctx.PageDims()
	if err != nil {
		p.log.Warn("flatten: page dimensions unavailable, keeping vector covers", slog.Any("error", err))
		return finished
	}

	stamped := 0
	for _, pr := range flattenRegions(p.tmpl, ctx.PageCount) {
		if pr.page > len(dims) {
			continue
		}
		img, err := p.renderer.RenderRegion(goCtx, finished, pr.page, pr.region, dims[pr.page-1].Height)
		if err != nil {
			p.log.Warn("flatten: region render failed, keeping vector cover",
				slog.Int("page", pr.page), slog.Any("error", err))
			continue
		}
		if err := stampRegion(ctx, pr.page, pr.region, img); err != nil {
			p.log.Warn("flatten: region stamp failed, keeping vector cover",
				slog.Int("page", pr.page), slog.Any("error", err))
			continue
		}
		stamped++
	}
	if stamped == 0 {
		return finished
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		p.log.Warn("flatten: write failed, keeping vector covers", slog.Any("error", err))
		return finished
	}
	p.log.Debug("flattened covered regions", slog.Int("stamped", stamped))
	return buf.Bytes()
}

// stampRegion embeds a rendered image over its region. The stamp scale
// maps the image's pixel width back onto the region's width in points,
// so renderings at any resolution land exactly on the region.
func stampRegion(ctx *model.Context, pageNr int, r Region, img []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return errors.Wrap(err, "decode rendering")
	}
	if cfg.Width < 1 {
		return errors.New("rendering has no pixels")
	}
	scale := r.W / float64(cfg.Width)
	desc := fmt.Sprintf("scalefactor:%.4f abs, position:bl, rotation:0, opacity:1", scale)
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(img), desc, true, false, types.POINTS)
	if err != nil {
		return errors.Wrap(err, "build stamp")
	}
	wm.Dx = r.X
	wm.Dy = r.Y
	if err := pdfcpu.AddWatermarks(ctx, types.IntSet{pageNr: true}, wm); err != nil {
		return errors.Wrap(err, "apply stamp")
	}
	return nil
}
