package rebrand

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
)

// scaleToFit returns the largest uniform scale that fits a w x h image
// into maxW x maxH. Aspect ratio is preserved, images smaller than the
// box are scaled up.
func scaleToFit(w, h, maxW, maxH float64) float64 {
	sx := maxW / w
	sy := maxH / h
	if sx < sy {
		return sx
	}
	return sy
}

// placeLogo embeds the partner logo on the title page, scaled into the
// template's logo box. Images are embedded at one point per pixel before
// scaling, so the scale factor applied to the stamp equals target points
// over pixel width.
func (p *Processor) placeLogo(d *document, logo []byte, mimeType string) error {
	if err := ValidateLogoMIME(mimeType); err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(logo))
	if err != nil {
		return errors.Wrap(ErrLogo, err.Error())
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return errors.Wrap(ErrLogo, "image has no pixels")
	}

	box := p.tmpl.Logo
	scale := scaleToFit(float64(cfg.Width), float64(cfg.Height), box.MaxWidth, box.MaxHeight)
	desc := fmt.Sprintf("scalefactor:%.4f abs, position:bl, rotation:0, opacity:1", scale)
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(logo), desc, true, false, types.POINTS)
	if err != nil {
		return errors.Wrap(ErrLogo, err.Error())
	}
	wm.Dx = box.X
	wm.Dy = box.Y
	if err := pdfcpu.AddWatermarks(d.ctx, types.IntSet{1: true}, wm); err != nil {
		return errors.Wrap(ErrLogo, err.Error())
	}
	return nil
}
