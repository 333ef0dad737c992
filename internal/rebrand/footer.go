package rebrand

import (
	"bytes"
	"fmt"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Resource names for the two footer fonts. Prefixed to avoid colliding
// with names the source document already uses.
const (
	footerFontBold    = "RbF1"
	footerFontRegular = "RbF2"

	footerBaseBold    = "Helvetica-Bold"
	footerBaseRegular = "Helvetica"
)

// encodeWinAnsi maps a string to WinAnsi bytes. Characters outside the
// code page degrade to the encoder's substitute byte instead of failing,
// an exotic partner name must not abort the conversion.
func encodeWinAnsi(s string) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrap(err, "encode text")
	}
	return b, nil
}

// footerOps builds the operators for one footer line: the partner name
// in bold, and when a report date is known, a regular ", <date>" suffix
// starting exactly where the measured name ends.
func footerOps(t Template, partnerName, reportDate string) ([]byte, error) {
	x, y := t.FooterText.X, t.FooterText.Y
	size := t.FooterText.Size

	name, err := encodeWinAnsi(partnerName)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("q\n0 0 0 rg\n")
	fmt.Fprintf(&b, "BT\n/%s %.2f Tf\n%.2f %.2f Td\n(", footerFontBold, size, x, y)
	b.Write(escapeTextString(name))
	b.WriteString(") Tj\nET\n")

	if reportDate != "" {
		suffix, err := encodeWinAnsi(", " + reportDate)
		if err != nil {
			return nil, err
		}
		sx := x + font.TextWidth(partnerName, footerBaseBold, int(math.Round(size)))
		fmt.Fprintf(&b, "BT\n/%s %.2f Tf\n%.2f %.2f Td\n(", footerFontRegular, size, sx, y)
		b.Write(escapeTextString(suffix))
		b.WriteString(") Tj\nET\n")
	}
	b.WriteString("Q\n")
	return b.Bytes(), nil
}

// rewriteFooters covers the original footer on every page after the
// title page and draws the partner line in its place.
func (p *Processor) rewriteFooters(d *document, partnerName, reportDate string) error {
	ops, err := footerOps(p.tmpl, partnerName, reportDate)
	if err != nil {
		return err
	}
	for pageNr := 2; pageNr <= d.ctx.PageCount; pageNr++ {
		if err := d.maskRegion(pageNr, p.tmpl.Footer, p.layers); err != nil {
			return errors.Wrapf(err, "cover footer on page %d", pageNr)
		}
		if err := d.ensureFont(pageNr, footerFontBold, footerBaseBold); err != nil {
			return err
		}
		if reportDate != "" {
			if err := d.ensureFont(pageNr, footerFontRegular, footerBaseRegular); err != nil {
				return err
			}
		}
		if err := d.appendContent(pageNr, ops); err != nil {
			return errors.Wrapf(err, "write footer on page %d", pageNr)
		}
	}
	return nil
}
