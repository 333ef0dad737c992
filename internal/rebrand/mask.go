package rebrand

import (
	"bytes"
	"fmt"
)

// maskLayerStep is the padding in points added per extra cover layer.
const maskLayerStep = 0.6

// maskOps paints an opaque white stack over r: layers-1 fills of slightly
// increasing extent, then the exact-size fill. Stacking several fills
// papers over hairline seams some renderers leave at the edge of a single
// rectangle.
func maskOps(r Region, layers int) []byte {
	if layers < 1 {
		layers = 1
	}
	var b bytes.Buffer
	b.WriteString("q\n1 1 1 rg\n")
	for i := 1; i < layers; i++ {
		p := r.pad(maskLayerStep * float64(i))
		fmt.Fprintf(&b, "%.2f %.2f %.2f %.2f re\nf\n", p.X, p.Y, p.W, p.H)
	}
	fmt.Fprintf(&b, "%.2f %.2f %.2f %.2f re\nf\n", r.X, r.Y, r.W, r.H)
	b.WriteString("Q\n")
	return b.Bytes()
}

func (d *document) maskRegion(pageNr int, r Region, layers int) error {
	return d.appendContent(pageNr, maskOps(r, layers))
}

// pageRegion pairs a region with the page it applies to.
type pageRegion struct {
	page   int
	region Region
}

// brandRegions lists the regions the masking pass covers: both title
// page blocks, then the running header on every following page. The
// footer region is not in this list, the footer rewrite covers it
// itself before drawing the partner line.
func brandRegions(t Template, pageCount int) []pageRegion {
	prs := []pageRegion{
		{page: 1, region: t.TitleBrand},
		{page: 1, region: t.TitleContact},
	}
	for p := 2; p <= pageCount; p++ {
		prs = append(prs, pageRegion{page: p, region: t.PageHeader})
	}
	return prs
}

// flattenRegions lists every covered region, including the footers,
// for the optional rasterization pass.
func flattenRegions(t Template, pageCount int) []pageRegion {
	prs := brandRegions(t, pageCount)
	for p := 2; p <= pageCount; p++ {
		prs = append(prs, pageRegion{page: p, region: t.Footer})
	}
	return prs
}
