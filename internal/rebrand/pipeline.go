package rebrand

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

const defaultMaskLayers = 3

// Config assembles a Processor. The zero value works: default template,
// default pdfcpu configuration, three cover layers, no flattening,
// discarded logs.
type Config struct {
	Template Template

	// PDF overrides the pdfcpu configuration. Leave nil for defaults.
	PDF *model.Configuration

	// MaskLayers is the number of stacked fills per covered region.
	MaskLayers int

	// Flatten rasterizes covered regions after the rebrand when a
	// Renderer is available.
	Flatten  bool
	Renderer RegionRenderer

	Logger *slog.Logger

	// Now supplies the date for output file names. Defaults to time.Now.
	Now func() time.Time
}

// Processor runs complete rebrand conversions. Safe for sequential use;
// each call to Process works on its own document context.
type Processor struct {
	tmpl     Template
	conf     *model.Configuration
	layers   int
	doFlat   bool
	renderer RegionRenderer
	log      *slog.Logger
	now      func() time.Time
}

// New validates the configuration and builds a Processor.
func New(cfg Config) (*Processor, error) {
	tmpl := cfg.Template
	if tmpl == (Template{}) {
		tmpl = DefaultTemplate()
	}
	if err := tmpl.validate(); err != nil {
		return nil, err
	}
	layers := cfg.MaskLayers
	if layers < 1 {
		layers = defaultMaskLayers
	}
	if cfg.Flatten && cfg.Renderer == nil {
		return nil, errors.New("flattening requires a region renderer")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Processor{
		tmpl:     tmpl,
		conf:     cfg.PDF,
		layers:   layers,
		doFlat:   cfg.Flatten,
		renderer: cfg.Renderer,
		log:      log,
		now:      now,
	}, nil
}

// Process rebrands one document. All or nothing: any failure past input
// validation aborts the conversion and no output is produced. The one
// exception is date extraction, which degrades to a footer without a
// date suffix.
func (p *Processor) Process(goCtx context.Context, req BrandingRequest, doc []byte) (*Result, error) {
	partnerName := strings.TrimSpace(req.PartnerName)
	if partnerName == "" {
		return nil, ErrEmptyPartnerName
	}

	reportDate := ExtractDate(doc, p.tmpl.DatePage, p.tmpl.DateLabel)
	if reportDate == "" {
		p.log.Debug("no report date found, footer will carry the partner name only")
	} else {
		p.log.Debug("report date extracted", slog.String("date", reportDate))
	}

	ctx, err := readContext(doc, p.conf)
	if err != nil {
		return nil, err
	}
	if ctx.PageCount < 1 {
		return nil, ErrNoPages
	}

	d := newDocument(ctx)
	for _, pr := range brandRegions(p.tmpl, ctx.PageCount) {
		if err := d.maskRegion(pr.page, pr.region, p.layers); err != nil {
			return nil, errors.Wrapf(err, "cover region on page %d", pr.page)
		}
	}
	if len(req.Logo) > 0 {
		if err := p.placeLogo(d, req.Logo, req.LogoMIME); err != nil {
			return nil, err
		}
	}
	if err := p.rewriteFooters(d, partnerName, reportDate); err != nil {
		return nil, err
	}
	if err := d.setInfo(partnerName); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, errors.Wrap(err, "write output")
	}
	out := buf.Bytes()

	if p.doFlat && p.renderer != nil {
		out = p.flatten(goCtx, out)
	}

	p.log.Debug("conversion finished",
		slog.Int("pages", ctx.PageCount),
		slog.Int("bytes", len(out)))
	return &Result{
		PDF:      out,
		Filename: p.tmpl.OutputFilename(partnerName, p.now()),
	}, nil
}
