package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"pdfrebrand/internal/rebrand"
	"pdfrebrand/internal/render"
	"pdfrebrand/internal/service"
)

const (
	DEFAULT_MASK_LAYERS = 3
	DEFAULT_RENDER_DPI  = render.DefaultDPI
)

type options struct {
	in       string
	out      string
	partner  string
	logoPath string
	template string
	remote   string
	flatten  bool
}

func main() {
	in := flag.String("in", "", "The survey report PDF to rebrand.")
	out := flag.String("out", "", "Output file name. Defaults to the generated report name in the current directory.")
	partner := flag.String("partner", "", "Partner name for footer, metadata and file name.")
	logoPath := flag.String("logo", "", "Partner logo image (png or jpeg).")
	template := flag.String("template", "", "YAML template overriding the builtin page layout.")
	remote := flag.String("remote", service.EndpointFromEnv(), "Conversion service endpoint. Defaults to $"+service.EnvRemoteURL+".")
	flatten := flag.Bool("flatten", false, "Rasterize covered regions (requires pdftoppm).")
	verbose := flag.Bool("v", false, "Enable verbose output.")
	flag.Parse()

	if *in == "" {
		log.Fatalf("Error: you must specify an input PDF with -in")
	}
	if *partner == "" {
		log.Fatalf("Error: you must specify a partner name with -partner")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	api.DisableConfigDir()

	if err := run(options{
		in:       *in,
		out:      *out,
		partner:  *partner,
		logoPath: *logoPath,
		template: *template,
		remote:   *remote,
		flatten:  *flatten,
	}, logger); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(opts options, logger *slog.Logger) error {
	if err := rebrand.ValidatePDFInput(opts.in, ""); err != nil {
		return err
	}
	doc, err := os.ReadFile(opts.in)
	if err != nil {
		return fmt.Errorf("error reading input PDF: %v", err)
	}

	req := rebrand.BrandingRequest{PartnerName: opts.partner}
	if opts.logoPath != "" {
		logo, err := os.ReadFile(opts.logoPath)
		if err != nil {
			return fmt.Errorf("error reading logo: %v", err)
		}
		req.Logo = logo
		req.LogoMIME = logoMIME(opts.logoPath)
	}

	tmpl := rebrand.DefaultTemplate()
	if opts.template != "" {
		tmpl, err = rebrand.LoadTemplate(opts.template)
		if err != nil {
			return err
		}
	}

	res, err := convert(opts, tmpl, req, doc, logger)
	if err != nil {
		return err
	}

	outPath := opts.out
	if outPath == "" {
		outPath = res.Filename
	}
	if sameFile(outPath, opts.in) {
		return fmt.Errorf("refusing to overwrite the input file %s", opts.in)
	}
	if err := os.WriteFile(outPath, res.PDF, 0o644); err != nil {
		return fmt.Errorf("error writing output PDF: %v", err)
	}

	fmt.Printf("Successfully created rebranded PDF: %s\n", outPath)
	return nil
}

func convert(opts options, tmpl rebrand.Template, req rebrand.BrandingRequest, doc []byte, logger *slog.Logger) (*rebrand.Result, error) {
	if opts.remote != "" {
		logger.Debug("converting remotely", slog.String("endpoint", opts.remote))
		if opts.flatten {
			logger.Debug("flattening is decided by the remote service configuration")
		}
		out, err := service.NewClient(opts.remote, nil).Convert(context.Background(), req, doc)
		if err != nil {
			return nil, err
		}
		return &rebrand.Result{PDF: out, Filename: tmpl.OutputFilename(req.PartnerName, time.Now())}, nil
	}

	cfg := rebrand.Config{
		Template:   tmpl,
		MaskLayers: DEFAULT_MASK_LAYERS,
		Flatten:    opts.flatten,
		Logger:     logger,
	}
	if opts.flatten {
		renderer, err := render.NewPoppler(render.Config{DPI: DEFAULT_RENDER_DPI})
		if err != nil {
			return nil, err
		}
		cfg.Renderer = renderer
	}
	proc, err := rebrand.New(cfg)
	if err != nil {
		return nil, err
	}
	return proc.Process(context.Background(), req, doc)
}

func logoMIME(path string) string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
