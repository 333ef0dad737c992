package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"pdfrebrand/internal/rebrand"
	"pdfrebrand/internal/render"
	"pdfrebrand/internal/service"
)

const DEFAULT_ADDR = ":8085"

func main() {
	addr := flag.String("addr", DEFAULT_ADDR, "Listen address.")
	template := flag.String("template", "", "YAML template overriding the builtin page layout.")
	flatten := flag.Bool("flatten", false, "Rasterize covered regions (requires pdftoppm).")
	maxBody := flag.Int64("max-body", 0, "Request size limit in bytes. 0 uses the builtin default.")
	verbose := flag.Bool("v", false, "Enable verbose output.")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	api.DisableConfigDir()

	tmpl := rebrand.DefaultTemplate()
	if *template != "" {
		loaded, err := rebrand.LoadTemplate(*template)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		tmpl = loaded
	}

	cfg := rebrand.Config{Template: tmpl, Flatten: *flatten, Logger: logger}
	if *flatten {
		renderer, err := render.NewPoppler(render.Config{})
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		cfg.Renderer = renderer
	}
	proc, err := rebrand.New(cfg)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	srv := service.NewServer(proc, logger, *maxBody)
	logger.Info("pdfrebrand server listening", slog.String("addr", *addr))
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
