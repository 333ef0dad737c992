package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pdfrebrand/internal/rebrand"
)

// defaultMaxBody caps uploads at 50 MB of JSON, which fits the largest
// reports seen in production with room to spare.
const defaultMaxBody = 50 << 20

// Server handles conversion requests against a shared Processor.
type Server struct {
	proc    *rebrand.Processor
	log     *slog.Logger
	maxBody int64
}

// NewServer wires a Processor into an HTTP server. maxBody limits the
// request size in bytes, 0 means the default cap.
func NewServer(proc *rebrand.Processor, logger *slog.Logger, maxBody int64) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Server{proc: proc, log: logger, maxBody: maxBody}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	doc, err := base64.StdEncoding.DecodeString(req.PDFBase64)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "pdf_base64 is not valid Base64")
		return
	}
	var logo []byte
	if req.LogoBase64 != "" {
		logo, err = base64.StdEncoding.DecodeString(req.LogoBase64)
		if err != nil {
			s.fail(w, http.StatusBadRequest, "logo_base64 is not valid Base64")
			return
		}
	}

	res, err := s.proc.Process(r.Context(), rebrand.BrandingRequest{
		PartnerName: req.PartnerName,
		Logo:        logo,
		LogoMIME:    req.LogoMIME,
	}, doc)
	if err != nil {
		s.log.Warn("conversion failed",
			slog.String("partner", req.PartnerName),
			slog.Any("error", err))
		s.fail(w, statusFor(err), err.Error())
		return
	}

	s.log.Info("conversion finished",
		slog.String("partner", req.PartnerName),
		slog.String("filename", res.Filename),
		slog.Int("bytes", len(res.PDF)))
	s.write(w, http.StatusOK, ConvertResponse{
		Success:   true,
		PDFBase64: base64.StdEncoding.EncodeToString(res.PDF),
		Filename:  res.Filename,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// statusFor distinguishes rejected inputs from converter faults.
func statusFor(err error) int {
	for _, sentinel := range []error{
		rebrand.ErrNotPDF,
		rebrand.ErrEmptyPartnerName,
		rebrand.ErrUnsupportedImageFormat,
		rebrand.ErrLogo,
		rebrand.ErrNoPages,
	} {
		if errors.Is(err, sentinel) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string) {
	s.write(w, status, ConvertResponse{Success: false, Error: msg})
}

func (s *Server) write(w http.ResponseWriter, status int, resp ConvertResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("write response", slog.Any("error", err))
	}
}
