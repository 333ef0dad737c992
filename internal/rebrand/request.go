package rebrand

import (
	"strings"

	"github.com/pkg/errors"
)

// BrandingRequest carries the per-conversion inputs. Logo is optional;
// when present, LogoMIME must name a supported image type.
type BrandingRequest struct {
	PartnerName string
	Logo        []byte
	LogoMIME    string
}

// Result is the finished document plus the download name it should be
// stored under.
type Result struct {
	PDF      []byte
	Filename string
}

var allowedLogoMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// ValidatePDFInput accepts an input when either its file name ends in
// .pdf or its declared MIME type is application/pdf. Content is not
// inspected here; structural problems surface when the document is read.
func ValidatePDFInput(filename, mimeType string) error {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".pdf") {
		return nil
	}
	if strings.EqualFold(strings.TrimSpace(mimeType), "application/pdf") {
		return nil
	}
	return errors.Wrapf(ErrNotPDF, "%q", filename)
}

// ValidateLogoMIME accepts PNG and JPEG logos only.
func ValidateLogoMIME(mimeType string) error {
	if allowedLogoMIME[strings.ToLower(strings.TrimSpace(mimeType))] {
		return nil
	}
	return errors.Wrapf(ErrUnsupportedImageFormat, "%q", mimeType)
}
