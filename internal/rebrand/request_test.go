package rebrand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePDFInput(t *testing.T) {
	tests := []struct {
		filename string
		mimeType string
		ok       bool
	}{
		{"Bericht.pdf", "", true},
		{"BERICHT.PDF", "", true},
		{"upload.bin", "application/pdf", true},
		{"upload.bin", "Application/PDF", true},
		{"scan.tiff", "image/tiff", false},
		{"Bericht.pdf.exe", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		err := ValidatePDFInput(tc.filename, tc.mimeType)
		if tc.ok {
			assert.NoError(t, err, "%q %q", tc.filename, tc.mimeType)
		} else {
			require.ErrorIs(t, err, ErrNotPDF, "%q %q", tc.filename, tc.mimeType)
		}
	}
}

func TestValidateLogoMIME(t *testing.T) {
	for _, ok := range []string{"image/png", "image/jpeg", "image/jpg", "IMAGE/PNG", " image/png "} {
		assert.NoError(t, ValidateLogoMIME(ok), ok)
	}
	for _, bad := range []string{"", "image/gif", "image/webp", "application/pdf"} {
		require.ErrorIs(t, ValidateLogoMIME(bad), ErrUnsupportedImageFormat, bad)
	}
}
