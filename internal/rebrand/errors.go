package rebrand

import "github.com/pkg/errors"

// Sentinel errors for input validation. They surface verbatim in CLI
// output and in the error field of the conversion envelope, so their
// wording is part of the user-facing contract.
var (
	// ErrNotPDF rejects inputs whose name and declared type both fail to
	// identify a PDF. The check is by name and MIME type only, the file
	// content is not sniffed.
	ErrNotPDF = errors.New("file is not a PDF")

	// ErrEmptyPartnerName rejects requests with a blank partner name.
	ErrEmptyPartnerName = errors.New("partner name must not be empty")

	// ErrUnsupportedImageFormat rejects logos that are neither PNG nor JPEG.
	ErrUnsupportedImageFormat = errors.New("unsupported image format")

	// ErrLogo covers logo bytes that cannot be decoded or embedded.
	ErrLogo = errors.New("could not process logo")

	// ErrNoPages rejects structurally valid documents with an empty page tree.
	ErrNoPages = errors.New("document has no pages")
)
