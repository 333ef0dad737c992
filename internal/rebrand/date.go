package rebrand

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// dateRx matches the DD.MM.YYYY form used throughout the reports. Plain
// digit matching on purpose: 99.99.2024 would be accepted, the value is
// display text, never parsed as a date.
var dateRx = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

// ExtractDate pulls the report date from the text layer of the given
// page. Extraction is best effort and never fails: a short document, an
// unreadable text layer or a page without a date all yield the empty
// string, and the caller renders the footer without a date suffix.
func ExtractDate(data []byte, pageNr int, label string) (date string) {
	// The text layer reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			date = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	if pageNr < 1 || r.NumPage() < pageNr {
		return ""
	}
	page := r.Page(pageNr)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return findDate(text, label)
}

// findDate returns the first date after label when the label is present,
// otherwise the first date anywhere in the text.
func findDate(text, label string) string {
	if label != "" {
		if i := strings.Index(text, label); i >= 0 {
			if m := dateRx.FindString(text[i:]); m != "" {
				return m
			}
		}
	}
	return dateRx.FindString(text)
}
