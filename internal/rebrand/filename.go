package rebrand

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Characters that survive sanitization: ASCII letters and digits, the
// Latin-1 and Latin Extended-A letters (umlauts, ß, accented vowels),
// space and hyphen. Everything else is dropped before whitespace runs
// collapse to single underscores.
var (
	filenameDropRx  = regexp.MustCompile(`[^0-9A-Za-zÀ-ÖØ-öø-ž -]`)
	whitespaceRunRx = regexp.MustCompile(`\s+`)
)

func sanitizePartner(name string) string {
	s := norm.NFC.String(strings.TrimSpace(name))
	s = filenameDropRx.ReplaceAllString(s, "")
	s = whitespaceRunRx.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" {
		return "Partner"
	}
	return s
}

// OutputFilename builds the download name for a finished report:
// <prefix>_<sanitized partner>_<YYYY-MM-DD>.pdf with the current date,
// not the extracted report date.
func (t Template) OutputFilename(partnerName string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.pdf", t.FilenamePrefix, sanitizePartner(partnerName), now.Format("2006-01-02"))
}
