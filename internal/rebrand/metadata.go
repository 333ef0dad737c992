package rebrand

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

// pdfTextString encodes a Go string as a PDF text string literal. ASCII
// passes through, anything else is written as UTF-16BE with a byte order
// mark so that umlauts in partner names survive every viewer.
func pdfTextString(s string) (types.StringLiteral, error) {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return types.StringLiteral(escapeTextString([]byte(s))), nil
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return "", errors.Wrap(err, "encode metadata string")
	}
	return types.StringLiteral(escapeTextString(b)), nil
}

// setInfo rewrites the document information dictionary so the output
// carries the partner identity instead of the original producer's.
func (d *document) setInfo(partnerName string) error {
	var info types.Dict
	if d.ctx.Info != nil {
		dict, err := d.ctx.DereferenceDict(*d.ctx.Info)
		if err != nil {
			return errors.Wrap(err, "info dict")
		}
		info = dict
	}
	if info == nil {
		info = types.NewDict()
		ref, err := d.ctx.IndRefForNewObject(info)
		if err != nil {
			return errors.Wrap(err, "info dict")
		}
		d.ctx.Info = ref
	}

	for key, val := range map[string]string{
		"Title":    fmt.Sprintf("Beweissicherungsbericht %s", partnerName),
		"Producer": partnerName,
		"Creator":  partnerName,
	} {
		sl, err := pdfTextString(val)
		if err != nil {
			return err
		}
		info.Update(key, sl)
	}
	return nil
}
