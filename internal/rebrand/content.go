package rebrand

import (
	"bytes"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pkg/errors"
)

// document wraps a pdfcpu context with the page-level operations the
// pipeline needs: appending drawing operators to a page and registering
// fonts in its resource dictionary.
type document struct {
	ctx *model.Context

	// wrapped marks pages whose Contents entry has already been rebuilt
	// into an array we own. Later appends on such a page only add another
	// segment instead of wrapping again.
	wrapped map[int]bool
}

func readContext(data []byte, conf *model.Configuration) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, errors.Wrap(err, "read document")
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, errors.Wrap(err, "validate document")
	}
	return ctx, nil
}

func newDocument(ctx *model.Context) *document {
	return &document{ctx: ctx, wrapped: map[int]bool{}}
}

// newFlateStream builds a new flate-encoded content stream object and
// returns its indirect reference.
func (d *document) newFlateStream(content []byte) (*types.IndirectRef, error) {
	sd := types.StreamDict{
		Dict:           types.NewDict(),
		Content:        content,
		FilterPipeline: []types.PDFFilter{{Name: filter.Flate, DecodeParms: nil}},
	}
	sd.InsertName("Filter", filter.Flate)
	if err := sd.Encode(); err != nil {
		return nil, errors.Wrap(err, "encode content stream")
	}
	sd.InsertInt("Length", len(sd.Raw))
	ref, err := d.ctx.IndRefForNewObject(sd)
	if err != nil {
		return nil, errors.Wrap(err, "register content stream")
	}
	return ref, nil
}

// appendContent adds drawing operators to the end of a page. On first
// touch the original content is bracketed between a save and a restore
// so that whatever graphics state the page leaves behind cannot affect
// the appended operators.
func (d *document) appendContent(pageNr int, ops []byte) error {
	pageDict, _, _, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return errors.Wrapf(err, "page %d", pageNr)
	}
	if pageDict == nil {
		return errors.Errorf("page %d: no page dict", pageNr)
	}

	if d.wrapped[pageNr] {
		arr, ok := pageDict["Contents"].(types.Array)
		if !ok {
			return errors.Errorf("page %d: unexpected contents shape", pageNr)
		}
		ref, err := d.newFlateStream(ops)
		if err != nil {
			return err
		}
		pageDict.Update("Contents", append(arr, *ref))
		return nil
	}

	orig, hasContent := pageDict["Contents"]
	if !hasContent || orig == nil {
		ref, err := d.newFlateStream(ops)
		if err != nil {
			return err
		}
		pageDict.Update("Contents", types.Array{*ref})
		d.wrapped[pageNr] = true
		return nil
	}

	// One save-state stream per page. Stamping tools patch the first and
	// last stream of a page in place, a stream shared across pages would
	// leak those patches everywhere.
	saveRef, err := d.newFlateStream([]byte("q\n"))
	if err != nil {
		return err
	}
	closeRef, err := d.newFlateStream(append([]byte("Q\n"), ops...))
	if err != nil {
		return err
	}

	var contents types.Array
	switch o := orig.(type) {
	case types.IndirectRef:
		deref, err := d.ctx.Dereference(o)
		if err != nil {
			return errors.Wrapf(err, "page %d contents", pageNr)
		}
		if arr, ok := deref.(types.Array); ok {
			contents = append(types.Array{*saveRef}, arr...)
		} else {
			contents = types.Array{*saveRef, o}
		}
	case types.Array:
		contents = append(types.Array{*saveRef}, o...)
	default:
		return errors.Errorf("page %d: unexpected contents type %T", pageNr, orig)
	}
	pageDict.Update("Contents", append(contents, *closeRef))
	d.wrapped[pageNr] = true
	return nil
}

// ensureFont registers a simple Type1 font with WinAnsi encoding under
// resName in the page's font resources. Registering the same name twice
// is a no-op.
func (d *document) ensureFont(pageNr int, resName, baseFont string) error {
	pageDict, _, inhPAttrs, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return errors.Wrapf(err, "page %d", pageNr)
	}
	if pageDict == nil {
		return errors.Errorf("page %d: no page dict", pageNr)
	}

	var res types.Dict
	if obj, ok := pageDict["Resources"]; ok && obj != nil {
		res, err = d.ctx.DereferenceDict(obj)
		if err != nil {
			return errors.Wrapf(err, "page %d resources", pageNr)
		}
	}
	if res == nil && inhPAttrs != nil && inhPAttrs.Resources != nil {
		// Inherited resources must be materialized on the page before we
		// extend them, otherwise the page would lose everything else the
		// ancestor provides.
		res = inhPAttrs.Resources
		pageDict.Update("Resources", res)
	}
	if res == nil {
		res = types.NewDict()
		pageDict.Update("Resources", res)
	}

	var fonts types.Dict
	if obj, ok := res["Font"]; ok && obj != nil {
		fonts, err = d.ctx.DereferenceDict(obj)
		if err != nil {
			return errors.Wrapf(err, "page %d font resources", pageNr)
		}
	}
	if fonts == nil {
		fonts = types.NewDict()
		res.Update("Font", fonts)
	}
	if _, ok := fonts[resName]; ok {
		return nil
	}

	fontDict := types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name(baseFont),
		"Encoding": types.Name("WinAnsiEncoding"),
	}
	ref, err := d.ctx.IndRefForNewObject(fontDict)
	if err != nil {
		return errors.Wrapf(err, "register font %s", baseFont)
	}
	fonts.Update(resName, *ref)
	return nil
}

// escapeTextString escapes the three characters with special meaning
// inside a literal PDF string.
func escapeTextString(b []byte) []byte {
	var out bytes.Buffer
	for _, c := range b {
		switch c {
		case '\\', '(', ')':
			out.WriteByte('\\')
		}
		out.WriteByte(c)
	}
	return out.Bytes()
}
