// Package rebrand turns a fixed-layout survey report PDF into a
// partner-branded edition: it paints opaque cover fills over the original
// branding regions, places the partner logo on the title page, writes a
// partner footer line on every content page and rewrites the document
// metadata.
//
// Covered regions are a visual device. The original text below a fill
// stays part of the document and can be recovered with any content-stream
// tool; covering is not redaction and must not be used as one. Callers
// that need the covered content gone from the file have to enable
// flattening, which replaces the covered areas with rendered raster
// images.
package rebrand
