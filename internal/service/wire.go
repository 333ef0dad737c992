// Package service exposes the rebrand pipeline over HTTP. The wire
// format is a small JSON envelope with Base64 payloads, chosen so the
// collaborating document management system can call the converter
// without multipart handling.
package service

// ConvertRequest is the conversion envelope. PDFBase64 carries the
// source document, the logo fields are optional.
type ConvertRequest struct {
	PartnerName string `json:"partner_name"`
	PDFBase64   string `json:"pdf_base64"`
	LogoBase64  string `json:"logo_base64,omitempty"`
	LogoMIME    string `json:"logo_mime,omitempty"`
}

// ConvertResponse reports one conversion. Success false carries a
// user-facing message in Error and no document.
type ConvertResponse struct {
	Success   bool   `json:"success"`
	PDFBase64 string `json:"pdf_base64,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Error     string `json:"error,omitempty"`
}
