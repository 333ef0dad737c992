package service

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfrebrand/internal/rebrand"
)

func TestMain(m *testing.M) {
	api.DisableConfigDir()
	os.Exit(m.Run())
}

func reportFixture(t *testing.T) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.Text(40, 120, "Beweissicherungsbericht")
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	proc, err := rebrand.New(rebrand.Config{Logger: discardLogger()})
	require.NoError(t, err)
	ts := httptest.NewServer(NewServer(proc, discardLogger(), 0).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postConvert(t *testing.T, ts *httptest.Server, req ConvertRequest) (int, ConvertResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	httpResp, err := http.Post(ts.URL+"/convert", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer httpResp.Body.Close()
	var resp ConvertResponse
	require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&resp))
	return httpResp.StatusCode, resp
}

func TestConvertSuccess(t *testing.T) {
	ts := newTestServer(t)

	status, resp := postConvert(t, ts, ConvertRequest{
		PartnerName: "Acme Partner GmbH",
		PDFBase64:   base64.StdEncoding.EncodeToString(reportFixture(t)),
	})

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Regexp(t, `^Beweissicherungsbericht_Acme_Partner_GmbH_\d{4}-\d{2}-\d{2}\.pdf$`, resp.Filename)

	out, err := base64.StdEncoding.DecodeString(resp.PDFBase64)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestConvertRejectsInvalidJSON(t *testing.T) {
	ts := newTestServer(t)

	httpResp, err := http.Post(ts.URL+"/convert", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer httpResp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, httpResp.StatusCode)
	var resp ConvertResponse
	require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestConvertRejectsInvalidBase64(t *testing.T) {
	ts := newTestServer(t)

	status, resp := postConvert(t, ts, ConvertRequest{
		PartnerName: "Acme Partner GmbH",
		PDFBase64:   "!!!not base64!!!",
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Base64")
}

func TestConvertRejectsEmptyPartnerName(t *testing.T) {
	ts := newTestServer(t)

	status, resp := postConvert(t, ts, ConvertRequest{
		PartnerName: "   ",
		PDFBase64:   base64.StdEncoding.EncodeToString(reportFixture(t)),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "partner name must not be empty")
}

func TestConvertRejectsUnsupportedLogo(t *testing.T) {
	ts := newTestServer(t)

	status, resp := postConvert(t, ts, ConvertRequest{
		PartnerName: "Acme Partner GmbH",
		PDFBase64:   base64.StdEncoding.EncodeToString(reportFixture(t)),
		LogoBase64:  base64.StdEncoding.EncodeToString([]byte("GIF89a...")),
		LogoMIME:    "image/gif",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unsupported image format")
}

func TestConvertRejectsCorruptDocument(t *testing.T) {
	ts := newTestServer(t)

	status, resp := postConvert(t, ts, ConvertRequest{
		PartnerName: "Acme Partner GmbH",
		PDFBase64:   base64.StdEncoding.EncodeToString([]byte("not a pdf")),
	})

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestConvertMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	httpResp, err := http.Get(ts.URL + "/convert")
	require.NoError(t, err)
	defer httpResp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, httpResp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	httpResp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer httpResp.Body.Close()

	assert.Equal(t, http.StatusOK, httpResp.StatusCode)
	body, err := io.ReadAll(httpResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ok")
}
