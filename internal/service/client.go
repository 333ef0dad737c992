package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"

	"pdfrebrand/internal/rebrand"
)

// EnvRemoteURL names the environment variable holding the conversion
// endpoint for remote mode.
const EnvRemoteURL = "PDFREBRAND_REMOTE_URL"

// EndpointFromEnv returns the configured remote endpoint, empty when
// unset.
func EndpointFromEnv() string {
	return os.Getenv(EnvRemoteURL)
}

// Client sends conversions to a remote pdfrebrand server.
type Client struct {
	endpoint string
	hc       *http.Client
}

// NewClient builds a client for the given /convert endpoint. A nil
// http.Client gets a generous timeout suited to large reports.
func NewClient(endpoint string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{endpoint: endpoint, hc: hc}
}

// Convert runs one conversion remotely and returns the finished
// document.
func (c *Client) Convert(ctx context.Context, req rebrand.BrandingRequest, doc []byte) ([]byte, error) {
	env := ConvertRequest{
		PartnerName: req.PartnerName,
		PDFBase64:   base64.StdEncoding.EncodeToString(doc),
	}
	if len(req.Logo) > 0 {
		env.LogoBase64 = base64.StdEncoding.EncodeToString(req.Logo)
		env.LogoMIME = req.LogoMIME
	}
	body, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "call conversion service")
	}
	defer httpResp.Body.Close()

	var resp ConvertResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, errors.Wrapf(err, "conversion service returned status %d with an unreadable body", httpResp.StatusCode)
	}
	if !resp.Success {
		if resp.Error != "" {
			return nil, errors.Errorf("conversion service: %s", resp.Error)
		}
		return nil, errors.Errorf("conversion service returned status %d", httpResp.StatusCode)
	}
	out, err := base64.StdEncoding.DecodeString(resp.PDFBase64)
	if err != nil {
		return nil, errors.Wrap(err, "decode returned document")
	}
	if len(out) == 0 {
		return nil, errors.New("conversion service returned an empty document")
	}
	return out, nil
}
