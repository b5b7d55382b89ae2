package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// OpenAIKeyHeader carries the user's key to the identification service.
const OpenAIKeyHeader = "X-OpenAI-API-Key"

// IdentifyClient talks to the external image-identification service that
// runs on the user-configured GPU endpoint. It shares no authentication
// with the Shelfie backend.
type IdentifyClient struct {
	hc      *http.Client
	timeout time.Duration
}

func NewIdentifyClient(timeout time.Duration) *IdentifyClient {
	return &IdentifyClient{hc: &http.Client{}, timeout: timeout}
}

// ProcessImage uploads a shelf photo for segmentation and identification.
// image must be a data-URI or bare base64 JPEG body. apiKey is optional.
func (c *IdentifyClient) ProcessImage(ctx context.Context, endpointURL, image, filename, apiKey string) ([]models.Segment, error) {
	ctx, cancel := boundCtx(ctx, c.timeout)
	defer cancel()

	raw, err := base64.StdEncoding.DecodeString(models.StripDataURI(image))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(raw); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(endpointURL, "process_image"), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set(OpenAIKeyHeader, apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var out segmentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return out.Segments, nil
}
