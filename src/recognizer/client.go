package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Box is one candidate plate region reported by the detector.
type Box struct {
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Confidence float64 `json:"confidence"`
}

// Detector locates candidate plate regions in a full frame.
type Detector interface {
	Detect(ctx context.Context, img []byte) ([]Box, error)
}

// OCR reads text tokens from a prepared plate crop, restricted to an
// allowlist of characters.
type OCR interface {
	Read(ctx context.Context, img []byte, allowlist string) ([]string, error)
}

// HTTPDetector talks to the detection model service: POST {addr}/detect with
// a JPEG body returns the candidate boxes.
type HTTPDetector struct {
	addr string
	http *http.Client
}

func NewHTTPDetector(addr string) *HTTPDetector {
	return &HTTPDetector{
		addr: addr,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *HTTPDetector) Detect(ctx context.Context, img []byte) ([]Box, error) {
	var result struct {
		Boxes []Box `json:"boxes"`
	}
	if err := postJPEG(ctx, d.http, d.addr+"/detect", img, &result); err != nil {
		return nil, fmt.Errorf("detector request failed: %w", err)
	}
	return result.Boxes, nil
}

// HTTPOCR talks to the OCR model service: POST {addr}/read with a JPEG body
// returns the text tokens found, in detection order.
type HTTPOCR struct {
	addr string
	http *http.Client
}

func NewHTTPOCR(addr string) *HTTPOCR {
	return &HTTPOCR{
		addr: addr,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (o *HTTPOCR) Read(ctx context.Context, img []byte, allowlist string) ([]string, error) {
	var result struct {
		Tokens []string `json:"tokens"`
	}
	endpoint := o.addr + "/read?allowlist=" + url.QueryEscape(allowlist)
	if err := postJPEG(ctx, o.http, endpoint, img, &result); err != nil {
		return nil, fmt.Errorf("ocr request failed: %w", err)
	}
	return result.Tokens, nil
}

func postJPEG(ctx context.Context, client *http.Client, endpoint string, img []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(img))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
